package externalapi

import "fmt"

// TransactionErrorKind identifies which consensus rule a transaction
// failed, per spec §7's error taxonomy.
type TransactionErrorKind int

// Transaction error kinds, one per spec §7 variant.
const (
	ErrNoInputs TransactionErrorKind = iota
	ErrNoOutputs
	ErrCoinbaseInMempool
	ErrNonCoinbaseHasCoinbaseInput
	ErrCoinbaseHasJoinSplit
	ErrCoinbaseHasSaplingSpend
	ErrCoinbaseHasEnableSpendsOrchard
	ErrBothVPubsNonZero
	ErrDisabledAddToSproutPool
	ErrDuplicateTransparentSpend
	ErrDuplicateSproutNullifier
	ErrDuplicateSaplingNullifier
	ErrDuplicateOrchardNullifier
	ErrLockedUntilAfterBlockHeight
	ErrLockedUntilAfterBlockTime
	ErrWrongVersion
	ErrUnsupportedByNetworkUpgrade
	ErrCoinbaseExpiryBlockHeight
	ErrMaximumExpiryHeight
	ErrExpiredTransaction
	ErrCoinbaseOutputsNotDecryptable
	ErrTransparentInputNotFound
	ErrIncorrectFee
	ErrNotEnoughFlags
	ErrKomodoLowFeeLimit
	ErrKomodoAbsurdFee
	ErrKomodoTxLockTimeTooEarly
	ErrKomodoTipTimeError
	ErrKomodoMedianTimePastError
)

var transactionErrorKindNames = map[TransactionErrorKind]string{
	ErrNoInputs:                       "NoInputs",
	ErrNoOutputs:                      "NoOutputs",
	ErrCoinbaseInMempool:              "CoinbaseInMempool",
	ErrNonCoinbaseHasCoinbaseInput:    "NonCoinbaseHasCoinbaseInput",
	ErrCoinbaseHasJoinSplit:           "CoinbaseHasJoinSplit",
	ErrCoinbaseHasSaplingSpend:        "CoinbaseHasSaplingSpend",
	ErrCoinbaseHasEnableSpendsOrchard: "CoinbaseHasEnableSpendsOrchard",
	ErrBothVPubsNonZero:               "BothVPubsNonZero",
	ErrDisabledAddToSproutPool:        "DisabledAddToSproutPool",
	ErrDuplicateTransparentSpend:      "DuplicateTransparentSpend",
	ErrDuplicateSproutNullifier:       "DuplicateSproutNullifier",
	ErrDuplicateSaplingNullifier:      "DuplicateSaplingNullifier",
	ErrDuplicateOrchardNullifier:      "DuplicateOrchardNullifier",
	ErrLockedUntilAfterBlockHeight:    "LockedUntilAfterBlockHeight",
	ErrLockedUntilAfterBlockTime:      "LockedUntilAfterBlockTime",
	ErrWrongVersion:                   "WrongVersion",
	ErrUnsupportedByNetworkUpgrade:    "UnsupportedByNetworkUpgrade",
	ErrCoinbaseExpiryBlockHeight:      "CoinbaseExpiryBlockHeight",
	ErrMaximumExpiryHeight:            "MaximumExpiryHeight",
	ErrExpiredTransaction:             "ExpiredTransaction",
	ErrCoinbaseOutputsNotDecryptable:  "CoinbaseOutputsNotDecryptable",
	ErrTransparentInputNotFound:       "TransparentInputNotFound",
	ErrIncorrectFee:                  "IncorrectFee",
	ErrNotEnoughFlags:                "NotEnoughFlags",
	ErrKomodoLowFeeLimit:             "KomodoLowFeeLimit",
	ErrKomodoAbsurdFee:               "KomodoAbsurdFee",
	ErrKomodoTxLockTimeTooEarly:      "KomodoTxLockTimeTooEarly",
	ErrKomodoTipTimeError:            "KomodoTipTimeError",
	ErrKomodoMedianTimePastError:     "KomodoMedianTimePastError",
}

func (k TransactionErrorKind) String() string {
	if name, ok := transactionErrorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TransactionErrorKind(%d)", int(k))
}

// TransactionError is returned by the transaction verifier for every
// rejected transaction. It is comparable by Kind so callers can
// distinguish mempool-rejection policy from block-invalidation policy
// without string matching.
type TransactionError struct {
	Kind    TransactionErrorKind
	Message string
}

func (e *TransactionError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewTransactionError returns a TransactionError of the given kind with
// a formatted message.
func NewTransactionError(kind TransactionErrorKind, format string, args ...interface{}) *TransactionError {
	return &TransactionError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Is supports errors.Is against another *TransactionError by matching
// on Kind alone; targets of any other type never match.
func (e *TransactionError) Is(target error) bool {
	other, ok := target.(*TransactionError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}
