// Package transactionvalidator implements the transaction verifier
// service (spec §4.3): the orchestration that ties the synchronous
// check module, UTXO resolution, the fee-rate limiter, and the
// asynchronous crypto/script checks into one request/response
// operation.
package transactionvalidator

import (
	"context"
	"time"

	"github.com/komodo-platform/komodod/domain/consensus/model"
	"github.com/komodo-platform/komodod/domain/consensus/model/externalapi"
	"github.com/komodo-platform/komodod/domain/consensus/processes/transactionvalidator/check"
	"github.com/pkg/errors"
)

// Config bundles the network parameters and rule-activation switches a
// Verifier needs beyond its external service handles.
type Config struct {
	Upgrades              *externalapi.NetworkUpgrades
	MinRelayFeePerKB      externalapi.Amount
	InterestRules         InterestRules
	DecemberHardforkHeight uint64
}

// Verifier is the transaction verifier service described by spec §4.3.
// Invocations of Verify are independent and may be processed
// concurrently; the Verifier itself holds only the shared, cloneable
// service handles and the process-wide fee-rate limiter.
type Verifier struct {
	state          model.StateService
	scriptVerifier model.ScriptVerifier
	cryptoVerifier model.CryptoVerifier
	sigHasher      model.SignatureHasher
	feeLimiter     *FeeRateLimiter
	config         Config
}

// New returns a Verifier wired to the given external service handles.
func New(
	state model.StateService,
	scriptVerifier model.ScriptVerifier,
	cryptoVerifier model.CryptoVerifier,
	sigHasher model.SignatureHasher,
	feeLimiter *FeeRateLimiter,
	config Config,
) *Verifier {
	return &Verifier{
		state:          state,
		scriptVerifier: scriptVerifier,
		cryptoVerifier: cryptoVerifier,
		sigHasher:      sigHasher,
		feeLimiter:     feeLimiter,
		config:         config,
	}
}

// Verify runs the full spec §4.3 algorithm against req and returns a
// Response, or an error. Rule violations are returned as a
// *externalapi.TransactionError; failures of the state service are
// returned wrapped with context, and failures reported by an async
// check are returned as that check reported them. Each UTXO lookup is
// bounded by UTXOLookupTimeout; the median-time-past and block lookups
// and the async checks have no timeout of their own and are bounded
// only by ctx.
func (v *Verifier) Verify(ctx context.Context, req *externalapi.Request) (*externalapi.Response, error) {
	if req.Block != nil {
		return v.verifyBlock(ctx, req.Block)
	}
	return v.verifyMempool(ctx, req.Mempool)
}

func (v *Verifier) verifyBlock(ctx context.Context, req *externalapi.BlockRequest) (*externalapi.Response, error) {
	tx := req.Tx
	upgrade := v.config.Upgrades.Current(req.Height)

	tipHeight := uint64(0)
	if req.Height > 0 {
		tipHeight = req.Height - 1
	}
	blockCtx := check.BlockContext{
		Height:                 req.Height,
		Time:                   req.Time,
		TipHeight:              tipHeight,
		DecemberHardforkActive: req.Height > v.config.DecemberHardforkHeight,
	}

	// Step 1: finality, using block time.
	if !check.IsFinalTxKomodo(tx, blockCtx) {
		if uint64(tx.LockTime) >= lockTimeThreshold {
			return nil, externalapi.NewTransactionError(externalapi.ErrLockedUntilAfterBlockTime,
				"transaction is not final at time %d", req.Time)
		}
		return nil, externalapi.NewTransactionError(externalapi.ErrLockedUntilAfterBlockHeight,
			"transaction is not final at height %d", req.Height)
	}

	if err := v.runSyncChecks(tx, upgrade, req.Height, false); err != nil {
		return nil, err
	}

	// Step 7/8: interest lock-time and reference time for interest
	// computation. previousMTP is only needed, and only fetched, when
	// the gap-after-second-block rule is active.
	var previousMTP int64
	if v.config.InterestRules.GapAfterSecondBlockActive {
		mtp, err := v.state.GetMedianTimePast(ctx, &req.PreviousHash)
		if err != nil {
			return nil, errors.Wrap(err, "fetching previous median time past")
		}
		previousMTP = mtp
	}
	cmpTime := cmpTimeForBlock(req.Time, previousMTP, v.config.InterestRules)
	if err := checkInterestLockTime(tx, cmpTime, v.config.InterestRules); err != nil {
		return nil, err
	}

	referenceBlock, err := v.state.AwaitBlock(ctx, req.PreviousHash)
	if err != nil {
		return nil, errors.Wrap(err, "awaiting previous block")
	}
	referenceTime := req.Time
	if referenceBlock != nil {
		referenceTime = referenceBlock.Timestamp
	}

	// Step 10: UTXO resolution.
	resolved, err := resolveUTXOs(ctx, v.state, tx.Inputs, req.KnownUTXOs, true)
	if err != nil {
		return nil, err
	}

	// Step 11: last-tx context.
	if req.LastTxVerifyData != nil {
		if err := check.KomodoDepositAndOpretCheck(tx, req.LastTxVerifyData); err != nil {
			return nil, err
		}
	}

	branchID, _ := externalapi.CurrentConsensusBranchID(v.config.Upgrades, req.Height)

	asyncChecks, err := v.buildAsyncChecks(tx, upgrade, branchID, resolved)
	if err != nil {
		return nil, err
	}
	if err := asyncChecks.Check(ctx); err != nil {
		return nil, err
	}

	minerFee, interest, err := v.computeFeeAndInterest(tx, resolved, referenceTime)
	if err != nil {
		return nil, err
	}

	var minerFeePtr *externalapi.Amount
	if !tx.IsCoinbase() {
		minerFeePtr = &minerFee
	}

	return &externalapi.Response{
		Block: &externalapi.BlockResponse{
			TxID:             *tx.TxID(),
			MinerFee:         minerFeePtr,
			LegacySigopCount: legacySigopCount(tx),
			Interest:         interest,
		},
	}, nil
}

func (v *Verifier) verifyMempool(ctx context.Context, req *externalapi.MempoolRequest) (*externalapi.Response, error) {
	tx := req.Tx

	if tx.IsCoinbase() {
		return nil, externalapi.NewTransactionError(externalapi.ErrCoinbaseInMempool,
			"coinbase transactions cannot be submitted to the mempool")
	}

	upgrade := v.config.Upgrades.Current(req.Height)

	if err := v.runSyncChecks(tx, upgrade, req.Height, true); err != nil {
		return nil, err
	}

	medianTimePast, err := v.state.GetMedianTimePast(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "fetching median time past")
	}
	cmpTime := cmpTimeForMempool(medianTimePast, v.config.InterestRules)
	if err := checkInterestLockTime(tx, cmpTime, v.config.InterestRules); err != nil {
		return nil, err
	}

	var referenceTime int64
	if req.Height > 0 {
		prevBlock, err := v.state.BlockByHeight(ctx, req.Height-1)
		if err != nil {
			return nil, errors.Wrap(err, "fetching reference block")
		}
		if prevBlock != nil {
			referenceTime = prevBlock.Timestamp
		}
	}

	resolved, err := resolveUTXOs(ctx, v.state, tx.Inputs, nil, false)
	if err != nil {
		return nil, err
	}

	branchID, _ := externalapi.CurrentConsensusBranchID(v.config.Upgrades, req.Height)

	asyncChecks, err := v.buildAsyncChecks(tx, upgrade, branchID, resolved)
	if err != nil {
		return nil, err
	}
	if err := asyncChecks.Check(ctx); err != nil {
		return nil, err
	}

	fee, _, err := v.computeFeeAndInterest(tx, resolved, referenceTime)
	if err != nil {
		return nil, err
	}

	if err := v.checkFeePolicy(tx, fee, req.CheckLowFee, req.RejectAbsurdFee); err != nil {
		return nil, err
	}

	return &externalapi.Response{
		Mempool: &externalapi.MempoolResponse{
			VerifiedUnminedTx: &externalapi.VerifiedUnminedTx{
				Tx:               tx,
				TransactionFee:   fee,
				LegacySigopCount: legacySigopCount(tx),
			},
		},
	}, nil
}

// runSyncChecks runs every pure predicate from spec §4.1 in the order
// described by spec §4.3 steps 2-6, followed by the anchor-consistency
// check. No banned-input check is run.
func (v *Verifier) runSyncChecks(tx *externalapi.Transaction, upgrade externalapi.NetworkUpgrade, height uint64, isMempool bool) error {
	if tx.Version != externalapi.TxVersion4 && tx.Version != externalapi.TxVersion5 {
		return externalapi.NewTransactionError(externalapi.ErrWrongVersion,
			"transaction version %d is not supported", tx.Version)
	}
	if tx.Version == externalapi.TxVersion5 && upgrade < externalapi.Nu5 {
		return externalapi.NewTransactionError(externalapi.ErrUnsupportedByNetworkUpgrade,
			"v5 transactions require nu5")
	}

	if err := check.HasInputsAndOutputs(tx); err != nil {
		return err
	}
	if err := check.HasEnoughOrchardFlags(tx); err != nil {
		return err
	}

	if isMempool && tx.IsCoinbase() {
		return externalapi.NewTransactionError(externalapi.ErrCoinbaseInMempool, "coinbase in mempool")
	}
	if err := check.NonCoinbaseHasNoCoinbaseInput(tx); err != nil {
		return err
	}
	if err := check.CoinbaseTxNoPrevoutJoinsplitSpend(tx); err != nil {
		return err
	}

	if err := check.CoinbaseExpiryHeight(tx, upgrade, height); err != nil {
		return err
	}
	if err := check.NonCoinbaseExpiryHeight(tx, height); err != nil {
		return err
	}

	if err := check.JoinsplitHasVpubZero(tx); err != nil {
		return err
	}
	if err := check.DisabledAddToSproutPool(tx, upgrade); err != nil {
		return err
	}

	if err := check.SpendConflicts(tx); err != nil {
		return err
	}
	return check.AnchorsAreConsistent(tx)
}

func (v *Verifier) buildAsyncChecks(
	tx *externalapi.Transaction,
	upgrade externalapi.NetworkUpgrade,
	branchID externalapi.ConsensusBranchId,
	resolved *ResolvedUTXOs,
) (*AsyncChecks, error) {
	if tx.Version == externalapi.TxVersion5 {
		return v.buildV5Checks(tx, upgrade, branchID, resolved)
	}
	return v.buildV4Checks(tx, upgrade, branchID, resolved)
}

func (v *Verifier) computeFeeAndInterest(tx *externalapi.Transaction, resolved *ResolvedUTXOs, referenceTime int64) (externalapi.Amount, externalapi.Amount, error) {
	vb := externalapi.NewValueBalance()

	var interest externalapi.Amount
	for _, in := range tx.Inputs {
		if in.IsCoinbase {
			continue
		}
		utxo := resolved.ByOutpoint[in.Outpoint]
		if err := vb.AddTransparentInput(utxo.Output.Value); err != nil {
			return 0, 0, externalapi.NewTransactionError(externalapi.ErrIncorrectFee, "%s", err)
		}
	}

	for _, out := range tx.Outputs {
		if err := vb.AddTransparentOutput(out.Value); err != nil {
			return 0, 0, externalapi.NewTransactionError(externalapi.ErrIncorrectFee, "%s", err)
		}
	}

	if tx.HasSprout() {
		for _, js := range tx.JoinSplitBundle.JoinSplits {
			net, err := js.VPubNew.Sub(js.VPubOld)
			if err != nil {
				return 0, 0, externalapi.NewTransactionError(externalapi.ErrIncorrectFee, "%s", err)
			}
			if err := vb.AddShieldedValueBalance(net); err != nil {
				return 0, 0, externalapi.NewTransactionError(externalapi.ErrIncorrectFee, "%s", err)
			}
		}
	}
	if tx.SaplingBundle != nil {
		if err := vb.AddShieldedValueBalance(tx.SaplingBundle.ValueBalance); err != nil {
			return 0, 0, externalapi.NewTransactionError(externalapi.ErrIncorrectFee, "%s", err)
		}
	}
	if tx.OrchardBundle != nil {
		if err := vb.AddShieldedValueBalance(tx.OrchardBundle.ValueBalance); err != nil {
			return 0, 0, externalapi.NewTransactionError(externalapi.ErrIncorrectFee, "%s", err)
		}
	}

	fee, err := vb.RemainingTransactionValue()
	if err != nil {
		return 0, 0, externalapi.NewTransactionError(externalapi.ErrIncorrectFee, "%s", err)
	}
	if !tx.IsCoinbase() && fee < 0 {
		return 0, 0, externalapi.NewTransactionError(externalapi.ErrIncorrectFee,
			"transaction fee is negative: %d", fee)
	}

	for _, in := range tx.Inputs {
		if in.IsCoinbase {
			continue
		}
		utxo := resolved.ByOutpoint[in.Outpoint]
		interestAmt := komodoInterest(utxo.Output.Value, utxo.BlockTime, referenceTime)
		sum, err := interest.Add(interestAmt)
		if err != nil {
			return 0, 0, externalapi.NewTransactionError(externalapi.ErrIncorrectFee, "%s", err)
		}
		interest = sum
	}

	return fee, interest, nil
}

// checkFeePolicy implements spec §4.3 step 16: the low-fee rate limiter
// and the absurd-fee upper bound.
func (v *Verifier) checkFeePolicy(tx *externalapi.Transaction, fee externalapi.Amount, checkLowFee, rejectAbsurdFee bool) error {
	size := transactionSize(tx)
	minFee := v.config.MinRelayFeePerKB * externalapi.Amount(size) / 1000

	if checkLowFee && fee < minFee {
		if !v.feeLimiter.CheckRateLimit(time.Now()) {
			return externalapi.NewTransactionError(externalapi.ErrKomodoLowFeeLimit, "low txfee limit reached")
		}
	}

	if rejectAbsurdFee {
		outputValue := totalOutputValue(tx)
		if fee > 10_000*minFee && fee > outputValue/19 {
			return externalapi.NewTransactionError(externalapi.ErrKomodoAbsurdFee,
				"fee %d is absurdly high for output value %d", fee, outputValue)
		}
	}

	return nil
}

func totalOutputValue(tx *externalapi.Transaction) externalapi.Amount {
	var total externalapi.Amount
	for _, out := range tx.Outputs {
		total += out.Value
	}
	return total
}

// transactionSize is a placeholder for the transaction's serialized
// byte size; exact binary serialization is outside this module's scope
// (spec.md Non-goals), so callers that need byte-exact fee-rate
// accounting should serialize the transaction themselves and populate
// a cached size rather than relying on this heuristic in production.
func transactionSize(tx *externalapi.Transaction) int {
	size := 10
	size += 150 * len(tx.Inputs)
	size += 35 * len(tx.Outputs)
	if tx.HasSprout() {
		size += 1800 * len(tx.JoinSplitBundle.JoinSplits)
	}
	if tx.SaplingBundle != nil {
		size += 280*len(tx.SaplingBundle.Spends) + 948*len(tx.SaplingBundle.Outputs)
	}
	if tx.OrchardBundle != nil {
		size += 820 * len(tx.OrchardBundle.Actions)
	}
	return size
}

// legacySigopCount is computed only for the cached view's transparent
// inputs; the script interpreter that would count opcodes precisely is
// out of scope, so this counts one legacy sigop per non-coinbase
// transparent input, matching the worked single-input example in
// spec §8.
func legacySigopCount(tx *externalapi.Transaction) int {
	if tx.IsCoinbase() {
		return 0
	}
	return len(tx.Inputs)
}
