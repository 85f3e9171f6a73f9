package externalapi

import "github.com/komodo-platform/komodod/wire"

// TransactionVersion identifies the wire format and consensus rule set a
// transaction was built under. Only V4 and V5 are valid under the
// network upgrades this module covers; V1-V3 are always rejected with
// TransactionError{Kind: WrongVersion}.
type TransactionVersion uint32

// Recognized transaction versions.
const (
	TxVersion1 TransactionVersion = 1
	TxVersion2 TransactionVersion = 2
	TxVersion3 TransactionVersion = 3
	TxVersion4 TransactionVersion = 4
	TxVersion5 TransactionVersion = 5
)

// TransparentInput is either the sole Coinbase input of a coinbase
// transaction or a PrevOut spending a prior transparent output. Exactly
// one of the two forms is populated in any given input; Transaction's
// invariant (enforced by the check module, not by this type) is that a
// transaction has either one Coinbase input and no PrevOut inputs, or
// any number of PrevOut inputs and no Coinbase input.
type TransparentInput struct {
	IsCoinbase bool

	// Populated when IsCoinbase is true.
	CoinbaseScript []byte

	// Populated when IsCoinbase is false.
	Outpoint  Outpoint
	ScriptSig []byte
	Sequence  uint32
}

// TransparentOutput is a single transparent payment.
type TransparentOutput struct {
	Value           Amount
	ScriptPublicKey []byte
}

// JoinSplit is a single Sprout-pool shielded transfer description.
type JoinSplit struct {
	VPubOld        Amount
	VPubNew        Amount
	Anchor         wire.Hash
	Nullifiers     [2]wire.Hash
	Commitments    [2]wire.Hash
	EphemeralKey   [32]byte
	RandomSeed     [32]byte
	MACs           [2][32]byte
	Proof          []byte // opaque Groth16 proof bytes; verified by an external service
	EncryptedNotes [2][601]byte
}

// JoinSplitBundle carries every JoinSplit in a transaction plus the
// single joint Ed25519 signature binding them to the transaction.
type JoinSplitBundle struct {
	JoinSplits []*JoinSplit
	PubKey     [32]byte // Ed25519 joinsplit pubkey
	Signature  [64]byte // Ed25519 joinsplit signature
}

// AnchorKind distinguishes which shielded pool's note commitment tree an
// anchor refers to.
type AnchorKind uint8

// Anchor kinds.
const (
	AnchorSapling AnchorKind = iota
	AnchorOrchard
)

// SaplingSpend is a single Sapling shielded input.
type SaplingSpend struct {
	Anchor          wire.Hash
	Nullifier       wire.Hash
	ValueCommitment [32]byte
	Rk              [32]byte // randomized spend-auth public key
	Proof           []byte   // opaque Groth16 spend proof
	SpendAuthSig    [64]byte // RedJubjub signature
}

// SaplingOutput is a single Sapling shielded output.
type SaplingOutput struct {
	ValueCommitment [32]byte
	CommitmentTree  wire.Hash
	EphemeralKey    [32]byte
	EncryptedNote   [580]byte
	OutCiphertext   [80]byte
	Proof           []byte // opaque Groth16 output proof
}

// SaplingBundle carries every Sapling spend and output in a transaction,
// the net value balance they move into the transparent pool, and the
// single binding signature over the whole bundle.
type SaplingBundle struct {
	Spends        []*SaplingSpend
	Outputs       []*SaplingOutput
	ValueBalance  Amount
	BindingSig    [64]byte // RedJubjub binding signature
	SharedAnchor  wire.Hash
	UsesSharedAnchor bool
}

// OrchardAction is a single combined spend+output.
type OrchardAction struct {
	Nullifier       wire.Hash
	Rk              [32]byte // randomized spend verification key (RedPallas)
	CmX             wire.Hash
	EphemeralKey    [32]byte
	EncryptedNote   [580]byte
	OutCiphertext   [80]byte
	ValueCommitment [32]byte
	SpendAuthSig    [64]byte // RedPallas signature
}

// OrchardFlags are the Orchard bundle's enable flags (spec §4.1
// has_enough_orchard_flags).
type OrchardFlags uint8

// Orchard bundle flag bits.
const (
	OrchardEnableSpends OrchardFlags = 1 << iota
	OrchardEnableOutputs
)

// HasSpends reports whether the enableSpends flag is set.
func (f OrchardFlags) HasSpends() bool { return f&OrchardEnableSpends != 0 }

// HasOutputs reports whether the enableOutputs flag is set.
func (f OrchardFlags) HasOutputs() bool { return f&OrchardEnableOutputs != 0 }

// OrchardBundle carries every Orchard action in a transaction, its
// shared anchor, a single aggregated Halo2 proof, and a single binding
// signature derived over the whole bundle.
type OrchardBundle struct {
	Actions      []*OrchardAction
	Flags        OrchardFlags
	ValueBalance Amount
	Anchor       wire.Hash
	Proof        []byte   // opaque aggregated Halo2 proof
	BindingSig   [64]byte // RedPallas binding signature
}

// Transaction is the tagged transaction variant described by spec §3.
// Only a Version of TxVersion4 or TxVersion5 is ever accepted past the
// check module; earlier versions are represented so that they can be
// rejected with WrongVersion, not to be otherwise processed.
type Transaction struct {
	Version        TransactionVersion
	VersionGroupID uint32

	Inputs  []*TransparentInput
	Outputs []*TransparentOutput

	LockTime     uint32
	ExpiryHeight uint32

	JoinSplitBundle *JoinSplitBundle // Sprout, V4 only
	SaplingBundle   *SaplingBundle   // V4 and V5
	OrchardBundle   *OrchardBundle   // V5 only

	cachedTxID *wire.Hash
}

// IsCoinbase reports whether the transaction's sole input is the
// coinbase input. The check module's coinbase/PrevOut exclusivity
// invariant guarantees this is equivalent to "has no PrevOut inputs".
func (tx *Transaction) IsCoinbase() bool {
	return len(tx.Inputs) == 1 && tx.Inputs[0].IsCoinbase
}

// HasSprout reports whether the transaction carries a non-empty Sprout
// JoinSplit bundle.
func (tx *Transaction) HasSprout() bool {
	return tx.JoinSplitBundle != nil && len(tx.JoinSplitBundle.JoinSplits) > 0
}

// HasSapling reports whether the transaction carries any Sapling spends
// or outputs.
func (tx *Transaction) HasSapling() bool {
	return tx.SaplingBundle != nil &&
		(len(tx.SaplingBundle.Spends) > 0 || len(tx.SaplingBundle.Outputs) > 0)
}

// HasOrchard reports whether the transaction carries any Orchard
// actions.
func (tx *Transaction) HasOrchard() bool {
	return tx.OrchardBundle != nil && len(tx.OrchardBundle.Actions) > 0
}

// TxID returns the transaction's precomputed id, if the caller has set
// one via SetTxID. Computing the id from the transaction's contents is
// a serialization concern outside this module's scope (spec.md
// Non-goals); callers that already have the id attach it here so the
// rest of the pipeline can refer to it without recomputing it.
func (tx *Transaction) TxID() *wire.Hash {
	return tx.cachedTxID
}

// SetTxID attaches a precomputed transaction id.
func (tx *Transaction) SetTxID(id *wire.Hash) {
	tx.cachedTxID = id
}
