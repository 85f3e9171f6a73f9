package externalapi

import "github.com/komodo-platform/komodod/wire"

// LastTxVerifyData carries the extra context available only when
// verifying the last transaction of a block, used by the Komodo
// deposit-and-opret check (spec §4.1 komodo_check_deposit_and_opret).
type LastTxVerifyData struct {
	CoinbaseTx   *Transaction
	Difficulty   uint32
	MerkleRoot   wire.Hash
}

// BlockRequest is the Request variant for a transaction being verified
// in the context of a specific block.
type BlockRequest struct {
	Tx         *Transaction
	KnownUTXOs map[Outpoint]*UTXO
	Height     uint64
	Time       int64
	PreviousHash wire.Hash

	// LastTxVerifyData is non-nil only when Tx is the last transaction
	// of the block.
	LastTxVerifyData *LastTxVerifyData
}

// MempoolRequest is the Request variant for a transaction being
// considered for mempool admission.
type MempoolRequest struct {
	Tx              *Transaction
	Height          uint64
	CheckLowFee     bool
	RejectAbsurdFee bool
}

// Request is the tagged variant accepted by the transaction verifier
// service. Exactly one of Block or Mempool is non-nil.
type Request struct {
	Block   *BlockRequest
	Mempool *MempoolRequest
}

// NewBlockRequest wraps a BlockRequest as a Request.
func NewBlockRequest(r *BlockRequest) *Request {
	return &Request{Block: r}
}

// NewMempoolRequest wraps a MempoolRequest as a Request.
func NewMempoolRequest(r *MempoolRequest) *Request {
	return &Request{Mempool: r}
}

// BlockResponse is the Response variant returned for a BlockRequest.
type BlockResponse struct {
	TxID            wire.Hash
	MinerFee        *Amount // nil for coinbase transactions
	LegacySigopCount int
	Interest        Amount
}

// VerifiedUnminedTx wraps a mempool-admitted transaction together with
// the fee and sigop data computed while verifying it, mirroring
// original_source/zebra-consensus's UnminedTx/VerifiedUnminedTx split
// (see SPEC_FULL.md §4 supplement note).
type VerifiedUnminedTx struct {
	Tx               *Transaction
	TransactionFee   Amount
	LegacySigopCount int
}

// MempoolResponse is the Response variant returned for a MempoolRequest.
type MempoolResponse struct {
	VerifiedUnminedTx *VerifiedUnminedTx
}

// Response is the tagged variant returned by the transaction verifier
// service on success. Exactly one of Block or Mempool is non-nil.
type Response struct {
	Block   *BlockResponse
	Mempool *MempoolResponse
}
