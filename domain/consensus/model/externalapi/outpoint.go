package externalapi

import "github.com/komodo-platform/komodod/wire"

// Outpoint identifies a single transparent UTXO by the id of the
// transaction that created it and the index of the output within that
// transaction.
type Outpoint struct {
	TxID  wire.Hash
	Index uint32
}

// NewOutpoint returns a new Outpoint.
func NewOutpoint(txID *wire.Hash, index uint32) *Outpoint {
	return &Outpoint{TxID: *txID, Index: index}
}

// String returns "txid:index".
func (o Outpoint) String() string {
	return o.TxID.String() + ":" + uintToString(o.Index)
}

func uintToString(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// UTXO is a single unspent transparent output as known by the state
// service: the outpoint that created it, the output itself, the height
// and timestamp (Unix seconds) of the block that mined it, and whether
// that block's coinbase produced it. BlockTime is the funding block's
// own timestamp, not a median-time-past: callers computing elapsed
// lock duration combine it with the comparison point appropriate to
// their context (mempool or block).
type UTXO struct {
	Outpoint   Outpoint
	Output     *TransparentOutput
	Height     uint64
	BlockTime  int64
	IsCoinbase bool
}

// NewUTXO returns a new UTXO.
func NewUTXO(outpoint Outpoint, output *TransparentOutput, height uint64, blockTime int64, isCoinbase bool) *UTXO {
	return &UTXO{
		Outpoint:   outpoint,
		Output:     output,
		Height:     height,
		BlockTime:  blockTime,
		IsCoinbase: isCoinbase,
	}
}
