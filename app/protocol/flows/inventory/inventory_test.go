package inventory

import (
	"testing"

	"github.com/komodo-platform/komodod/wire"
)

func hashWith(b byte) wire.Hash {
	var h wire.Hash
	h[0] = b
	return h
}

func TestObserveSingleBlockAdvertisesBlock(t *testing.T) {
	r := NewRegistry()
	h := hashWith(1)
	msg := wire.NewMsgInv()
	msg.AddInvVect(wire.NewInvVect(wire.InvTypeBlock, &h))

	Observe(msg, r)

	if !r.Knows(h) {
		t.Error("a single-entry Block inv should advertise that block")
	}
}

func TestObserveMultiInvFiltersBlocks(t *testing.T) {
	r := NewRegistry()
	blockHash := hashWith(1)
	txHash := hashWith(2)
	msg := wire.NewMsgInv()
	msg.AddInvVect(wire.NewInvVect(wire.InvTypeBlock, &blockHash))
	msg.AddInvVect(wire.NewInvVect(wire.InvTypeTx, &txHash))

	Observe(msg, r)

	if r.Knows(blockHash) {
		t.Error("a multi-entry inv should not register its block entries")
	}
	if !r.Knows(txHash) {
		t.Error("a multi-entry inv should register its transaction entries")
	}
}

func TestObserveNotFoundRecordsMissing(t *testing.T) {
	r := NewRegistry()
	h := hashWith(3)
	msg := wire.NewMsgNotFound()
	msg.InvList = append(msg.InvList, wire.NewInvVect(wire.InvTypeTx, &h))

	Observe(msg, r)

	if !r.Missing(h) {
		t.Error("NotFound should record the listed hash as missing")
	}
}

func TestObservePassesMessageThroughUnchanged(t *testing.T) {
	r := NewRegistry()
	ping := wire.NewMsgPing(7)

	got := Observe(ping, r)

	if got != wire.Message(ping) {
		t.Error("Observe should pass non-inventory messages through unchanged")
	}
}
