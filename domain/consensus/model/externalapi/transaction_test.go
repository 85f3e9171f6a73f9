package externalapi

import (
	"testing"

	"github.com/komodo-platform/komodod/wire"
)

func TestTransactionIsCoinbase(t *testing.T) {
	tx := &Transaction{Inputs: []*TransparentInput{{IsCoinbase: true}}}
	if !tx.IsCoinbase() {
		t.Error("a single coinbase input should make the transaction a coinbase")
	}

	tx.Inputs = append(tx.Inputs, &TransparentInput{})
	if tx.IsCoinbase() {
		t.Error("a transaction with more than one input is never a coinbase, even if one is marked coinbase")
	}
}

func TestTransactionHasBundles(t *testing.T) {
	tx := &Transaction{}
	if tx.HasSprout() || tx.HasSapling() || tx.HasOrchard() {
		t.Error("a bare transaction should have no bundles")
	}

	tx.JoinSplitBundle = &JoinSplitBundle{JoinSplits: []*JoinSplit{{}}}
	if !tx.HasSprout() {
		t.Error("a non-empty joinsplit bundle should report HasSprout")
	}

	tx.SaplingBundle = &SaplingBundle{Outputs: []*SaplingOutput{{}}}
	if !tx.HasSapling() {
		t.Error("a sapling bundle with outputs should report HasSapling")
	}

	tx.OrchardBundle = &OrchardBundle{Actions: []*OrchardAction{{}}}
	if !tx.HasOrchard() {
		t.Error("an orchard bundle with actions should report HasOrchard")
	}
}

func TestTransactionTxIDRoundTrip(t *testing.T) {
	tx := &Transaction{}
	if tx.TxID() != nil {
		t.Error("an unset txid should be nil")
	}

	var id wire.Hash
	id[0] = 0x42
	tx.SetTxID(&id)
	if tx.TxID() == nil || *tx.TxID() != id {
		t.Error("SetTxID/TxID should round trip")
	}
}

func TestOrchardFlags(t *testing.T) {
	var f OrchardFlags
	if f.HasSpends() || f.HasOutputs() {
		t.Error("zero flags should report neither spends nor outputs")
	}
	f = OrchardEnableSpends
	if !f.HasSpends() || f.HasOutputs() {
		t.Errorf("expected only HasSpends set, got %+v", f)
	}
	f |= OrchardEnableOutputs
	if !f.HasSpends() || !f.HasOutputs() {
		t.Errorf("expected both flags set, got %+v", f)
	}
}
