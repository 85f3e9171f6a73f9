package check

import (
	"errors"
	"testing"

	"github.com/komodo-platform/komodod/domain/consensus/model/externalapi"
	"github.com/komodo-platform/komodod/wire"
)

func coinbaseTx() *externalapi.Transaction {
	return &externalapi.Transaction{
		Version: externalapi.TxVersion4,
		Inputs:  []*externalapi.TransparentInput{{IsCoinbase: true}},
		Outputs: []*externalapi.TransparentOutput{{Value: 1000}},
	}
}

func transparentTx() *externalapi.Transaction {
	return &externalapi.Transaction{
		Version: externalapi.TxVersion4,
		Inputs: []*externalapi.TransparentInput{
			{Outpoint: externalapi.Outpoint{Index: 0}, Sequence: SequenceFinal},
		},
		Outputs: []*externalapi.TransparentOutput{{Value: 100}},
	}
}

func kindOf(t *testing.T, err error) externalapi.TransactionErrorKind {
	t.Helper()
	var txErr *externalapi.TransactionError
	if !errors.As(err, &txErr) {
		t.Fatalf("expected a *externalapi.TransactionError, got %T (%v)", err, err)
	}
	return txErr.Kind
}

func TestHasInputsAndOutputs(t *testing.T) {
	if err := HasInputsAndOutputs(transparentTx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noInputs := transparentTx()
	noInputs.Inputs = nil
	if err := HasInputsAndOutputs(noInputs); kindOf(t, err) != externalapi.ErrNoInputs {
		t.Errorf("expected ErrNoInputs, got %v", err)
	}

	noOutputs := transparentTx()
	noOutputs.Outputs = nil
	if err := HasInputsAndOutputs(noOutputs); kindOf(t, err) != externalapi.ErrNoOutputs {
		t.Errorf("expected ErrNoOutputs, got %v", err)
	}

	// A pure Sprout transaction has no transparent inputs or outputs but
	// still satisfies the invariant.
	sprout := &externalapi.Transaction{
		JoinSplitBundle: &externalapi.JoinSplitBundle{
			JoinSplits: []*externalapi.JoinSplit{{}},
		},
	}
	if err := HasInputsAndOutputs(sprout); err != nil {
		t.Errorf("sprout-only transaction should satisfy inputs/outputs: %v", err)
	}
}

func TestHasEnoughOrchardFlags(t *testing.T) {
	tx := transparentTx()
	tx.OrchardBundle = &externalapi.OrchardBundle{
		Actions: []*externalapi.OrchardAction{{}},
		Flags:   0,
	}
	if err := HasEnoughOrchardFlags(tx); kindOf(t, err) != externalapi.ErrNotEnoughFlags {
		t.Errorf("expected ErrNotEnoughFlags, got %v", err)
	}

	tx.OrchardBundle.Flags = externalapi.OrchardEnableOutputs
	if err := HasEnoughOrchardFlags(tx); err != nil {
		t.Errorf("unexpected error with enableOutputs set: %v", err)
	}
}

func TestCoinbaseTxNoPrevoutJoinsplitSpend(t *testing.T) {
	tx := coinbaseTx()
	tx.JoinSplitBundle = &externalapi.JoinSplitBundle{JoinSplits: []*externalapi.JoinSplit{{}}}
	if err := CoinbaseTxNoPrevoutJoinsplitSpend(tx); kindOf(t, err) != externalapi.ErrCoinbaseHasJoinSplit {
		t.Errorf("expected ErrCoinbaseHasJoinSplit, got %v", err)
	}

	tx2 := coinbaseTx()
	tx2.SaplingBundle = &externalapi.SaplingBundle{Spends: []*externalapi.SaplingSpend{{}}}
	if err := CoinbaseTxNoPrevoutJoinsplitSpend(tx2); kindOf(t, err) != externalapi.ErrCoinbaseHasSaplingSpend {
		t.Errorf("expected ErrCoinbaseHasSaplingSpend, got %v", err)
	}

	tx3 := coinbaseTx()
	tx3.OrchardBundle = &externalapi.OrchardBundle{Flags: externalapi.OrchardEnableSpends}
	if err := CoinbaseTxNoPrevoutJoinsplitSpend(tx3); kindOf(t, err) != externalapi.ErrCoinbaseHasEnableSpendsOrchard {
		t.Errorf("expected ErrCoinbaseHasEnableSpendsOrchard, got %v", err)
	}
}

func TestNonCoinbaseHasNoCoinbaseInput(t *testing.T) {
	tx := transparentTx()
	tx.Inputs = append(tx.Inputs, &externalapi.TransparentInput{IsCoinbase: true})
	if err := NonCoinbaseHasNoCoinbaseInput(tx); kindOf(t, err) != externalapi.ErrNonCoinbaseHasCoinbaseInput {
		t.Errorf("expected ErrNonCoinbaseHasCoinbaseInput, got %v", err)
	}

	if err := NonCoinbaseHasNoCoinbaseInput(coinbaseTx()); err != nil {
		t.Errorf("coinbase transaction itself should pass: %v", err)
	}
}

func TestJoinsplitHasVpubZero(t *testing.T) {
	tx := transparentTx()
	tx.JoinSplitBundle = &externalapi.JoinSplitBundle{
		JoinSplits: []*externalapi.JoinSplit{{VPubOld: 1, VPubNew: 1}},
	}
	if err := JoinsplitHasVpubZero(tx); kindOf(t, err) != externalapi.ErrBothVPubsNonZero {
		t.Errorf("expected ErrBothVPubsNonZero, got %v", err)
	}

	tx.JoinSplitBundle.JoinSplits[0].VPubNew = 0
	if err := JoinsplitHasVpubZero(tx); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDisabledAddToSproutPool(t *testing.T) {
	tx := transparentTx()
	tx.JoinSplitBundle = &externalapi.JoinSplitBundle{
		JoinSplits: []*externalapi.JoinSplit{{VPubOld: 1}},
	}

	if err := DisabledAddToSproutPool(tx, externalapi.Sapling); err != nil {
		t.Errorf("pre-Canopy should allow vpub_old: %v", err)
	}
	if err := DisabledAddToSproutPool(tx, externalapi.Canopy); kindOf(t, err) != externalapi.ErrDisabledAddToSproutPool {
		t.Errorf("expected ErrDisabledAddToSproutPool at Canopy, got %v", err)
	}
}

func TestSpendConflictsDuplicateOutpoint(t *testing.T) {
	tx := transparentTx()
	tx.Inputs = append(tx.Inputs, &externalapi.TransparentInput{Outpoint: tx.Inputs[0].Outpoint})
	if err := SpendConflicts(tx); kindOf(t, err) != externalapi.ErrDuplicateTransparentSpend {
		t.Errorf("expected ErrDuplicateTransparentSpend, got %v", err)
	}
}

func TestSpendConflictsDuplicateNullifiers(t *testing.T) {
	var n wire.Hash
	n[0] = 0x42

	sproutTx := transparentTx()
	sproutTx.JoinSplitBundle = &externalapi.JoinSplitBundle{
		JoinSplits: []*externalapi.JoinSplit{
			{Nullifiers: [2]wire.Hash{n, {0x01}}},
			{Nullifiers: [2]wire.Hash{{0x02}, n}},
		},
	}
	if err := SpendConflicts(sproutTx); kindOf(t, err) != externalapi.ErrDuplicateSproutNullifier {
		t.Errorf("expected ErrDuplicateSproutNullifier, got %v", err)
	}

	saplingTx := transparentTx()
	saplingTx.SaplingBundle = &externalapi.SaplingBundle{
		Spends: []*externalapi.SaplingSpend{{Nullifier: n}, {Nullifier: n}},
	}
	if err := SpendConflicts(saplingTx); kindOf(t, err) != externalapi.ErrDuplicateSaplingNullifier {
		t.Errorf("expected ErrDuplicateSaplingNullifier, got %v", err)
	}

	orchardTx := transparentTx()
	orchardTx.OrchardBundle = &externalapi.OrchardBundle{
		Actions: []*externalapi.OrchardAction{{Nullifier: n}, {Nullifier: n}},
	}
	if err := SpendConflicts(orchardTx); kindOf(t, err) != externalapi.ErrDuplicateOrchardNullifier {
		t.Errorf("expected ErrDuplicateOrchardNullifier, got %v", err)
	}
}

func TestCoinbaseExpiryHeight(t *testing.T) {
	tx := coinbaseTx()
	tx.ExpiryHeight = 100

	if err := CoinbaseExpiryHeight(tx, externalapi.Canopy, 100); err != nil {
		t.Errorf("pre-Nu5 coinbase expiry is unconstrained: %v", err)
	}
	if err := CoinbaseExpiryHeight(tx, externalapi.Nu5, 100); err != nil {
		t.Errorf("matching expiry/height at Nu5 should pass: %v", err)
	}
	if err := CoinbaseExpiryHeight(tx, externalapi.Nu5, 101); kindOf(t, err) != externalapi.ErrCoinbaseExpiryBlockHeight {
		t.Errorf("expected ErrCoinbaseExpiryBlockHeight, got %v", err)
	}
}

func TestNonCoinbaseExpiryHeightBoundary(t *testing.T) {
	atMax := transparentTx()
	atMax.ExpiryHeight = MaxExpiryHeight
	if err := NonCoinbaseExpiryHeight(atMax, 1); err != nil {
		t.Errorf("expiry exactly at MaxExpiryHeight should pass: %v", err)
	}

	overMax := transparentTx()
	overMax.ExpiryHeight = MaxExpiryHeight + 1
	if err := NonCoinbaseExpiryHeight(overMax, 1); kindOf(t, err) != externalapi.ErrMaximumExpiryHeight {
		t.Errorf("expected ErrMaximumExpiryHeight, got %v", err)
	}

	expired := transparentTx()
	expired.ExpiryHeight = 10
	if err := NonCoinbaseExpiryHeight(expired, 11); kindOf(t, err) != externalapi.ErrExpiredTransaction {
		t.Errorf("expected ErrExpiredTransaction, got %v", err)
	}
	if err := NonCoinbaseExpiryHeight(expired, 10); err != nil {
		t.Errorf("expiry equal to current height should not have expired yet: %v", err)
	}

	noExpiry := transparentTx()
	noExpiry.ExpiryHeight = 0
	if err := NonCoinbaseExpiryHeight(noExpiry, 1_000_000); err != nil {
		t.Errorf("zero expiry height never expires: %v", err)
	}
}

func TestAnchorsAreConsistent(t *testing.T) {
	var anchor wire.Hash
	anchor[0] = 0x07

	tx := transparentTx()
	tx.SaplingBundle = &externalapi.SaplingBundle{
		Spends:           []*externalapi.SaplingSpend{{Anchor: anchor}},
		SharedAnchor:     anchor,
		UsesSharedAnchor: true,
	}
	if err := AnchorsAreConsistent(tx); err != nil {
		t.Errorf("matching shared anchor should pass: %v", err)
	}

	tx.SaplingBundle.Spends[0].Anchor = wire.Hash{0xff}
	if err := AnchorsAreConsistent(tx); err == nil {
		t.Error("expected an error for a spend anchor that diverges from the shared anchor")
	}
}
