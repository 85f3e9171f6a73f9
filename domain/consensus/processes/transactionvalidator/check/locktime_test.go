package check

import (
	"testing"

	"github.com/komodo-platform/komodod/domain/consensus/model/externalapi"
)

func finalInput() *externalapi.TransparentInput {
	return &externalapi.TransparentInput{Sequence: SequenceFinal}
}

func TestLockTimeHasPassedZero(t *testing.T) {
	tx := &externalapi.Transaction{LockTime: 0, Inputs: []*externalapi.TransparentInput{{Sequence: 1}}}
	if !LockTimeHasPassed(tx, BlockContext{Height: 1}) {
		t.Error("lock_time of zero is always final")
	}
}

func TestLockTimeHasPassedHeightBased(t *testing.T) {
	tx := &externalapi.Transaction{LockTime: 100, Inputs: []*externalapi.TransparentInput{{Sequence: 1}}}

	if LockTimeHasPassed(tx, BlockContext{Height: 100}) {
		t.Error("lock_time equal to height has not passed with a non-final sequence")
	}
	if !LockTimeHasPassed(tx, BlockContext{Height: 101}) {
		t.Error("lock_time strictly below height should have passed")
	}
}

func TestLockTimeHasPassedAllInputsFinal(t *testing.T) {
	tx := &externalapi.Transaction{LockTime: 1_000_000, Inputs: []*externalapi.TransparentInput{finalInput()}}
	if !LockTimeHasPassed(tx, BlockContext{Height: 1}) {
		t.Error("every input carrying SequenceFinal makes the transaction final regardless of lock_time")
	}
}

func TestLockTimeHasPassedTimeBased(t *testing.T) {
	tx := &externalapi.Transaction{LockTime: 600_000_000, Inputs: []*externalapi.TransparentInput{{Sequence: 1}}}
	if LockTimeHasPassed(tx, BlockContext{Time: 600_000_000}) {
		t.Error("lock_time equal to block time has not passed")
	}
	if !LockTimeHasPassed(tx, BlockContext{Time: 600_000_001}) {
		t.Error("lock_time strictly below block time should have passed")
	}
}

func TestIsFinalTxKomodoSequenceException(t *testing.T) {
	// Pre-hardfork: the exception applies when lock_time is strictly
	// greater than the comparison height.
	preHardfork := &externalapi.Transaction{
		LockTime: 3000,
		Inputs:   []*externalapi.TransparentInput{{Sequence: 0xFFFFFFFE}},
	}
	if !IsFinalTxKomodo(preHardfork, BlockContext{Height: 2000, TipHeight: 2000, DecemberHardforkActive: false}) {
		t.Error("sequence exception should treat the transaction as final pre-hardfork when lock_time exceeds cmp height")
	}

	// Post-hardfork: the comparison flips to <=.
	postHardfork := &externalapi.Transaction{
		LockTime: 2000,
		Inputs:   []*externalapi.TransparentInput{{Sequence: 0xFFFFFFFE}},
	}
	if !IsFinalTxKomodo(postHardfork, BlockContext{Height: 2000, TipHeight: 2000, DecemberHardforkActive: true}) {
		t.Error("sequence exception should treat the transaction as final post-hardfork when lock_time is <= cmp height")
	}

	// Height strictly above the sampled tip: the exception does not apply
	// at all, so the non-final sequence rejects the transaction.
	aheadOfTip := &externalapi.Transaction{
		LockTime: 3000,
		Inputs:   []*externalapi.TransparentInput{{Sequence: 0xFFFFFFFE}},
	}
	if IsFinalTxKomodo(aheadOfTip, BlockContext{Height: 2000, TipHeight: 500, DecemberHardforkActive: true}) {
		t.Error("sequence exception must not apply when height exceeds the sampled tip")
	}
}

func TestIsFinalTxKomodoNonFinalSequenceRejected(t *testing.T) {
	tx := &externalapi.Transaction{
		LockTime: 1_000_000,
		Inputs:   []*externalapi.TransparentInput{{Sequence: 1}},
	}
	if IsFinalTxKomodo(tx, BlockContext{Height: 1}) {
		t.Error("an ordinary non-final sequence must reject the transaction")
	}
}

func TestIsFinalTxKomodoCoinbaseInputIgnored(t *testing.T) {
	tx := &externalapi.Transaction{
		LockTime: 1_000_000,
		Inputs:   []*externalapi.TransparentInput{{IsCoinbase: true, Sequence: 1}},
	}
	if !IsFinalTxKomodo(tx, BlockContext{Height: 1}) {
		t.Error("a coinbase input's sequence must not participate in the finality check")
	}
}
