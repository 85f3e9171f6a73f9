package check

import "github.com/komodo-platform/komodod/domain/consensus/model/externalapi"

// SequenceFinal is the sequence value marking an input as unconditionally
// final.
const SequenceFinal = 0xFFFFFFFF

// sequenceKomodoException is the sequence value that, under the Komodo
// lock-time exception, may still be treated as final depending on the
// December-hardfork activation state (spec §4.2 point 4).
const sequenceKomodoException = 0xFFFFFFFE

// lockTimeThreshold is the boundary below which lock_time is interpreted
// as a block height and above which it is interpreted as a Unix time,
// matching Bitcoin/Zcash/Komodo convention.
const lockTimeThreshold = 500_000_000

// BlockContext carries the block-relative values the finality and
// interest-lock-time checks compare lock_time against. TipHeight is the
// chain tip sampled at the moment of validation (tip_height - 1 relative
// to the block under validation, per spec §4.2's "evaluated against
// block_height - 1, not the block being validated").
type BlockContext struct {
	Height                 uint64
	Time                   int64
	TipHeight              uint64
	DecemberHardforkActive bool
}

// LockTimeHasPassed implements spec §4.2's Zcash-style finality test
// (points 1-3): a transaction is final if lock_time is zero, if
// lock_time (interpreted like-with-like as height or time) has already
// passed, or if every input carries SequenceFinal.
func LockTimeHasPassed(tx *externalapi.Transaction, ctx BlockContext) bool {
	if tx.LockTime == 0 {
		return true
	}

	if uint64(tx.LockTime) < lockTimeThreshold {
		if uint64(tx.LockTime) < ctx.Height {
			return true
		}
	} else {
		if int64(tx.LockTime) < ctx.Time {
			return true
		}
	}

	for _, in := range tx.Inputs {
		if in.IsCoinbase {
			continue
		}
		if in.Sequence != SequenceFinal {
			return false
		}
	}
	return true
}

// IsFinalTxKomodo implements the full Komodo finality test of spec
// §4.2, including the December-hardfork sequence exception evaluated
// against ctx.TipHeight (the tip at validation time, not the block
// being validated).
func IsFinalTxKomodo(tx *externalapi.Transaction, ctx BlockContext) bool {
	if tx.LockTime == 0 {
		return true
	}

	lockTimeIsHeight := uint64(tx.LockTime) < lockTimeThreshold
	if lockTimeIsHeight {
		if uint64(tx.LockTime) < ctx.Height {
			return true
		}
	} else {
		if int64(tx.LockTime) < ctx.Time {
			return true
		}
	}

	cmpValue := ctx.Time
	if lockTimeIsHeight {
		cmpValue = int64(ctx.Height)
	}

	for _, in := range tx.Inputs {
		if in.IsCoinbase {
			continue
		}
		switch in.Sequence {
		case SequenceFinal:
			continue
		case sequenceKomodoException:
			if ctx.Height <= ctx.TipHeight {
				if !ctx.DecemberHardforkActive && int64(tx.LockTime) > cmpValue {
					continue
				}
				if ctx.DecemberHardforkActive && int64(tx.LockTime) <= cmpValue {
					continue
				}
			}
			return false
		default:
			return false
		}
	}
	return true
}
