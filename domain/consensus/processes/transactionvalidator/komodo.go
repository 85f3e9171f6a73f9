package transactionvalidator

import (
	"github.com/komodo-platform/komodod/domain/consensus/model/externalapi"
)

// KomodoMaxMempoolTime is the base slack added to the comparison point
// when validating a time-locked transaction's lock_time (spec §4.2,
// §9: a magic number inherited from the reference implementation,
// carried as a named constant rather than "fixed").
const KomodoMaxMempoolTime = 777

// KomodoMaxMempoolTimeAdjustment is the additional slack subtracted
// when the "max-mempool-time adjustment" rule is active (spec §4.2).
const KomodoMaxMempoolTimeAdjustment = 16000

// InterestRules controls which of the Komodo interest-validation
// activation switches are in effect at the height being validated.
// Re-implementers should mirror this rather than attempt to unify it
// with mainline Zcash's lock-time rules (spec §9 design note).
type InterestRules struct {
	// InterestValidationActive gates whether the interest lock-time
	// check (this file) runs at all.
	InterestValidationActive bool
	// GapAfterSecondBlockActive selects the previous block's median time
	// past (GetMedianTimePast(previous_hash)) plus KomodoMaxMempoolTime
	// instead of the raw block time for block-context comparisons.
	GapAfterSecondBlockActive bool
	// MaxMempoolTimeAdjustmentActive subtracts an extra
	// KomodoMaxMempoolTimeAdjustment seconds from cmp_time.
	MaxMempoolTimeAdjustmentActive bool
}

// cmpTimeForMempool builds cmp_time for a mempool-context validation:
// medianTimePast + KomodoMaxMempoolTime, optionally reduced by the
// max-mempool-time adjustment.
func cmpTimeForMempool(medianTimePast int64, rules InterestRules) int64 {
	cmp := medianTimePast + KomodoMaxMempoolTime
	if rules.MaxMempoolTimeAdjustmentActive {
		cmp -= KomodoMaxMempoolTimeAdjustment
	}
	return cmp
}

// cmpTimeForBlock builds cmp_time for a block-context validation. When
// the gap-after-second-block rule is active, the previous block's
// median time past (plus KomodoMaxMempoolTime) is used instead of the
// raw block time. Either way the result is reduced by the
// max-mempool-time adjustment when that rule is active.
func cmpTimeForBlock(blockTime int64, previousMedianTimePast int64, rules InterestRules) int64 {
	cmp := blockTime
	if rules.GapAfterSecondBlockActive {
		cmp = previousMedianTimePast + KomodoMaxMempoolTime
	}
	if rules.MaxMempoolTimeAdjustmentActive {
		cmp -= KomodoMaxMempoolTimeAdjustment
	}
	return cmp
}

// checkInterestLockTime validates a time-locked transaction's lock_time
// against cmp_time - KomodoMaxMempoolTime, per spec §4.2's interest
// lock-time validity rule. It is a no-op when InterestValidationActive
// is false or the transaction's lock is height-based.
func checkInterestLockTime(tx *externalapi.Transaction, cmpTime int64, rules InterestRules) error {
	if !rules.InterestValidationActive {
		return nil
	}
	if tx.LockTime == 0 || uint64(tx.LockTime) < lockTimeThreshold {
		return nil
	}
	if int64(tx.LockTime) < cmpTime-KomodoMaxMempoolTime {
		return externalapi.NewTransactionError(externalapi.ErrKomodoTxLockTimeTooEarly,
			"lock_time %d is older than cmp_time-KOMODO_MAXMEMPOOLTIME (%d)",
			tx.LockTime, cmpTime-KomodoMaxMempoolTime)
	}
	return nil
}

// lockTimeThreshold mirrors check.lockTimeThreshold; duplicated here to
// avoid an import cycle back into the check package for this one
// constant (the orchestration layer does not otherwise depend on
// check's internals).
const lockTimeThreshold = 500_000_000

// komodoInterest computes the Komodo interest accrued by a transparent
// output: (value / 10512000, integer division) multiplied by the
// seconds elapsed from lockTimeSeconds to tipTimeSeconds. It is zero
// when value is not positive, when tipTimeSeconds is not after
// lockTimeSeconds, or when fewer than 30 days have elapsed. Once 30
// days have elapsed, accrual counts from lockTimeSeconds itself, not
// from the end of the first month. The elapsed time is capped at 365
// days.
func komodoInterest(value externalapi.Amount, lockTimeSeconds, tipTimeSeconds int64) externalapi.Amount {
	const (
		oneMonth  = 60 * 60 * 24 * 30
		oneYear   = 60 * 60 * 24 * 365
		interestDenominator = 10512000 // 365 * 24 * 3600 / 3
	)

	if value <= 0 || tipTimeSeconds <= lockTimeSeconds {
		return 0
	}

	elapsed := tipTimeSeconds - lockTimeSeconds
	if elapsed < oneMonth {
		return 0
	}
	if elapsed > oneYear {
		elapsed = oneYear
	}

	interest := (int64(value) / interestDenominator) * elapsed
	return externalapi.Amount(interest)
}
