// Package check implements the pure, synchronous consensus-rule
// predicates used by the transaction verifier (spec §4.1). None of
// these functions block or perform I/O.
package check

import (
	"github.com/komodo-platform/komodod/domain/consensus/model/externalapi"
	"github.com/komodo-platform/komodod/logger"
	"github.com/komodo-platform/komodod/wire"
)

var log, _ = logger.Get(logger.SubsystemTags.CHEK)

// MaxExpiryHeight is the highest legal non-coinbase expiry height
// (spec §8 boundary: Height::MAX_EXPIRY_HEIGHT is accepted, +1 is
// rejected).
const MaxExpiryHeight = 499_999_999

// HasInputsAndOutputs fails NoInputs/NoOutputs if neither a transparent
// nor any shielded source/sink is present.
func HasInputsAndOutputs(tx *externalapi.Transaction) error {
	hasInputs := len(tx.Inputs) > 0 || tx.HasSprout() || tx.HasSapling() || tx.HasOrchard()
	if !hasInputs {
		return externalapi.NewTransactionError(externalapi.ErrNoInputs, "transaction has no inputs")
	}

	hasOutputs := len(tx.Outputs) > 0 || tx.HasSprout() || tx.HasSapling() || tx.HasOrchard()
	if !hasOutputs {
		return externalapi.NewTransactionError(externalapi.ErrNoOutputs, "transaction has no outputs")
	}
	return nil
}

// HasEnoughOrchardFlags requires at least one of enableSpends/
// enableOutputs to be set whenever Orchard actions are present.
func HasEnoughOrchardFlags(tx *externalapi.Transaction) error {
	if !tx.HasOrchard() {
		return nil
	}
	flags := tx.OrchardBundle.Flags
	if !flags.HasSpends() && !flags.HasOutputs() {
		return externalapi.NewTransactionError(externalapi.ErrNotEnoughFlags,
			"orchard bundle has neither enableSpends nor enableOutputs set")
	}
	return nil
}

// CoinbaseTxNoPrevoutJoinsplitSpend requires a coinbase transaction to
// have no JoinSplits, no Sapling spends, and enableSpendsOrchard unset.
func CoinbaseTxNoPrevoutJoinsplitSpend(tx *externalapi.Transaction) error {
	if !tx.IsCoinbase() {
		return nil
	}
	if tx.HasSprout() {
		return externalapi.NewTransactionError(externalapi.ErrCoinbaseHasJoinSplit,
			"coinbase transaction has a joinsplit")
	}
	if tx.SaplingBundle != nil && len(tx.SaplingBundle.Spends) > 0 {
		return externalapi.NewTransactionError(externalapi.ErrCoinbaseHasSaplingSpend,
			"coinbase transaction has a sapling spend")
	}
	if tx.OrchardBundle != nil && tx.OrchardBundle.Flags.HasSpends() {
		return externalapi.NewTransactionError(externalapi.ErrCoinbaseHasEnableSpendsOrchard,
			"coinbase transaction has enableSpendsOrchard set")
	}
	return nil
}

// NonCoinbaseHasNoCoinbaseInput enforces the coinbase<->PrevOut
// exclusivity invariant (spec §3): a non-coinbase transaction must not
// carry a coinbase input.
func NonCoinbaseHasNoCoinbaseInput(tx *externalapi.Transaction) error {
	if tx.IsCoinbase() {
		return nil
	}
	for _, in := range tx.Inputs {
		if in.IsCoinbase {
			return externalapi.NewTransactionError(externalapi.ErrNonCoinbaseHasCoinbaseInput,
				"non-coinbase transaction has a coinbase input")
		}
	}
	return nil
}

// JoinsplitHasVpubZero requires that every JoinSplit has at least one of
// vpub_old, vpub_new equal to zero.
func JoinsplitHasVpubZero(tx *externalapi.Transaction) error {
	if !tx.HasSprout() {
		return nil
	}
	for _, js := range tx.JoinSplitBundle.JoinSplits {
		if js.VPubOld != 0 && js.VPubNew != 0 {
			return externalapi.NewTransactionError(externalapi.ErrBothVPubsNonZero,
				"joinsplit has both vpub_old and vpub_new non-zero")
		}
	}
	return nil
}

// DisabledAddToSproutPool requires vpub_old == 0 for every JoinSplit
// from Canopy onward (adding value to the Sprout pool is disabled).
func DisabledAddToSproutPool(tx *externalapi.Transaction, upgrade externalapi.NetworkUpgrade) error {
	if !tx.HasSprout() || upgrade < externalapi.Canopy {
		return nil
	}
	for _, js := range tx.JoinSplitBundle.JoinSplits {
		if js.VPubOld != 0 {
			return externalapi.NewTransactionError(externalapi.ErrDisabledAddToSproutPool,
				"joinsplit vpub_old must be zero from Canopy onward")
		}
	}
	return nil
}

// SpendConflicts requires transparent outpoints and each pool's
// nullifiers to be unique within the transaction. The Sprout, Sapling,
// and Orchard nullifier spaces are disjoint; no cross-pool check is
// performed (spec §4.1).
func SpendConflicts(tx *externalapi.Transaction) error {
	seenOutpoints := make(map[externalapi.Outpoint]struct{}, len(tx.Inputs))
	for _, in := range tx.Inputs {
		if in.IsCoinbase {
			continue
		}
		if _, dup := seenOutpoints[in.Outpoint]; dup {
			return externalapi.NewTransactionError(externalapi.ErrDuplicateTransparentSpend,
				"duplicate transparent outpoint %s", in.Outpoint)
		}
		seenOutpoints[in.Outpoint] = struct{}{}
	}

	if tx.HasSprout() {
		seen := make(map[wire.Hash]struct{}, len(tx.JoinSplitBundle.JoinSplits)*2)
		for _, js := range tx.JoinSplitBundle.JoinSplits {
			for _, n := range js.Nullifiers {
				if _, dup := seen[n]; dup {
					return externalapi.NewTransactionError(externalapi.ErrDuplicateSproutNullifier,
						"duplicate sprout nullifier")
				}
				seen[n] = struct{}{}
			}
		}
	}

	if tx.SaplingBundle != nil {
		seen := make(map[wire.Hash]struct{}, len(tx.SaplingBundle.Spends))
		for _, spend := range tx.SaplingBundle.Spends {
			if _, dup := seen[spend.Nullifier]; dup {
				return externalapi.NewTransactionError(externalapi.ErrDuplicateSaplingNullifier,
					"duplicate sapling nullifier")
			}
			seen[spend.Nullifier] = struct{}{}
		}
	}

	if tx.OrchardBundle != nil {
		seen := make(map[wire.Hash]struct{}, len(tx.OrchardBundle.Actions))
		for _, action := range tx.OrchardBundle.Actions {
			if _, dup := seen[action.Nullifier]; dup {
				return externalapi.NewTransactionError(externalapi.ErrDuplicateOrchardNullifier,
					"duplicate orchard nullifier")
			}
			seen[action.Nullifier] = struct{}{}
		}
	}

	return nil
}

// CoinbaseExpiryHeight enforces that, at NU5 and beyond, a coinbase
// transaction's expiry height equals its block height.
func CoinbaseExpiryHeight(tx *externalapi.Transaction, upgrade externalapi.NetworkUpgrade, height uint64) error {
	if !tx.IsCoinbase() || upgrade < externalapi.Nu5 {
		return nil
	}
	if uint64(tx.ExpiryHeight) != height {
		return externalapi.NewTransactionError(externalapi.ErrCoinbaseExpiryBlockHeight,
			"coinbase expiry height %d does not equal block height %d", tx.ExpiryHeight, height)
	}
	return nil
}

// NonCoinbaseExpiryHeight enforces the non-coinbase expiry height rules:
// expiry must not exceed MaxExpiryHeight, and a nonzero expiry below the
// current height makes the transaction expired.
func NonCoinbaseExpiryHeight(tx *externalapi.Transaction, height uint64) error {
	if tx.IsCoinbase() {
		return nil
	}
	if tx.ExpiryHeight > MaxExpiryHeight {
		return externalapi.NewTransactionError(externalapi.ErrMaximumExpiryHeight,
			"expiry height %d exceeds maximum %d", tx.ExpiryHeight, MaxExpiryHeight)
	}
	if tx.ExpiryHeight != 0 && uint64(tx.ExpiryHeight) < height {
		return externalapi.NewTransactionError(externalapi.ErrExpiredTransaction,
			"transaction expired at height %d (current height %d)", tx.ExpiryHeight, height)
	}
	return nil
}

// AnchorsAreConsistent checks that, when a Sapling bundle uses a shared
// anchor, every Sapling spend's anchor equals that shared anchor.
// Orchard bundles are not examined. This supplements
// spec §4.1 with the anchor-consistency check original_source's
// zebra-consensus performs alongside spend_conflicts (see DESIGN.md).
func AnchorsAreConsistent(tx *externalapi.Transaction) error {
	if tx.SaplingBundle != nil && tx.SaplingBundle.UsesSharedAnchor {
		for _, spend := range tx.SaplingBundle.Spends {
			if spend.Anchor != tx.SaplingBundle.SharedAnchor {
				return externalapi.NewTransactionError(externalapi.ErrUnsupportedByNetworkUpgrade,
					"sapling spend anchor does not match shared anchor")
			}
		}
	}
	return nil
}
