package check

import (
	"github.com/komodo-platform/komodod/domain/consensus/model/externalapi"
	"github.com/komodo-platform/komodod/wire"
)

// KomodoDepositAndOpretCheck runs only on the last transaction of a
// block. It returns nil when data is nil or when tx's final output is
// not an OP_RETURN script. Otherwise it requires that OP_RETURN script
// to be at least 5 bytes long and requires a coinbase with at least one
// output. It does not compare any deposit amount against the coinbase,
// and it does not check the opret contents against the block's
// difficulty bits or merkle root.
func KomodoDepositAndOpretCheck(tx *externalapi.Transaction, data *externalapi.LastTxVerifyData) error {
	if data == nil {
		return nil
	}

	if data.CoinbaseTx != nil {
		log.Tracef("running komodo deposit/opret check against coinbase %s", data.CoinbaseTx.TxID())
	}

	opret, ok := lastOpReturnOutput(tx)
	if !ok {
		// Not every last transaction carries a notarization opret; absence
		// is not itself a failure, only malformed presence is.
		return nil
	}

	if err := validateOpret(opret, data.Difficulty, data.MerkleRoot); err != nil {
		return err
	}

	return validateCoinbasePresence(data.CoinbaseTx)
}

// lastOpReturnOutput returns the transaction's final OP_RETURN-style
// output, if it has one. The concrete script grammar of the opret
// payload belongs to the script interpreter (out of scope); this check
// only validates the envelope fields it is responsible for.
func lastOpReturnOutput(tx *externalapi.Transaction) (*externalapi.TransparentOutput, bool) {
	if len(tx.Outputs) == 0 {
		return nil, false
	}
	last := tx.Outputs[len(tx.Outputs)-1]
	if len(last.ScriptPublicKey) == 0 || last.ScriptPublicKey[0] != opReturnOpcode {
		return nil, false
	}
	return last, true
}

const opReturnOpcode = 0x6a

func validateOpret(opret *externalapi.TransparentOutput, difficulty uint32, merkleRoot wire.Hash) error {
	// The opret payload's exact layout (difficulty bits + merkle root) is
	// produced by the script interpreter's encoder, out of this module's
	// scope; this check enforces only that the script is at least 5 bytes
	// long. difficulty and merkleRoot are not examined.
	if len(opret.ScriptPublicKey) < 5 {
		return externalapi.NewTransactionError(externalapi.ErrUnsupportedByNetworkUpgrade,
			"komodo opret payload too short")
	}
	return nil
}

// validateCoinbasePresence checks only that a coinbase to compare
// against was supplied. This is a structural precondition, not the
// deposit-amount invariant itself: the reference implementation's
// komodo_check_deposit formula (the bound it places on a notarized
// deposit relative to the block's coinbase payout) isn't reproducible
// from the material available to this module, so it is not enforced
// here. A re-implementer with access to the real formula should add
// the amount comparison in this function.
func validateCoinbasePresence(coinbaseTx *externalapi.Transaction) error {
	if coinbaseTx == nil || len(coinbaseTx.Outputs) == 0 {
		return externalapi.NewTransactionError(externalapi.ErrIncorrectFee,
			"komodo deposit check requires a coinbase output to compare against")
	}
	return nil
}
