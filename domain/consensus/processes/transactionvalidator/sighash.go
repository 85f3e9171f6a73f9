package transactionvalidator

import (
	"encoding/binary"

	"github.com/komodo-platform/komodod/domain/consensus/model/externalapi"
	"github.com/komodo-platform/komodod/wire"
	"golang.org/x/crypto/blake2b"
)

// DefaultSignatureHasher computes a transaction's shielded sighash as an
// unkeyed, unpersonalized BLAKE2b-256 digest over the branch ID,
// version, lock time and expiry height, the Sprout anchors and
// nullifiers, the Sapling nullifiers and output commitment trees, and
// the Orchard nullifiers and note commitments. No amounts or value
// balances are hashed. The exact consensus digest
// algorithm (which additionally covers the full transparent script and
// output set per ZIP-244) is outside this module's scope (spec.md
// Non-goals); this hasher exists so the verifier has a real value to
// pass into the signature-check requests of §4.5/§4.6 rather than a
// zero value.
type DefaultSignatureHasher struct{}

// ShieldedSigHash implements model.SignatureHasher.
func (DefaultSignatureHasher) ShieldedSigHash(tx *externalapi.Transaction, branchID externalapi.ConsensusBranchId) (wire.Hash, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return wire.Hash{}, err
	}

	writeUint32(h, uint32(branchID))
	writeUint32(h, uint32(tx.Version))
	writeUint32(h, uint32(tx.LockTime))
	writeUint32(h, tx.ExpiryHeight)

	if tx.HasSprout() {
		for _, js := range tx.JoinSplitBundle.JoinSplits {
			h.Write(js.Anchor[:])
			h.Write(js.Nullifiers[0][:])
			h.Write(js.Nullifiers[1][:])
		}
	}
	if tx.SaplingBundle != nil {
		for _, spend := range tx.SaplingBundle.Spends {
			h.Write(spend.Nullifier[:])
		}
		for _, out := range tx.SaplingBundle.Outputs {
			h.Write(out.CommitmentTree[:])
		}
	}
	if tx.OrchardBundle != nil {
		for _, action := range tx.OrchardBundle.Actions {
			h.Write(action.Nullifier[:])
			h.Write(action.CmX[:])
		}
	}

	var hash wire.Hash
	copy(hash[:], h.Sum(nil))
	return hash, nil
}

func writeUint32(h interface{ Write([]byte) (int, error) }, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	h.Write(buf[:])
}
