package model

import (
	"github.com/komodo-platform/komodod/domain/consensus/model/externalapi"
	"github.com/komodo-platform/komodod/wire"
)

// SignatureHasher computes the sighash a transaction's signatures are
// bound to under a given consensus branch id. The exact transaction
// digest algorithm is outside this module's scope (spec.md Non-goals);
// this interface only gives the verifier a place to obtain the value it
// needs to pass down into the signature-check requests.
type SignatureHasher interface {
	ShieldedSigHash(tx *externalapi.Transaction, branchID externalapi.ConsensusBranchId) (wire.Hash, error)
}
