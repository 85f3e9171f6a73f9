package model

import (
	"context"

	"github.com/komodo-platform/komodod/domain/consensus/model/externalapi"
	"github.com/komodo-platform/komodod/wire"
)

// CachedTxView is the shared, precomputed view of a transaction plus
// its resolved inputs that the script and signature checks reuse
// (spec §4.3 step 12).
type CachedTxView struct {
	Tx              *externalapi.Transaction
	ResolvedOutputs []*externalapi.TransparentOutput
	BranchID        externalapi.ConsensusBranchId
	SigHash         wire.Hash
}

// ScriptVerifier verifies a single transparent input against a cached
// transaction view. It is consumed as an opaque request/response
// service; the script interpreter itself is out of scope.
type ScriptVerifier interface {
	VerifyScript(ctx context.Context, upgrade externalapi.NetworkUpgrade, view *CachedTxView, inputIndex int) error
}
