package model

import (
	"context"

	"github.com/komodo-platform/komodod/domain/consensus/model/externalapi"
	"github.com/komodo-platform/komodod/wire"
)

// BlockInfo is the subset of block data the transaction verifier needs
// from the state service: its timestamp and height, used as the
// reference point for interest and lock-time calculations.
type BlockInfo struct {
	Hash      wire.Hash
	Height    uint64
	Timestamp int64
}

// StateService is the narrow, cloneable contract the transaction
// verifier uses to resolve UTXOs and chain-tip-relative time. Each
// clone is owned by exactly one in-flight Request (spec §5 "state
// service... cloneable handles; each clone is used for exactly one
// request").
type StateService interface {
	// AwaitUtxo resolves outpoint, suspending until it is known. Callers
	// must bound this with UTXO_LOOKUP_TIMEOUT.
	AwaitUtxo(ctx context.Context, outpoint externalapi.Outpoint) (*externalapi.UTXO, error)

	// UnspentBestChainUtxo resolves outpoint against the current best
	// chain only, returning (nil, nil) if it is not a known unspent
	// output.
	UnspentBestChainUtxo(ctx context.Context, outpoint externalapi.Outpoint) (*externalapi.UTXO, error)

	// Block returns the block identified by hash, or nil if unknown.
	Block(ctx context.Context, hash wire.Hash) (*BlockInfo, error)

	// BlockByHeight returns the block at height on the best chain, or
	// nil if height exceeds the current tip.
	BlockByHeight(ctx context.Context, height uint64) (*BlockInfo, error)

	// AwaitBlock resolves hash, suspending until the block is known.
	AwaitBlock(ctx context.Context, hash wire.Hash) (*BlockInfo, error)

	// GetMedianTimePast returns the median of the 11 blocks preceding
	// hash, or the current tip's median time past if hash is nil.
	GetMedianTimePast(ctx context.Context, hash *wire.Hash) (int64, error)
}
