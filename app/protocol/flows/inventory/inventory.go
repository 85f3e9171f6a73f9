// Package inventory implements the inventory-registration filter wired
// into every inbound message wrapper after a handshake completes
// (spec §4.10). It does not alter what reaches the connection task;
// it records, per peer, what that peer is known to have advertised or
// claimed missing.
package inventory

import (
	"sync"

	"github.com/komodo-platform/komodod/wire"
)

// Registry tracks, per peer, which blocks and transactions that peer
// has advertised or reported missing. It is the target of the
// registration rules in spec §4.10.
type Registry struct {
	mu      sync.Mutex
	known   map[wire.Hash]struct{}
	missing map[wire.Hash]struct{}
}

// NewRegistry returns an empty Registry for one peer.
func NewRegistry() *Registry {
	return &Registry{
		known:   make(map[wire.Hash]struct{}),
		missing: make(map[wire.Hash]struct{}),
	}
}

// AdvertiseBlock records that the peer has advertised hash as a block.
func (r *Registry) AdvertiseBlock(hash wire.Hash) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.known[hash] = struct{}{}
}

// AdvertiseTx records that the peer has advertised hash as a
// transaction.
func (r *Registry) AdvertiseTx(hash wire.Hash) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.known[hash] = struct{}{}
}

// RecordMissing records that the peer reported hash as not found.
func (r *Registry) RecordMissing(hash wire.Hash) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missing[hash] = struct{}{}
}

// Knows reports whether the peer is known to have advertised hash.
func (r *Registry) Knows(hash wire.Hash) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.known[hash]
	return ok
}

// Missing reports whether the peer reported hash as not found.
func (r *Registry) Missing(hash wire.Hash) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.missing[hash]
	return ok
}

// Observe applies the inventory registration rules of spec §4.10 to an
// inbound message, updating r as a side effect. The message itself is
// always returned unchanged and passed through to the connection task:
// the filtering described in §4.10 governs what gets *registered*, not
// what reaches the caller.
func Observe(msg wire.Message, r *Registry) wire.Message {
	switch m := msg.(type) {
	case *wire.MsgInv:
		if len(m.InvList) == 1 && m.InvList[0].Type == wire.InvTypeBlock {
			r.AdvertiseBlock(m.InvList[0].Hash)
			return msg
		}
		for _, iv := range m.InvList {
			if iv.Type == wire.InvTypeTx {
				r.AdvertiseTx(iv.Hash)
			}
		}
	case *wire.MsgNotFound:
		for _, iv := range m.InvList {
			r.RecordMissing(iv.Hash)
		}
	}
	return msg
}
