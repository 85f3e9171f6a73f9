package handshake

import "sync"

// PersistentStore optionally backs a NonceBook so recently-generated
// local nonces survive a process restart, rather than a node forgetting
// its own in-flight handshake nonces mid-storm. The in-memory map
// remains the source of truth; the store is consulted only at
// NewNonceBookWithStore startup to seed it.
type PersistentStore interface {
	Put(nonce uint64) error
	Delete(nonce uint64) error
	All() ([]uint64, error)
}

// NonceBook is the process-wide shared nonce set referenced by spec
// step 2 ("generate a random local nonce; insert into the shared nonce
// set") and step 5 ("remove only the local nonce from the set"). It is
// guarded by a plain sync.Mutex, held only across the short
// insert/contains/remove critical sections, never across a network
// read or write. A goroutine waiting for the lock cannot be cancelled
// by a timeout or a context.
type NonceBook struct {
	mu    sync.Mutex
	local map[uint64]struct{}
	store PersistentStore
}

// NewNonceBook returns an empty, in-memory-only NonceBook.
func NewNonceBook() *NonceBook {
	return &NonceBook{local: make(map[uint64]struct{})}
}

// NewNonceBookWithStore returns a NonceBook seeded from store's
// previously-persisted nonces. A failure to read the store is treated
// as an empty set: a restart that loses its nonce history can only
// miss a self-connection it would otherwise have detected, never
// report a spurious one, so it fails open.
func NewNonceBookWithStore(store PersistentStore) *NonceBook {
	b := &NonceBook{local: make(map[uint64]struct{}), store: store}
	if nonces, err := store.All(); err == nil {
		for _, n := range nonces {
			b.local[n] = struct{}{}
		}
	}
	return b
}

// Insert adds nonce to the set.
func (b *NonceBook) Insert(nonce uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.local[nonce] = struct{}{}
	if b.store != nil {
		b.store.Put(nonce)
	}
}

// Contains reports whether nonce is currently in the set.
func (b *NonceBook) Contains(nonce uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.local[nonce]
	return ok
}

// Remove deletes nonce from the set. Removing an absent nonce is a
// no-op.
func (b *NonceBook) Remove(nonce uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.local, nonce)
	if b.store != nil {
		b.store.Delete(nonce)
	}
}
