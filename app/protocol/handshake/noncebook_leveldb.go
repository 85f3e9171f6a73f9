package handshake

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
)

// LevelDBStore is the opt-in persistent backing for a NonceBook,
// grounded on the pack's use of goleveldb as an embedded key-value
// store. Keys are the big-endian encoding of the nonce; values are
// unused and kept empty.
type LevelDBStore struct {
	db *leveldb.DB
}

// OpenLevelDBStore opens (creating if absent) a LevelDBStore at path.
func OpenLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDBStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

func nonceKey(nonce uint64) []byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], nonce)
	return key[:]
}

// Put persists nonce.
func (s *LevelDBStore) Put(nonce uint64) error {
	return s.db.Put(nonceKey(nonce), []byte{}, nil)
}

// Delete removes a previously persisted nonce.
func (s *LevelDBStore) Delete(nonce uint64) error {
	return s.db.Delete(nonceKey(nonce), nil)
}

// All returns every nonce currently persisted.
func (s *LevelDBStore) All() ([]uint64, error) {
	var nonces []uint64
	var it iterator.Iterator = s.db.NewIterator(nil, nil)
	defer it.Release()
	for it.Next() {
		key := it.Key()
		if len(key) != 8 {
			continue
		}
		nonces = append(nonces, binary.BigEndian.Uint64(key))
	}
	return nonces, it.Error()
}
