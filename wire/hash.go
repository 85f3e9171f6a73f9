// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

// HashSize is the number of bytes in a hash.
const HashSize = 32

// Hash is a double sha256-style 32 byte hash used for both transaction IDs
// and block hashes. The exact digest function is a detail of the codec
// this package assumes exists; only the fixed-size wire representation
// matters here.
type Hash [HashSize]byte

// String returns the Hash as a reversed, hex-encoded string, matching the
// convention used by Bitcoin-descended block explorers.
func (h Hash) String() string {
	for i := 0; i < HashSize/2; i++ {
		h[i], h[HashSize-1-i] = h[HashSize-1-i], h[i]
	}
	return hex.EncodeToString(h[:])
}

// IsEqual returns whether h and target represent the same hash.
func (h *Hash) IsEqual(target *Hash) bool {
	if h == nil && target == nil {
		return true
	}
	if h == nil || target == nil {
		return false
	}
	return *h == *target
}

// NewHashFromStr parses a reversed hex-encoded hash string.
func NewHashFromStr(s string) (*Hash, error) {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "malformed hash string")
	}
	if len(decoded) != HashSize {
		return nil, errors.Errorf("invalid hash length of %d, want %d", len(decoded), HashSize)
	}
	var h Hash
	for i := 0; i < HashSize; i++ {
		h[i] = decoded[HashSize-1-i]
	}
	return &h, nil
}
