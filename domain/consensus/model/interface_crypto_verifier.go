package model

import (
	"context"

	"github.com/komodo-platform/komodod/wire"
	"golang.org/x/crypto/ed25519"
)

// Groth16ProofRequest is the opaque request shape for a single Groth16
// proof check (Sprout JoinSplit, Sapling spend, or Sapling output). The
// proof-system parameters themselves are out of scope; this module only
// needs a request/response shape to fan the check out to an external
// verifier.
type Groth16ProofRequest struct {
	Proof        []byte
	PublicInputs [][]byte
}

// Ed25519SigRequest is the request shape for the single joint Ed25519
// signature check over a transaction's JoinSplit bundle.
type Ed25519SigRequest struct {
	PublicKey ed25519.PublicKey
	Signature []byte
	SigHash   wire.Hash
}

// RedJubjubSigRequest is the request shape for a Sapling spend-auth or
// binding signature check.
type RedJubjubSigRequest struct {
	VerificationKey [32]byte
	Signature       [64]byte
	SigHash         wire.Hash
}

// Halo2ProofRequest is the request shape for the single aggregated
// Orchard bundle proof check.
type Halo2ProofRequest struct {
	Proof        []byte
	PublicInputs [][]byte
}

// RedPallasSigRequest is the request shape for an Orchard spend-auth or
// binding signature check.
type RedPallasSigRequest struct {
	VerificationKey [32]byte
	Signature       [64]byte
	SigHash         wire.Hash
}

// CryptoVerifier is the set of opaque per-scheme crypto check services
// the transaction verifier fans out to (spec §4.5/§4.6). Each method
// corresponds to one entry enqueued into an AsyncChecks set.
type CryptoVerifier interface {
	VerifyGroth16(ctx context.Context, req *Groth16ProofRequest) error
	VerifyEd25519(ctx context.Context, req *Ed25519SigRequest) error
	VerifyRedJubjub(ctx context.Context, req *RedJubjubSigRequest) error
	VerifyHalo2(ctx context.Context, req *Halo2ProofRequest) error
	VerifyRedPallas(ctx context.Context, req *RedPallasSigRequest) error
}
