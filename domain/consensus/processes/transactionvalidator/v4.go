package transactionvalidator

import (
	"context"

	"github.com/komodo-platform/komodod/domain/consensus/model"
	"github.com/komodo-platform/komodod/domain/consensus/model/externalapi"
)

// buildV4Checks implements spec §4.5: rejects transactions earlier than
// Sapling, then enqueues script verification for every non-coinbase
// transparent input, the Sprout JoinSplit proof+signature checks, and
// the Sapling spend/output/binding checks.
func (v *Verifier) buildV4Checks(
	tx *externalapi.Transaction,
	upgrade externalapi.NetworkUpgrade,
	branchID externalapi.ConsensusBranchId,
	resolved *ResolvedUTXOs,
) (*AsyncChecks, error) {
	if upgrade < externalapi.Sapling {
		return nil, externalapi.NewTransactionError(externalapi.ErrUnsupportedByNetworkUpgrade,
			"v4 transactions require the sapling network upgrade or later")
	}

	sigHash, err := v.sigHasher.ShieldedSigHash(tx, branchID)
	if err != nil {
		return nil, err
	}

	checks := NewAsyncChecks()
	view := &model.CachedTxView{Tx: tx, ResolvedOutputs: resolved.ByPosition, BranchID: branchID, SigHash: sigHash}

	if !tx.IsCoinbase() {
		for i := range tx.Inputs {
			i := i
			checks.Push(func(ctx context.Context) error {
				return v.scriptVerifier.VerifyScript(ctx, upgrade, view, i)
			})
		}
	}

	if tx.HasSprout() {
		for _, js := range tx.JoinSplitBundle.JoinSplits {
			js := js
			checks.Push(func(ctx context.Context) error {
				return v.cryptoVerifier.VerifyGroth16(ctx, &model.Groth16ProofRequest{
					Proof:        js.Proof,
					PublicInputs: joinSplitPublicInputs(js),
				})
			})
		}
		bundle := tx.JoinSplitBundle
		checks.Push(func(ctx context.Context) error {
			return v.cryptoVerifier.VerifyEd25519(ctx, &model.Ed25519SigRequest{
				PublicKey: bundle.PubKey[:],
				Signature: bundle.Signature[:],
				SigHash:   sigHash,
			})
		})
	}

	if tx.SaplingBundle != nil {
		for _, spend := range tx.SaplingBundle.Spends {
			spend := spend
			checks.Push(func(ctx context.Context) error {
				return v.cryptoVerifier.VerifyGroth16(ctx, &model.Groth16ProofRequest{
					Proof:        spend.Proof,
					PublicInputs: [][]byte{spend.ValueCommitment[:], spend.Rk[:]},
				})
			})
			checks.Push(func(ctx context.Context) error {
				return v.cryptoVerifier.VerifyRedJubjub(ctx, &model.RedJubjubSigRequest{
					VerificationKey: spend.Rk,
					Signature:       spend.SpendAuthSig,
					SigHash:         sigHash,
				})
			})
		}
		for _, out := range tx.SaplingBundle.Outputs {
			out := out
			checks.Push(func(ctx context.Context) error {
				return v.cryptoVerifier.VerifyGroth16(ctx, &model.Groth16ProofRequest{
					Proof:        out.Proof,
					PublicInputs: [][]byte{out.ValueCommitment[:]},
				})
			})
		}
		if len(tx.SaplingBundle.Spends) > 0 || len(tx.SaplingBundle.Outputs) > 0 {
			bundle := tx.SaplingBundle
			checks.Push(func(ctx context.Context) error {
				return v.cryptoVerifier.VerifyRedJubjub(ctx, &model.RedJubjubSigRequest{
					Signature: bundle.BindingSig,
					SigHash:   sigHash,
				})
			})
		}
	}

	return checks, nil
}

func joinSplitPublicInputs(js *externalapi.JoinSplit) [][]byte {
	inputs := make([][]byte, 0, 4)
	inputs = append(inputs, js.Anchor[:])
	for _, n := range js.Nullifiers {
		inputs = append(inputs, n[:])
	}
	for _, c := range js.Commitments {
		inputs = append(inputs, c[:])
	}
	return inputs
}
