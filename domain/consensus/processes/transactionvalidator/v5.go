package transactionvalidator

import (
	"context"

	"github.com/komodo-platform/komodod/domain/consensus/model"
	"github.com/komodo-platform/komodod/domain/consensus/model/externalapi"
)

// buildV5Checks implements spec §4.6: allowed only under Nu5. Enqueues
// the same Sapling set as V4 (with shared-anchor spends) plus Orchard's
// single aggregated Halo2 proof, one RedPallas spend-auth per action,
// and one RedPallas binding signature.
func (v *Verifier) buildV5Checks(
	tx *externalapi.Transaction,
	upgrade externalapi.NetworkUpgrade,
	branchID externalapi.ConsensusBranchId,
	resolved *ResolvedUTXOs,
) (*AsyncChecks, error) {
	if upgrade < externalapi.Nu5 {
		return nil, externalapi.NewTransactionError(externalapi.ErrUnsupportedByNetworkUpgrade,
			"v5 transactions require the nu5 network upgrade or later")
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

	if tx.OrchardBundle != nil && len(tx.OrchardBundle.Actions) > 0 {
		bundle := tx.OrchardBundle
		checks.Push(func(ctx context.Context) error {
			return v.cryptoVerifier.VerifyHalo2(ctx, &model.Halo2ProofRequest{
				Proof:        bundle.Proof,
				PublicInputs: orchardPublicInputs(bundle),
			})
		})
		for _, action := range bundle.Actions {
			action := action
			checks.Push(func(ctx context.Context) error {
				return v.cryptoVerifier.VerifyRedPallas(ctx, &model.RedPallasSigRequest{
					VerificationKey: action.Rk,
					Signature:       action.SpendAuthSig,
					SigHash:         sigHash,
				})
			})
		}
		checks.Push(func(ctx context.Context) error {
			return v.cryptoVerifier.VerifyRedPallas(ctx, &model.RedPallasSigRequest{
				Signature: bundle.BindingSig,
				SigHash:   sigHash,
			})
		})
	}

	return checks, nil
}

func orchardPublicInputs(bundle *externalapi.OrchardBundle) [][]byte {
	inputs := make([][]byte, 0, len(bundle.Actions)+1)
	inputs = append(inputs, bundle.Anchor[:])
	for _, action := range bundle.Actions {
		inputs = append(inputs, action.Nullifier[:], action.CmX[:])
	}
	return inputs
}
