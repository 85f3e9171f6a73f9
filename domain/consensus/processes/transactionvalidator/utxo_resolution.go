package transactionvalidator

import (
	"context"
	"time"

	"github.com/komodo-platform/komodod/domain/consensus/model"
	"github.com/komodo-platform/komodod/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// UTXOLookupTimeout bounds every individual state-service UTXO lookup
// (spec §6).
const UTXOLookupTimeout = 360 * time.Second

// ResolvedUTXOs pairs the outpoint->utxo map with the positional output
// vector the verifier needs, per spec §4.4: "the output map and vector
// are returned together; the vector must match input positions
// exactly."
type ResolvedUTXOs struct {
	ByOutpoint map[externalapi.Outpoint]*externalapi.UTXO
	ByPosition []*externalapi.TransparentOutput
}

// resolveUTXOs implements spec §4.4's UTXO resolution algorithm: for
// each PrevOut input in order, first consult knownUTXOs, then fall back
// to the state service (UnspentBestChainUtxo for mempool context,
// AwaitUtxo for block context), each bounded by UTXOLookupTimeout.
func resolveUTXOs(
	ctx context.Context,
	state model.StateService,
	inputs []*externalapi.TransparentInput,
	knownUTXOs map[externalapi.Outpoint]*externalapi.UTXO,
	isBlockContext bool,
) (*ResolvedUTXOs, error) {
	result := &ResolvedUTXOs{
		ByOutpoint: make(map[externalapi.Outpoint]*externalapi.UTXO, len(inputs)),
		ByPosition: make([]*externalapi.TransparentOutput, len(inputs)),
	}

	for i, in := range inputs {
		if in.IsCoinbase {
			result.ByPosition[i] = nil
			continue
		}

		if utxo, ok := knownUTXOs[in.Outpoint]; ok {
			result.ByOutpoint[in.Outpoint] = utxo
			result.ByPosition[i] = utxo.Output
			continue
		}

		utxo, err := lookupUTXO(ctx, state, in.Outpoint, isBlockContext)
		if err != nil {
			return nil, err
		}
		result.ByOutpoint[in.Outpoint] = utxo
		result.ByPosition[i] = utxo.Output
	}

	return result, nil
}

func lookupUTXO(ctx context.Context, state model.StateService, outpoint externalapi.Outpoint, isBlockContext bool) (*externalapi.UTXO, error) {
	ctx, cancel := context.WithTimeout(ctx, UTXOLookupTimeout)
	defer cancel()

	if !isBlockContext {
		utxo, err := state.UnspentBestChainUtxo(ctx, outpoint)
		if err != nil {
			return nil, errors.Wrapf(err, "looking up unspent utxo %s", outpoint)
		}
		if utxo == nil {
			return nil, externalapi.NewTransactionError(externalapi.ErrTransparentInputNotFound,
				"transparent input %s not found", outpoint)
		}
		return utxo, nil
	}

	utxo, err := state.AwaitUtxo(ctx, outpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "awaiting utxo %s", outpoint)
	}
	return utxo, nil
}
