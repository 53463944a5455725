// Package dispatch decodes instruction data into handler calls.
//
// Payloads carrying a native tag are routed directly. Anything else is handed to
// the transfer-hook interface adapter, which accepts only Execute and re-enters
// the native table as transfer_hook with the same accounts. Decoding never
// touches accounts, so a rejected payload costs no store access.
package dispatch

import (
	"context"

	"rwagate/internal/asset/models"
	"rwagate/internal/asset/service"
	"rwagate/internal/extrameta"
	"rwagate/internal/gate"
	"rwagate/internal/ledger"
	"rwagate/internal/ledger/codec"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
)

// ExecuteRoute names transfers that arrived through the interface adapter.
const ExecuteRoute = "execute"

// AssetService creates and updates asset records inside a call.
type AssetService interface {
	Create(ctx context.Context, call *ledger.Call, p service.CreateParams) (*models.AssetDetails, error)
	Update(ctx context.Context, call *ledger.Call, p service.UpdateParams) (*models.AssetDetails, error)
}

// CompanionInitializer writes the companion list of a mint inside a call.
type CompanionInitializer interface {
	Initialize(ctx context.Context, call *ledger.Call, p extrameta.InitParams) error
}

// TransferGate decides one transfer.
type TransferGate interface {
	Check(ctx context.Context, reader ledger.AccountReader, p gate.CheckParams) (*models.AssetDetails, error)
}

// Router implements ledger.Program for the compliance program.
type Router struct {
	assets    AssetService
	companion CompanionInitializer
	gate      TransferGate
}

func New(assets AssetService, companion CompanionInitializer, g TransferGate) *Router {
	return &Router{assets: assets, companion: companion, gate: g}
}

// Route decodes data. Unknown, short or unsupported payloads fail with
// InvalidCallData.
func (r *Router) Route(data []byte) (ledger.Route, error) {
	route, ok, err := r.routeNative(data)
	if err != nil || ok {
		return route, err
	}

	native, err := translateOpaque(data)
	if err != nil {
		return ledger.Route{}, err
	}
	route, ok, err = r.routeNative(native)
	if err != nil {
		return ledger.Route{}, err
	}
	if !ok {
		return ledger.Route{}, dErrors.New(dErrors.CodeInternal, "interface payload translated to an unknown native tag")
	}
	route.Name = ExecuteRoute
	return route, nil
}

// routeNative reports ok=false when data does not carry a native tag.
func (r *Router) routeNative(data []byte) (ledger.Route, bool, error) {
	rd := codec.NewReader(data)
	tag := rd.Discriminator()
	if rd.Err() != nil {
		return ledger.Route{}, false, dErrors.New(dErrors.CodeInvalidCallData, "instruction data is shorter than a tag")
	}

	switch tag {
	case InitializeAssetTag:
		args, err := decodeInitializeAsset(rd)
		if err != nil {
			return ledger.Route{}, true, err
		}
		return ledger.Route{Name: InitializeAsset, Handler: r.initializeAsset(args)}, true, nil
	case UpdateAssetDetailsTag:
		u, err := decodeUpdateAssetDetails(rd)
		if err != nil {
			return ledger.Route{}, true, err
		}
		return ledger.Route{Name: UpdateAssetDetails, Handler: r.updateAssetDetails(u)}, true, nil
	case InitializeExtraAccountMetaListTag:
		return ledger.Route{Name: InitializeExtraAccountMetaList, Handler: r.initializeExtraAccountMetaList}, true, nil
	case TransferHookTag:
		amount, err := decodeTransferHook(rd)
		if err != nil {
			return ledger.Route{}, true, err
		}
		return ledger.Route{Name: TransferHook, Handler: r.transferHook(amount)}, true, nil
	}
	return ledger.Route{}, false, nil
}

func (r *Router) initializeAsset(args InitializeAssetArgs) ledger.HandlerFunc {
	return func(ctx context.Context, call *ledger.Call) error {
		keys := addresses(call.Accounts())
		if err := accountKeys(InitializeAsset, keys, initializeAssetAccounts); err != nil {
			return err
		}
		_, err := r.assets.Create(ctx, call, service.CreateParams{
			Payer:        keys[0],
			Asset:        keys[1],
			Custodian:    keys[2],
			ExtraMetas:   keys[3],
			Mint:         keys[4],
			AssetType:    args.AssetType,
			Identifier:   args.Identifier,
			Jurisdiction: args.Jurisdiction,
			Valuation:    args.Valuation,
			MetadataURI:  args.MetadataURI,
		})
		return err
	}
}

func (r *Router) updateAssetDetails(u models.Update) ledger.HandlerFunc {
	return func(ctx context.Context, call *ledger.Call) error {
		keys := addresses(call.Accounts())
		if err := accountKeys(UpdateAssetDetails, keys, updateAccounts); err != nil {
			return err
		}
		_, err := r.assets.Update(ctx, call, service.UpdateParams{
			Custodian: keys[0],
			Asset:     keys[1],
			Update:    u,
		})
		return err
	}
}

func (r *Router) initializeExtraAccountMetaList(ctx context.Context, call *ledger.Call) error {
	keys := addresses(call.Accounts())
	if err := accountKeys(InitializeExtraAccountMetaList, keys, initializeListAccounts); err != nil {
		return err
	}
	return r.companion.Initialize(ctx, call, extrameta.InitParams{
		Payer: keys[0],
		List:  keys[1],
		Mint:  keys[2],
	})
}

func (r *Router) transferHook(amount uint64) ledger.HandlerFunc {
	return func(ctx context.Context, call *ledger.Call) error {
		keys := addresses(call.Accounts())
		if err := accountKeys(TransferHook, keys, transferHookAccounts); err != nil {
			return err
		}
		_, err := r.gate.Check(ctx, call, gate.CheckParams{
			Source:      keys[0],
			Mint:        keys[1],
			Destination: keys[2],
			Owner:       keys[3],
			ExtraMetas:  keys[4],
			Asset:       keys[5],
			Amount:      amount,
		})
		return err
	}
}

func addresses(metas []ledger.AccountMeta) []domain.Address {
	out := make([]domain.Address, len(metas))
	for i, m := range metas {
		out[i] = m.Address
	}
	return out
}
