// Package handler exposes the compliance program's asset operations over HTTP.
// Each write builds the program instruction and runs it through the runtime, so
// HTTP callers and raw invokers share one code path.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rwagate/internal/asset/models"
	"rwagate/internal/dispatch"
	"rwagate/internal/extrameta"
	"rwagate/internal/ledger"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
	"rwagate/pkg/platform/httputil"
	"rwagate/pkg/requestcontext"
)

// Service executes instructions and reads committed program state.
type Service interface {
	Invoke(ctx context.Context, ix ledger.Instruction) error
	InvokeForAsset(ctx context.Context, ix ledger.Instruction, mint domain.Address) (*models.AssetDetails, error)
	ReadAsset(ctx context.Context, mint domain.Address) (*models.AssetDetails, error)
	ResolveExtraAccounts(ctx context.Context, fixed extrameta.TransferAccounts, amount uint64) (*extrameta.Resolution, error)
}

// Instructions builds program instructions. *program.Program satisfies it.
type Instructions interface {
	CreateAssetInstruction(payer, custodian, mint domain.Address, args dispatch.InitializeAssetArgs) ledger.Instruction
	UpdateAssetInstruction(custodian, mint domain.Address, u models.Update) ledger.Instruction
	InitializeExtraAccountMetaListInstruction(payer, mint domain.Address) ledger.Instruction
	TransferHookInstruction(fixed extrameta.TransferAccounts, amount uint64) ledger.Instruction
	AssetAddress(mint domain.Address) domain.Address
	ExtraAccountMetaListAddress(mint domain.Address) domain.Address
}

// Handler handles asset endpoints.
type Handler struct {
	service      Service
	instructions Instructions
	logger       *slog.Logger
}

// New creates a new asset Handler.
func New(service Service, instructions Instructions, logger *slog.Logger) *Handler {
	return &Handler{
		service:      service,
		instructions: instructions,
		logger:       logger,
	}
}

// Register registers the asset routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/assets", h.HandleCreate)
	r.Get("/v1/assets/{mint}", h.HandleGet)
	r.Patch("/v1/assets/{mint}", h.HandleUpdate)
	r.Post("/v1/assets/{mint}/extra-account-metas", h.HandleInitializeExtraAccountMetas)
	r.Get("/v1/assets/{mint}/extra-account-metas", h.HandleResolveExtraAccounts)
	r.Post("/v1/assets/{mint}/transfer-check", h.HandleTransferCheck)
}

// HandleCreate creates the record and companion list for a mint.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateAssetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	ix := h.instructions.CreateAssetInstruction(req.Payer, req.Custodian, req.Mint, req.Args())
	details, err := h.service.InvokeForAsset(ctx, ix, req.Mint)
	if err != nil {
		h.writeFailure(ctx, w, "create asset", requestID, err)
		return
	}
	h.logger.InfoContext(ctx, "asset created",
		"request_id", requestID,
		"mint", req.Mint.String(),
		"asset_type", details.AssetType,
	)
	httputil.WriteJSON(w, http.StatusCreated, h.assetResponse(req.Mint, details))
}

// HandleGet returns the committed record for a mint.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	mint, ok := h.mintParam(w, r)
	if !ok {
		return
	}
	details, err := h.service.ReadAsset(ctx, mint)
	if err != nil {
		h.writeFailure(ctx, w, "read asset", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.assetResponse(mint, details))
}

// HandleUpdate applies a custodian's partial update.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	mint, ok := h.mintParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateAssetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	ix := h.instructions.UpdateAssetInstruction(req.Custodian, mint, req.Update())
	details, err := h.service.InvokeForAsset(ctx, ix, mint)
	if err != nil {
		h.writeFailure(ctx, w, "update asset", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.assetResponse(mint, details))
}

// HandleInitializeExtraAccountMetas creates the companion list on its own.
func (h *Handler) HandleInitializeExtraAccountMetas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	mint, ok := h.mintParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[InitializeExtraAccountMetasRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	ix := h.instructions.InitializeExtraAccountMetaListInstruction(req.Payer, mint)
	if err := h.service.Invoke(ctx, ix); err != nil {
		h.writeFailure(ctx, w, "initialize extra account metas", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, ExtraAccountMetasResponse{
		Mint:        mint,
		ListAddress: h.instructions.ExtraAccountMetaListAddress(mint),
	})
}

// HandleResolveExtraAccounts tells a transfer engine which extra accounts an
// execute call for the given transfer must carry.
func (h *Handler) HandleResolveExtraAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	mint, ok := h.mintParam(w, r)
	if !ok {
		return
	}
	q, err := parseResolveQuery(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(ctx, "invalid resolve query", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}

	res, err := h.service.ResolveExtraAccounts(ctx, q.transferAccounts(mint), q.Amount)
	if err != nil {
		h.writeFailure(ctx, w, "resolve extra accounts", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleTransferCheck runs the gate for a prospective transfer without moving
// tokens. A non-compliant asset answers 403.
func (h *Handler) HandleTransferCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	mint, ok := h.mintParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransferCheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	ix := h.instructions.TransferHookInstruction(req.transferAccounts(mint), req.Amount)
	if err := h.service.Invoke(ctx, ix); err != nil {
		h.writeFailure(ctx, w, "transfer check", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TransferCheckResponse{
		Mint:    mint,
		Amount:  req.Amount,
		Allowed: true,
	})
}

func (h *Handler) mintParam(w http.ResponseWriter, r *http.Request) (domain.Address, bool) {
	mint, err := domain.ParseAddress(chi.URLParam(r, "mint"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid mint address"))
		return domain.Address{}, false
	}
	return mint, true
}

func (h *Handler) assetResponse(mint domain.Address, d *models.AssetDetails) AssetResponse {
	return AssetResponse{
		Mint:         mint,
		Address:      h.instructions.AssetAddress(mint),
		ListAddress:  h.instructions.ExtraAccountMetaListAddress(mint),
		AssetDetails: *d,
	}
}

// writeFailure logs at warn for caller errors and error for internal ones.
func (h *Handler) writeFailure(ctx context.Context, w http.ResponseWriter, op, requestID string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, op+" failed", "request_id", requestID, "error", err)
	} else {
		h.logger.WarnContext(ctx, op+" rejected", "request_id", requestID, "error", err)
	}
	httputil.WriteError(w, err)
}
