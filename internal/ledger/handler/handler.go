// Package handler exposes the ledger runtime over HTTP: raw instruction
// invocation, committed account reads and the development faucet.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rwagate/internal/ledger"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
	"rwagate/pkg/platform/httputil"
	"rwagate/pkg/platform/sentinel"
	"rwagate/pkg/requestcontext"
)

// Runtime is the subset of *ledger.Runtime the transport needs.
type Runtime interface {
	Invoke(ctx context.Context, ix ledger.Instruction) error
	Load(ctx context.Context, addr domain.Address) (*ledger.Account, error)
	Airdrop(ctx context.Context, addr domain.Address, lamports uint64) (*ledger.Account, error)
}

// Handler handles runtime endpoints.
type Handler struct {
	runtime Runtime
	logger  *slog.Logger
}

// New creates a new runtime Handler.
func New(runtime Runtime, logger *slog.Logger) *Handler {
	return &Handler{runtime: runtime, logger: logger}
}

// Register registers invoke and account reads.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/invoke", h.HandleInvoke)
	r.Get("/v1/accounts/{address}", h.HandleGetAccount)
}

// RegisterFaucet registers the faucet. Callers decide whether it is exposed and
// which middleware guards it.
func (h *Handler) RegisterFaucet(r chi.Router) {
	r.Post("/v1/faucet", h.HandleAirdrop)
}

// HandleInvoke runs an arbitrary instruction. This is the path a transfer
// engine uses for interface execute calls.
func (h *Handler) HandleInvoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[InvokeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	ix := req.Instruction()
	if err := h.runtime.Invoke(ctx, ix); err != nil {
		h.writeFailure(ctx, w, "invoke", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, InvokeResponse{
		ProgramID: ix.ProgramID,
		Status:    "committed",
	})
}

// HandleGetAccount returns committed account state.
func (h *Handler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	addr, err := domain.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid account address"))
		return
	}
	acct, err := h.runtime.Load(ctx, addr)
	if err != nil {
		h.writeFailure(ctx, w, "load account", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAccountResponse(acct))
}

// HandleAirdrop credits lamports to an address.
func (h *Handler) HandleAirdrop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AirdropRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	acct, err := h.runtime.Airdrop(ctx, req.Address, req.Lamports)
	if err != nil {
		h.writeFailure(ctx, w, "airdrop", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAccountResponse(acct))
}

func (h *Handler) writeFailure(ctx context.Context, w http.ResponseWriter, op, requestID string, err error) {
	if errors.Is(err, sentinel.ErrNotFound) && dErrors.CodeOf(err) == dErrors.CodeInternal {
		err = dErrors.Wrap(err, dErrors.CodeNotFound, "account not found")
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, op+" failed", "request_id", requestID, "error", err)
	} else {
		h.logger.WarnContext(ctx, op+" rejected", "request_id", requestID, "error", err)
	}
	httputil.WriteError(w, err)
}
