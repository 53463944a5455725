// Package gate is the synchronous compliance check run on every transfer.
//
// The gate is veto-only. It reads the asset record for the transferred mint and
// fails with NonCompliantAsset when the record is not compliant. It never writes.
//
// Source, destination and owner are accepted as supplied by the transfer engine
// and are not yet subject to policy. Jurisdiction-based restrictions would be
// evaluated here against those accounts.
package gate

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rwagate/internal/asset/models"
	"rwagate/internal/extrameta"
	"rwagate/internal/gate/metrics"
	"rwagate/internal/ledger"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
	"rwagate/pkg/requestcontext"
)

// Gate checks transfers against the asset record of their mint.
type Gate struct {
	programID domain.Address
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Gate)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gate) {
		g.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(g *Gate) {
		g.tracer = t
	}
}

func New(programID domain.Address, opts ...Option) *Gate {
	g := &Gate{
		programID: programID,
		logger:    slog.Default(),
		tracer:    otel.Tracer("rwagate/gate"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CheckParams are the accounts of an execute call, in the engine's order, and
// the transferred amount.
type CheckParams struct {
	Source      domain.Address
	Mint        domain.Address
	Destination domain.Address
	Owner       domain.Address
	ExtraMetas  domain.Address
	Asset       domain.Address
	Amount      uint64
}

// Settler defers work until the surrounding call commits or aborts. ledger.Call
// implements it.
type Settler interface {
	AfterCommit(fn func(ctx context.Context))
	AfterAbort(fn func(ctx context.Context))
}

// Check allows the transfer when the mint's asset record is compliant and
// returns the record it decided on. The companion list and asset accounts must
// be the derived addresses for the mint.
//
// When reader is a Settler the outcome is logged and counted once the call
// settles, so a store that re-runs the call body reports one decision.
func (g *Gate) Check(ctx context.Context, reader ledger.AccountReader, p CheckParams) (*models.AssetDetails, error) {
	start := time.Now()
	ctx, span := g.tracer.Start(ctx, "gate.check", trace.WithAttributes(
		attribute.String("rwagate.mint", p.Mint.String()),
		attribute.String("rwagate.amount", strconv.FormatUint(p.Amount, 10)),
	))
	defer span.End()

	details, err := g.check(ctx, reader, p)
	elapsed := time.Since(start)
	if err != nil {
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	} else {
		span.SetAttributes(attribute.String("rwagate.asset_type", details.AssetType))
	}

	report := func(ctx context.Context) { g.report(ctx, p, details, err, elapsed) }
	if settler, ok := reader.(Settler); ok {
		if err != nil {
			settler.AfterAbort(report)
		} else {
			settler.AfterCommit(report)
		}
	} else {
		report(ctx)
	}
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (g *Gate) report(ctx context.Context, p CheckParams, details *models.AssetDetails, err error, elapsed time.Duration) {
	g.metrics.ObserveCheckLatency(elapsed)
	if err != nil {
		code := dErrors.CodeOf(err)
		if code != dErrors.CodeNonCompliantAsset {
			g.metrics.IncrementOutcome(string(code))
			return
		}
		g.metrics.IncrementOutcome("denied")
		g.logger.InfoContext(ctx, "transfer denied",
			"mint", p.Mint.String(),
			"amount", p.Amount,
			"reason", dErrors.MessageOf(err),
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}

	g.metrics.IncrementOutcome("allowed")
	g.metrics.AddAllowedAmount(p.Amount)
	g.logger.InfoContext(ctx, "transfer approved",
		"mint", p.Mint.String(),
		"asset_type", details.AssetType,
		"amount", p.Amount,
		"request_id", requestcontext.RequestID(ctx),
	)
}

func (g *Gate) check(ctx context.Context, reader ledger.AccountReader, p CheckParams) (*models.AssetDetails, error) {
	if p.ExtraMetas != extrameta.ListAddress(g.programID, p.Mint) {
		return nil, dErrors.New(dErrors.CodeInvalidAccount, "extra account meta list address does not match the mint")
	}
	if p.Asset != models.AssetAddress(g.programID, p.Mint) {
		return nil, dErrors.New(dErrors.CodeInvalidAccount, "asset record address does not match the mint")
	}
	details, _, err := models.LoadAssetDetails(ctx, reader, g.programID, p.Asset)
	if err != nil {
		return nil, err
	}
	if !details.ComplianceStatus {
		return nil, dErrors.New(dErrors.CodeNonCompliantAsset, "asset is not compliant")
	}
	return details, nil
}
