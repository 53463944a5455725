// Package httpapi assembles the public HTTP surface: the middleware chain, the
// asset and runtime routes, health and metrics.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	assethandler "rwagate/internal/asset/handler"
	ledgerhandler "rwagate/internal/ledger/handler"
	"rwagate/internal/platform/metrics"
	"rwagate/pkg/platform/httputil"
	"rwagate/pkg/platform/middleware/admin"
	"rwagate/pkg/platform/middleware/cosign"
	"rwagate/pkg/platform/middleware/metadata"
	"rwagate/pkg/platform/middleware/request"
	"rwagate/pkg/platform/middleware/requesttime"
)

// Dependencies are the collaborators the router mounts.
type Dependencies struct {
	Assets   *assethandler.Handler
	Runtime  *ledgerhandler.Handler
	Verifier cosign.Verifier
	Metrics  *metrics.Metrics
	Logger   *slog.Logger

	// RequestTimeout bounds each request's context.
	RequestTimeout time.Duration
	// FaucetEnabled exposes POST /v1/faucet.
	FaucetEnabled bool
	// AdminToken, when set, guards the faucet with X-Admin-Token.
	AdminToken string
	// Clock overrides the request clock in tests.
	Clock func() time.Time
}

// NewRouter wires the middleware chain and every route.
//
// Order matters: request IDs and recovery wrap everything, client metadata is
// parsed before the access log reads it, and co-signatures are verified last so
// a rejected signature is still logged and counted.
func NewRouter(deps Dependencies) http.Handler {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(deps.Logger))
	r.Use(metadata.ClientMetadata)
	r.Use(request.Logger(deps.Logger))
	r.Use(deps.Metrics.Middleware)
	r.Use(chimiddleware.Timeout(timeout))
	r.Use(requesttime.WithClock(clock))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(cosign.Middleware(deps.Verifier, deps.Logger))
		deps.Assets.Register(r)
		deps.Runtime.Register(r)
	})

	if deps.FaucetEnabled {
		r.Group(func(r chi.Router) {
			if deps.AdminToken != "" {
				r.Use(admin.RequireAdminToken(deps.AdminToken, deps.Logger))
			}
			deps.Runtime.RegisterFaucet(r)
		})
	}

	return otelhttp.NewHandler(r, "rwagate.http")
}

// NewMetricsRouter serves the Prometheus registry on its own listener.
func NewMetricsRouter(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}
