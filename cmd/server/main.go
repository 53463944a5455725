package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	assethandler "rwagate/internal/asset/handler"
	"rwagate/internal/events"
	httpapi "rwagate/internal/http"
	"rwagate/internal/ledger"
	ledgerhandler "rwagate/internal/ledger/handler"
	ledgermetrics "rwagate/internal/ledger/metrics"
	"rwagate/internal/ledger/signing"
	"rwagate/internal/ledger/store"
	"rwagate/internal/platform/config"
	"rwagate/internal/platform/httpserver"
	"rwagate/internal/platform/logger"
	"rwagate/internal/platform/metrics"
	"rwagate/internal/platform/otel"
	"rwagate/internal/platform/redis"
	"rwagate/internal/program"
)

// main loads configuration, wires the runtime, program and transports, and
// serves until SIGINT or SIGTERM.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Logging.Format, cfg.Logging.Level)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	shutdownTracing, err := otel.Setup(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore.Close(); err != nil {
			log.Warn("store close failed", "error", err)
		}
	}()

	publisher, closePublisher, err := openPublisher(ctx, cfg, log, registry)
	if err != nil {
		return err
	}
	defer func() {
		if err := closePublisher.Close(); err != nil {
			log.Warn("publisher close failed", "error", err)
		}
	}()

	programID, err := cfg.ProgramID()
	if err != nil {
		return err
	}
	rt := ledger.NewRuntime(st,
		ledger.WithRent(cfg.Rent()),
		ledger.WithLogger(log),
		ledger.WithMetrics(ledgermetrics.New(registry)),
	)
	prog := program.New(programID, rt,
		program.WithLogger(log),
		program.WithPublisher(publisher),
		program.WithRegistry(registry),
	)

	router := httpapi.NewRouter(httpapi.Dependencies{
		Assets:         assethandler.New(prog, prog, log),
		Runtime:        ledgerhandler.New(rt, log),
		Verifier:       signing.NewVerifier(signing.WithMaxAge(cfg.Cosign.MaxAge)),
		Metrics:        metrics.New(registry),
		Logger:         log,
		RequestTimeout: cfg.Server.RequestTimeout,
		FaucetEnabled:  cfg.Server.FaucetEnabled,
		AdminToken:     cfg.Server.AdminToken,
	})

	api := httpserver.New(cfg.Server.Addr, router)
	metricsSrv := httpserver.New(cfg.Server.MetricsAddr, httpapi.NewMetricsRouter(registry))

	log.Info("starting rwagate",
		"addr", cfg.Server.Addr,
		"metrics_addr", cfg.Server.MetricsAddr,
		"program_id", programID.String(),
		"backend", cfg.Ledger.Backend,
		"faucet", cfg.Server.FaucetEnabled,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Serve(gctx, api, cfg.Server.ShutdownTimeout)
	})
	g.Go(func() error {
		return httpserver.Serve(gctx, metricsSrv, cfg.Server.ShutdownTimeout)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var noopCloser = closerFunc(func() error { return nil })

// openStore builds the configured ledger backend.
func openStore(ctx context.Context, cfg *config.Config) (ledger.Store, io.Closer, error) {
	switch cfg.Ledger.Backend {
	case config.BackendPostgres:
		s, err := store.OpenPostgres(ctx, cfg.Ledger.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendSQLite:
		s, err := store.OpenSQLite(ctx, cfg.Ledger.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedisStore(client.Client), client, nil
	default:
		return store.NewInMemoryStore(), noopCloser, nil
	}
}

// openPublisher returns the Kafka publisher when brokers are configured, and a
// logging publisher otherwise.
func openPublisher(ctx context.Context, cfg *config.Config, log *slog.Logger, reg prometheus.Registerer) (events.Publisher, io.Closer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return events.NewLogPublisher(log), noopCloser, nil
	}
	client, err := events.NewKafkaClient(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, nil, err
	}
	p := events.NewKafkaPublisher(client, cfg.Kafka.Topic,
		events.WithLogger(log),
		events.WithMetrics(events.NewMetrics(reg)),
	)
	if err := p.EnsureTopic(ctx, 1, 1); err != nil {
		_ = p.Close()
		return nil, nil, err
	}
	return p, p, nil
}
