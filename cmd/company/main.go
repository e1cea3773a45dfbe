// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

// Package main is the entry point for a company consumer.
//
// The company binary keeps a local copy of the relation set in sync with
// the authoritative system through three independent mechanisms:
//
//   - an event consumer on the relations subject (durable JetStream
//     queue group named after the company, so instances share one
//     subscription and every company gets the full stream)
//   - a periodic reconciliation pull against the system API that closes
//     any gap left by lost events
//   - a periodic idempotent seeder that loads the baseline dataset into
//     an empty partition
//
// All three run under one suture supervision tree next to a small
// health and metrics HTTP server.
//
// Example usage:
//
//	export COMPANY=Coca
//	export NATS_URL=nats://broker:4222
//	export SYNC_API_URL=http://system:3000
//	export DUCKDB_PATH=/data/coca.duckdb
//	./company
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yaelgoede/TheLogicalProject/internal/config"
	"github.com/yaelgoede/TheLogicalProject/internal/database"
	"github.com/yaelgoede/TheLogicalProject/internal/eventproc"
	"github.com/yaelgoede/TheLogicalProject/internal/logging"
	"github.com/yaelgoede/TheLogicalProject/internal/seed"
	"github.com/yaelgoede/TheLogicalProject/internal/supervisor"
	"github.com/yaelgoede/TheLogicalProject/internal/supervisor/services"
	relsync "github.com/yaelgoede/TheLogicalProject/internal/sync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.ValidateCompany(); err != nil {
		logging.Fatal().Err(err).Msg("Invalid configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	company := cfg.Company.Name
	logging.Info().
		Str("company", company).
		Str("db_path", cfg.Database.Path).
		Str("nats_url", cfg.NATS.URL).
		Str("topic", cfg.NATS.Topic).
		Msg("Starting company consumer")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.NATS.EmbeddedServer {
		embedded, err := eventproc.NewEmbeddedServer(cfg.NATS.URL, cfg.NATS.StoreDir)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to start embedded NATS server")
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := embedded.Shutdown(shutdownCtx); err != nil {
				logging.Error().Err(err).Msg("Error shutting down embedded NATS server")
			}
		}()
		cfg.NATS.URL = embedded.ClientURL()
		logging.Info().Str("url", cfg.NATS.URL).Msg("Embedded NATS server started")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	wmLogger := eventproc.NewWatermillLogger()

	subscriber, err := eventproc.NewSubscriber(&cfg.NATS, company, wmLogger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create subscriber")
	}

	routerCfg := eventproc.RouterConfigFromNATS(&cfg.NATS)
	eventRouter, err := eventproc.NewRouter(&routerCfg, wmLogger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event router")
	}

	consumer := eventproc.NewConsumer(eventproc.NewDispatcher(db, company))
	eventRouter.AddConsumerHandler(
		"relation-events",
		cfg.NATS.Topic,
		subscriber.Watermill(),
		consumer.HandleMessage,
	)

	tree, err := supervisor.NewTree("relation-company", logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddMessagingService(services.NewRouterService(eventRouter))
	logging.Info().Str("queue_group", company).Msg("Event consumer added to supervisor tree")

	if cfg.Sync.Enabled {
		client := relsync.NewAPIClient(cfg.Sync.APIURL, cfg.Sync.Timeout)
		manager := relsync.NewManager(&cfg.Sync, client, db, company)
		tree.AddMessagingService(services.NewStartStopService(manager, "reconcile-manager"))
		logging.Info().
			Str("api_url", cfg.Sync.APIURL).
			Dur("interval", cfg.Sync.Interval).
			Msg("Reconciliation manager added to supervisor tree")
	} else {
		logging.Warn().Msg("Reconciliation disabled (SYNC_ENABLED=false), lost events will not be repaired")
	}

	if cfg.Seed.Enabled {
		seeder, err := seed.NewSeeder(&cfg.Seed, db, company)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create seeder")
		}
		tree.AddDataService(services.NewStartStopService(seeder, "seeder"))
		logging.Info().Dur("interval", cfg.Seed.Interval).Msg("Seeder added to supervisor tree")
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      healthRouter(db),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("Health server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Company consumer stopped gracefully")
}

// healthRouter serves liveness, readiness, and Prometheus metrics for
// the consumer process.
func healthRouter(db *database.DB) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/api/v1/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"alive"}`))
	})
	r.Get("/api/v1/health/ready", func(w http.ResponseWriter, req *http.Request) {
		if err := db.Ping(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"not ready"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
