// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

// Package main is the entry point for the authoritative relation system.
//
// The system binary serves the relation CRUD API and publishes one event
// per committed mutation to a NATS JetStream subject. Startup order:
//
//  1. Configuration: Koanf v2 layered defaults, config file, environment
//  2. Logging: global zerolog per the logging config
//  3. Embedded NATS server (optional, NATS_EMBEDDED=true)
//  4. DuckDB relation store
//  5. Event publisher (per-call connection, circuit breaker)
//  6. HTTP server under a suture supervision tree
//
// The process shuts down gracefully on SIGINT and SIGTERM: the HTTP
// server drains in-flight requests, the store checkpoints on close, and
// the embedded broker (if any) stops last.
//
// Example usage:
//
//	export HTTP_PORT=3000
//	export DUCKDB_PATH=/data/relations.duckdb
//	export NATS_URL=nats://broker:4222
//	./system
//
// Development with an in-process broker:
//
//	export NATS_EMBEDDED=true
//	./system
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yaelgoede/TheLogicalProject/internal/api"
	"github.com/yaelgoede/TheLogicalProject/internal/config"
	"github.com/yaelgoede/TheLogicalProject/internal/database"
	"github.com/yaelgoede/TheLogicalProject/internal/eventproc"
	"github.com/yaelgoede/TheLogicalProject/internal/logging"
	"github.com/yaelgoede/TheLogicalProject/internal/supervisor"
	"github.com/yaelgoede/TheLogicalProject/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db_path", cfg.Database.Path).
		Str("nats_url", cfg.NATS.URL).
		Str("topic", cfg.NATS.Topic).
		Msg("Starting relation system")

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

	publisher := eventproc.NewPublisher(cfg.NATS, eventproc.NewWatermillLogger())
	handler := api.NewHandler(db, publisher, db)
	router := api.NewRouter(handler, &cfg.Server)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree, err := supervisor.NewTree("relation-system", logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

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

	logging.Info().Msg("Relation system stopped gracefully")
}
