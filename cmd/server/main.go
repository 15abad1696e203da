// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

// Package main is the SalonPulse analytics server.
//
// The server initializes components in this order:
//
//  1. Configuration: defaults, config.yaml, then environment (Koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. Database: embedded DuckDB, optionally seeded with demo salons
//  4. Insights: snapshot service with per-source circuit breakers and a TTL cache
//  5. Auth: JWT verification plus the Casbin role policy
//  6. HTTP: chi router with CORS, rate limiting and Prometheus metrics
//  7. Supervisor: suture tree running the HTTP server and snapshot refresher
//
// SIGINT and SIGTERM cancel the root context. The supervisor then shuts the
// HTTP server down within SERVER_SHUTDOWN_TIMEOUT and the database closes last.
//
// Local development with generated data and the token endpoint enabled:
//
//	export AUTH_MODE=dev
//	export AUTH_JWT_SECRET=$(openssl rand -base64 32)
//	export DATABASE_SEED_DEMO_DATA=true
//	./salonpulse
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/salonpulse/internal/api"
	"github.com/tomtom215/salonpulse/internal/auth"
	"github.com/tomtom215/salonpulse/internal/authz"
	"github.com/tomtom215/salonpulse/internal/config"
	"github.com/tomtom215/salonpulse/internal/database"
	"github.com/tomtom215/salonpulse/internal/insights"
	"github.com/tomtom215/salonpulse/internal/logging"
	"github.com/tomtom215/salonpulse/internal/supervisor"
	"github.com/tomtom215/salonpulse/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("SalonPulse exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Auth.Mode).
		Str("environment", cfg.Server.Environment).
		Str("segment_rules", cfg.Analytics.SegmentRules).
		Str("count_strategy", cfg.Analytics.CountStrategy).
		Msg("Configuration loaded")
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if cfg.Database.SeedDemoData {
		logging.Info().Msg("Demo data seeding enabled (DATABASE_SEED_DEMO_DATA=true)")
		if err := db.SeedDemoData(ctx, time.Now().UTC()); err != nil {
			return err
		}
	}

	counter := database.NewCounter(db, &cfg.Analytics)
	service, err := insights.New(db, counter, cfg)
	if err != nil {
		return err
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Auth)
	if err != nil {
		return err
	}
	enforcer, err := authz.NewEnforcer(authz.EnforcerConfig{
		ModelPath:  cfg.Auth.ModelPath,
		PolicyPath: cfg.Auth.PolicyPath,
	})
	if err != nil {
		return err
	}
	if cfg.DevAuth() {
		logging.Warn().Msg("Development token endpoint enabled (AUTH_MODE=dev)")
	}

	router := api.NewRouter(
		api.NewHandler(service, db, jwtManager, cfg),
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security)),
		auth.NewMiddleware(jwtManager),
		authz.NewMiddleware(enforcer),
		cfg.DevAuth(),
	)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	if cfg.Insights.RefreshEnabled {
		tree.AddDataService(services.NewSnapshotRefresher(service, service.Cache(), cfg.Insights.RefreshInterval))
		logging.Info().Dur("interval", cfg.Insights.RefreshInterval).Msg("Snapshot refresher added to supervisor tree")
	}

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("SalonPulse stopped")
	return nil
}
