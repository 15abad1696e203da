// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package api

import (
	"context"
	"time"

	"github.com/tomtom215/salonpulse/internal/auth"
	"github.com/tomtom215/salonpulse/internal/cache"
	"github.com/tomtom215/salonpulse/internal/config"
	"github.com/tomtom215/salonpulse/internal/database"
	"github.com/tomtom215/salonpulse/internal/insights"
	"github.com/tomtom215/salonpulse/internal/models"
)

// InsightsService builds the analytics payloads served by the API.
type InsightsService interface {
	PlatformSnapshot(ctx context.Context, opts insights.PlatformOptions) (models.PlatformSnapshot, bool, error)
	SecuritySnapshot(ctx context.Context, opts insights.SecurityOptions) (models.SecuritySnapshot, bool, error)
	CustomerInsights(ctx context.Context, salonID string) (models.CustomerInsights, bool, error)
	CustomerChurn(ctx context.Context, salonID, customerID string) (insights.ChurnReport, error)
	CustomerLifetimeValue(ctx context.Context, salonID, customerID string) (models.LifetimeValue, error)
	TotalCount(ctx context.Context, table string) (database.CountResult, error)
	CacheStats() cache.Stats
}

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: liveness and readiness probes
//   - handlers_platform.go: platform analytics and security monitoring
//   - handlers_customers.go: salon customer insights, churn and lifetime value
//   - handlers_auth.go: development token issuing
type Handler struct {
	service    InsightsService
	db         Pinger
	jwtManager *auth.JWTManager
	config     *config.Config
	startTime  time.Time
}

// NewHandler creates the API handler. jwtManager is only used by the
// development token endpoint.
func NewHandler(service InsightsService, db Pinger, jwtManager *auth.JWTManager, cfg *config.Config) *Handler {
	return &Handler{
		service:    service,
		db:         db,
		jwtManager: jwtManager,
		config:     cfg,
		startTime:  time.Now(),
	}
}
