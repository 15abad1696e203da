// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package insights

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/salonpulse/internal/analytics"
	"github.com/tomtom215/salonpulse/internal/cache"
	"github.com/tomtom215/salonpulse/internal/metrics"
	"github.com/tomtom215/salonpulse/internal/models"
)

// Security snapshot defaults.
const (
	DefaultSecurityWindowHours = 24
	DefaultEventsLimit         = 60
	DefaultSessionsLimit       = 25
	DefaultAccessLimit         = 60
	DefaultRateLimitLimit      = 40
	DefaultFailedLoginsLimit   = 80
	DefaultIncidentsLimit      = 40
)

// SecurityOptions bounds the security snapshot. Zero fields use defaults.
type SecurityOptions struct {
	WindowHours       int `json:"window_hours"`
	EventsLimit       int `json:"events_limit"`
	SessionsLimit     int `json:"sessions_limit"`
	AccessLimit       int `json:"access_limit"`
	RateLimitLimit    int `json:"rate_limit_limit"`
	FailedLoginsLimit int `json:"failed_logins_limit"`
	IncidentsLimit    int `json:"incidents_limit"`
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// WithDefaults fills zero fields.
func (o SecurityOptions) WithDefaults() SecurityOptions {
	o.WindowHours = orDefault(o.WindowHours, DefaultSecurityWindowHours)
	o.EventsLimit = orDefault(o.EventsLimit, DefaultEventsLimit)
	o.SessionsLimit = orDefault(o.SessionsLimit, DefaultSessionsLimit)
	o.AccessLimit = orDefault(o.AccessLimit, DefaultAccessLimit)
	o.RateLimitLimit = orDefault(o.RateLimitLimit, DefaultRateLimitLimit)
	o.FailedLoginsLimit = orDefault(o.FailedLoginsLimit, DefaultFailedLoginsLimit)
	o.IncidentsLimit = orDefault(o.IncidentsLimit, DefaultIncidentsLimit)
	return o
}

// SecuritySnapshot returns the security monitoring view.
func (s *Service) SecuritySnapshot(ctx context.Context, opts SecurityOptions) (models.SecuritySnapshot, bool, error) {
	opts = opts.WithDefaults()
	key := cache.GenerateKey("security", opts)
	if snap, ok := cached[models.SecuritySnapshot](s, "security", key); ok {
		return snap, true, nil
	}
	if err := ctx.Err(); err != nil {
		return models.SecuritySnapshot{}, false, err
	}

	start := time.Now()
	defer func() { metrics.RecordSnapshotBuild("security", time.Since(start)) }()

	now := s.now()
	since := now.Add(-time.Duration(opts.WindowHours) * time.Hour)

	fetchCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	p := newPartial("security")

	var in analytics.SecurityInputs
	var g errgroup.Group
	g.Go(func() error {
		in.Events = fetch(fetchCtx, s, p, SourceAuditEvents, func(ctx context.Context) ([]models.AuditEvent, error) {
			return s.store.AuditEvents(ctx, since, opts.EventsLimit)
		})
		return nil
	})
	g.Go(func() error {
		in.Logins = fetch(fetchCtx, s, p, SourceFailedLogins, func(ctx context.Context) ([]models.AuditEvent, error) {
			return s.store.FailedLogins(ctx, since, opts.FailedLoginsLimit)
		})
		return nil
	})
	g.Go(func() error {
		in.Access = fetch(fetchCtx, s, p, SourceAccessAttempts, func(ctx context.Context) ([]models.AccessAttempt, error) {
			return s.store.AccessAttempts(ctx, since, opts.AccessLimit)
		})
		return nil
	})
	g.Go(func() error {
		in.Sessions = fetch(fetchCtx, s, p, SourceSessions, func(ctx context.Context) ([]models.SessionSecurity, error) {
			return s.store.SuspiciousSessions(ctx, opts.SessionsLimit)
		})
		return nil
	})
	g.Go(func() error {
		in.RateLimits = fetch(fetchCtx, s, p, SourceRateLimits, func(ctx context.Context) ([]models.RateLimitEntry, error) {
			return s.store.RateLimitEntries(ctx, opts.RateLimitLimit)
		})
		return nil
	})
	g.Go(func() error {
		in.Incidents = fetch(fetchCtx, s, p, SourceIncidents, func(ctx context.Context) ([]models.SecurityIncident, error) {
			return s.store.Incidents(ctx, since, opts.IncidentsLimit)
		})
		return nil
	})
	_ = g.Wait()

	snap := analytics.BuildSecuritySnapshot(in, since, now, p.list())
	if len(snap.PartialSources) == 0 {
		s.cache.Set(key, snap)
	}
	return snap, false, nil
}
