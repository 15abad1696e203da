// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package insights

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/salonpulse/internal/analytics"
	"github.com/tomtom215/salonpulse/internal/cache"
	"github.com/tomtom215/salonpulse/internal/config"
	"github.com/tomtom215/salonpulse/internal/database"
	"github.com/tomtom215/salonpulse/internal/logging"
	"github.com/tomtom215/salonpulse/internal/metrics"
	"github.com/tomtom215/salonpulse/internal/models"
)

var (
	// ErrInvalidSalon is returned for a missing or malformed salon id.
	ErrInvalidSalon = errors.New("invalid salon id")

	// ErrInvalidCustomer is returned for a missing or malformed customer id.
	ErrInvalidCustomer = errors.New("invalid customer id")
)

// Store is the read side of the analytics database.
type Store interface {
	PlatformDays(ctx context.Context, since time.Time) ([]models.PlatformDay, error)
	NewUsers(ctx context.Context, since time.Time, limit int) ([]models.CustomerProfile, error)
	DailyMetrics(ctx context.Context, since time.Time, limit int) ([]models.DailyMetric, error)
	SalonDetails(ctx context.Context, ids []string) (map[string]models.SalonDetail, error)
	SalonExists(ctx context.Context, salonID string) error

	SalonAppointments(ctx context.Context, salonID string) ([]models.Appointment, error)
	CustomerAppointments(ctx context.Context, salonID, customerID string) ([]models.Appointment, error)
	SalonTransactions(ctx context.Context, salonID string) ([]models.Transaction, error)
	CustomerTransactions(ctx context.Context, salonID, customerID string) ([]models.Transaction, error)
	SalonReviews(ctx context.Context, salonID string) ([]models.Review, error)
	Profiles(ctx context.Context, ids []string) (map[string]models.CustomerProfile, error)

	AuditEvents(ctx context.Context, since time.Time, limit int) ([]models.AuditEvent, error)
	FailedLogins(ctx context.Context, since time.Time, limit int) ([]models.AuditEvent, error)
	AccessAttempts(ctx context.Context, since time.Time, limit int) ([]models.AccessAttempt, error)
	SuspiciousSessions(ctx context.Context, limit int) ([]models.SessionSecurity, error)
	RateLimitEntries(ctx context.Context, limit int) ([]models.RateLimitEntry, error)
	Incidents(ctx context.Context, since time.Time, limit int) ([]models.SecurityIncident, error)
}

// Service builds cached analytics snapshots.
type Service struct {
	store    Store
	counter  database.Counter
	cache    *cache.Cache
	breakers *breakers

	insights  config.InsightsConfig
	analytics config.AnalyticsConfig
	rules     analytics.SegmentRules

	now func() time.Time
}

// cacheCapacity bounds the number of snapshots held at once. Customer
// insights are keyed per salon, so this is roughly the number of salons
// kept warm.
const cacheCapacity = 512

// New creates the service. The counter decides how total user counts are
// computed.
func New(store Store, counter database.Counter, cfg *config.Config) (*Service, error) {
	rules, err := analytics.ParseSegmentRules(cfg.Analytics.SegmentRules)
	if err != nil {
		return nil, fmt.Errorf("insights: %w", err)
	}
	return &Service{
		store:     store,
		counter:   counter,
		cache:     cache.New(cfg.Insights.CacheTTL, cacheCapacity),
		breakers:  newBreakers(cfg.Insights.BreakerFailures, cfg.Insights.BreakerTimeout),
		insights:  cfg.Insights,
		analytics: cfg.Analytics,
		rules:     rules,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Cache exposes the snapshot cache for maintenance.
func (s *Service) Cache() *cache.Cache {
	return s.cache
}

// TotalCount counts a table with the configured strategy.
func (s *Service) TotalCount(ctx context.Context, table string) (database.CountResult, error) {
	return s.counter.Count(ctx, table)
}

// CacheStats reports the snapshot cache counters.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.GetStats()
}

// withTimeout bounds a whole fetch batch.
func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.insights.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.insights.FetchTimeout)
}

// cached looks a snapshot up and records the outcome.
func cached[T any](s *Service, snapshot, key string) (T, bool) {
	v, ok := s.cache.Get(key)
	metrics.RecordCacheLookup(snapshot, ok)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// partial collects the sources that failed during one snapshot build.
type partial struct {
	snapshot string

	mu      sync.Mutex
	sources []string
}

func newPartial(snapshot string) *partial {
	return &partial{snapshot: snapshot}
}

func (p *partial) fail(ctx context.Context, source string, err error) {
	metrics.RecordSourceFailure(p.snapshot, source)
	logging.Ctx(ctx).Warn().
		Err(err).
		Str("snapshot", p.snapshot).
		Str("source", source).
		Msg("Snapshot source failed, continuing with partial data")

	p.mu.Lock()
	p.sources = append(p.sources, source)
	p.mu.Unlock()
}

func (p *partial) list() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.sources))
	copy(out, p.sources)
	sort.Strings(out)
	return out
}

// fetch runs fn through the source's breaker. On failure the source is
// recorded as partial and the zero value is returned.
func fetch[T any](ctx context.Context, s *Service, p *partial, source string, fn func(context.Context) (T, error)) T {
	v, err := execute(ctx, s, source, fn)
	if err != nil {
		p.fail(ctx, source, err)
		var zero T
		return zero
	}
	return v
}

// execute runs fn through the source's breaker and returns its error.
func execute[T any](ctx context.Context, s *Service, source string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	res, err := s.breakers.get(source).Execute(func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("source %s: unexpected result type %T", source, res)
	}
	return typed, nil
}
