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
	"github.com/tomtom215/salonpulse/internal/database"
	"github.com/tomtom215/salonpulse/internal/metrics"
	"github.com/tomtom215/salonpulse/internal/models"
)

const (
	// MinPlatformWindowDays is the shortest platform window served.
	MinPlatformWindowDays = 30

	// performanceWindowDays bounds the salon metrics used for feature usage
	// and benchmarks, independent of the growth window.
	performanceWindowDays = 30

	defaultMetricsLimit = 5000
)

// PlatformOptions selects the platform snapshot window.
type PlatformOptions struct {
	// WindowDays of 0 uses the configured default.
	WindowDays int `json:"window_days"`
}

func (s *Service) platformWindow(opts PlatformOptions) int {
	days := opts.WindowDays
	if days <= 0 {
		days = s.analytics.PlatformWindowDays
	}
	return max(days, MinPlatformWindowDays)
}

// PlatformSnapshot returns the platform analytics view. The boolean reports
// whether it came from the cache.
func (s *Service) PlatformSnapshot(ctx context.Context, opts PlatformOptions) (models.PlatformSnapshot, bool, error) {
	opts.WindowDays = s.platformWindow(opts)
	key := cache.GenerateKey("platform", opts)
	if snap, ok := cached[models.PlatformSnapshot](s, "platform", key); ok {
		return snap, true, nil
	}
	if err := ctx.Err(); err != nil {
		return models.PlatformSnapshot{}, false, err
	}

	snap := s.buildPlatform(ctx, opts)
	if len(snap.PartialSources) == 0 {
		s.cache.Set(key, snap)
	}
	return snap, false, nil
}

// RefreshPlatform rebuilds the default platform snapshot and stores it,
// replacing any cached copy.
func (s *Service) RefreshPlatform(ctx context.Context) (models.PlatformSnapshot, error) {
	opts := PlatformOptions{WindowDays: s.platformWindow(PlatformOptions{})}
	snap := s.buildPlatform(ctx, opts)
	if err := ctx.Err(); err != nil {
		return snap, err
	}
	key := cache.GenerateKey("platform", opts)
	if len(snap.PartialSources) == 0 {
		s.cache.Set(key, snap)
	} else {
		s.cache.Delete(key)
	}
	return snap, nil
}

func (s *Service) buildPlatform(ctx context.Context, opts PlatformOptions) models.PlatformSnapshot {
	start := time.Now()
	defer func() { metrics.RecordSnapshotBuild("platform", time.Since(start)) }()

	now := s.now()
	windowStart := now.Add(-time.Duration(opts.WindowDays) * analytics.Day)
	metricsSince := now.Add(-performanceWindowDays * analytics.Day)
	limit := s.insights.MetricsLimit
	if limit <= 0 {
		limit = defaultMetricsLimit
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	p := newPartial("platform")

	var (
		days    []models.PlatformDay
		users   []models.CustomerProfile
		daily   []models.DailyMetric
		total   database.CountResult
		counted bool
	)
	var g errgroup.Group
	g.Go(func() error {
		days = fetch(ctx, s, p, SourcePlatformDays, func(ctx context.Context) ([]models.PlatformDay, error) {
			return s.store.PlatformDays(ctx, windowStart)
		})
		return nil
	})
	g.Go(func() error {
		users = fetch(ctx, s, p, SourceNewUsers, func(ctx context.Context) ([]models.CustomerProfile, error) {
			return s.store.NewUsers(ctx, windowStart, limit)
		})
		return nil
	})
	g.Go(func() error {
		daily = fetch(ctx, s, p, SourceDailyMetrics, func(ctx context.Context) ([]models.DailyMetric, error) {
			return s.store.DailyMetrics(ctx, metricsSince, limit)
		})
		return nil
	})
	g.Go(func() error {
		res, err := execute(ctx, s, SourceTotalUsers, func(ctx context.Context) (database.CountResult, error) {
			return s.counter.Count(ctx, "customers")
		})
		if err != nil {
			p.fail(ctx, SourceTotalUsers, err)
			return nil
		}
		total, counted = res, true
		return nil
	})
	_ = g.Wait()

	// Details are only needed for the salons that make the top list.
	topN := s.analytics.TopSalons
	if topN <= 0 {
		topN = analytics.TopSalonsLimit
	}
	var details map[string]models.SalonDetail
	if ids := analytics.TopSalonIDs(analytics.AggregateSalons(daily), topN); len(ids) > 0 {
		details = fetch(ctx, s, p, SourceSalonDetails, func(ctx context.Context) (map[string]models.SalonDetail, error) {
			return s.store.SalonDetails(ctx, ids)
		})
	}

	return analytics.BuildPlatformSnapshot(analytics.PlatformInputs{
		WindowStart:       windowStart,
		Days:              days,
		Users:             users,
		Metrics:           daily,
		SalonDetails:      details,
		TotalUsers:        total.Total,
		TotalUsersIsExact: counted && total.Exact,
		PartialSources:    p.list(),
	}, now, topN)
}
