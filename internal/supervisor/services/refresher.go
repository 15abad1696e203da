// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/salonpulse/internal/logging"
	"github.com/tomtom215/salonpulse/internal/metrics"
	"github.com/tomtom215/salonpulse/internal/models"
)

// Refresh outcomes recorded in metrics.SnapshotRefreshes.
const (
	RefreshSuccess = "success"
	RefreshPartial = "partial"
	RefreshError   = "error"
)

// minRefreshInterval keeps a misconfigured interval from hammering the store.
const minRefreshInterval = time.Second

// PlatformRefresher rebuilds and stores the default platform snapshot.
type PlatformRefresher interface {
	RefreshPlatform(ctx context.Context) (models.PlatformSnapshot, error)
}

// CacheJanitor evicts expired entries and reports how many were removed.
// Len is published as the cache entries gauge after each sweep.
type CacheJanitor interface {
	Cleanup() int
	Len() int
}

// SnapshotRefresher periodically warms the platform snapshot cache.
//
// A refresh runs immediately on Serve and then once per interval. A failed
// or partial refresh is logged and counted but never ends the service: the
// next tick simply tries again.
type SnapshotRefresher struct {
	refresher PlatformRefresher
	janitor   CacheJanitor
	interval  time.Duration
	name      string
	log       zerolog.Logger

	// runs is signaled after every refresh; nil outside tests.
	runs chan string
}

// NewSnapshotRefresher creates the service. janitor may be nil.
func NewSnapshotRefresher(refresher PlatformRefresher, janitor CacheJanitor, interval time.Duration) *SnapshotRefresher {
	if interval < minRefreshInterval {
		interval = minRefreshInterval
	}
	return &SnapshotRefresher{
		refresher: refresher,
		janitor:   janitor,
		interval:  interval,
		name:      "snapshot-refresher",
		log:       logging.WithComponent("snapshot-refresher"),
	}
}

// Serve implements suture.Service.
func (r *SnapshotRefresher) Serve(ctx context.Context) error {
	r.log.Info().Dur("interval", r.interval).Msg("Snapshot refresher started")

	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("Snapshot refresher stopped")
			return ctx.Err()
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *SnapshotRefresher) runOnce(ctx context.Context) {
	start := time.Now()
	snap, err := r.refresher.RefreshPlatform(ctx)

	result := RefreshSuccess
	switch {
	case err != nil:
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return
		}
		result = RefreshError
		r.log.Warn().Err(err).Msg("Platform snapshot refresh failed")
	case len(snap.PartialSources) > 0:
		result = RefreshPartial
		r.log.Warn().
			Strs("sources", snap.PartialSources).
			Msg("Platform snapshot refresh incomplete, not cached")
	default:
		r.log.Debug().Dur("duration", time.Since(start)).Msg("Platform snapshot refreshed")
	}
	metrics.SnapshotRefreshes.WithLabelValues(result).Inc()

	if r.janitor != nil {
		if n := r.janitor.Cleanup(); n > 0 {
			r.log.Debug().Int("evicted", n).Msg("Expired cache entries removed")
		}
		metrics.CacheEntries.Set(float64(r.janitor.Len()))
	}

	if r.runs != nil {
		select {
		case r.runs <- result:
		default:
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (r *SnapshotRefresher) String() string {
	return r.name
}
