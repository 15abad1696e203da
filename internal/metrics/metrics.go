// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salonpulse_db_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salonpulse_db_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salonpulse_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salonpulse_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "salonpulse_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salonpulse_api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salonpulse_auth_failures_total",
			Help: "Total number of rejected bearer tokens and denied authorizations",
		},
		[]string{"reason"},
	)

	// Snapshots
	SnapshotBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salonpulse_snapshot_build_duration_seconds",
			Help:    "Time to fetch and compute a snapshot, cache misses only",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"snapshot"},
	)

	SourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salonpulse_source_failures_total",
			Help: "Upstream record fetches that failed and degraded to an empty collection",
		},
		[]string{"snapshot", "source"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salonpulse_cache_hits_total",
			Help: "Snapshot cache hits",
		},
		[]string{"snapshot"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salonpulse_cache_misses_total",
			Help: "Snapshot cache misses",
		},
		[]string{"snapshot"},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "salonpulse_cache_entries",
			Help: "Snapshot cache entries after the last expiry sweep",
		},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "salonpulse_breaker_state",
			Help: "Circuit breaker state per source (0 closed, 1 half-open, 2 open)",
		},
		[]string{"source"},
	)

	SnapshotRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salonpulse_snapshot_refreshes_total",
			Help: "Background snapshot refresh runs",
		},
		[]string{"result"},
	)

	// Importer
	ImporterRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salonpulse_importer_rows_total",
			Help: "Rows copied from the legacy MySQL source",
		},
		[]string{"table"},
	)
)

// errorType buckets an error into a low-cardinality label.
func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "query"
	}
}

// RecordDBQuery observes one query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table, errorType(err)).Inc()
	}
}

// RecordAPIRequest observes one HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordSnapshotBuild observes a computed (not cached) snapshot.
func RecordSnapshotBuild(snapshot string, duration time.Duration) {
	SnapshotBuildDuration.WithLabelValues(snapshot).Observe(duration.Seconds())
}

// RecordSourceFailure counts a degraded fetch.
func RecordSourceFailure(snapshot, source string) {
	SourceFailures.WithLabelValues(snapshot, source).Inc()
}

// RecordCacheLookup counts a cache hit or miss.
func RecordCacheLookup(snapshot string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(snapshot).Inc()
		return
	}
	CacheMisses.WithLabelValues(snapshot).Inc()
}

// SetBreakerState publishes a breaker state, 0 closed, 1 half-open, 2 open.
func SetBreakerState(source string, state int) {
	BreakerState.WithLabelValues(source).Set(float64(state))
}
