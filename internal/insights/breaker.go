// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package insights

import (
	"context"
	"errors"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/salonpulse/internal/logging"
	"github.com/tomtom215/salonpulse/internal/metrics"
)

// Source names. They appear in partial_sources and as metric labels.
const (
	SourcePlatformDays   = "platform_days"
	SourceNewUsers       = "new_users"
	SourceDailyMetrics   = "daily_metrics"
	SourceSalonDetails   = "salon_details"
	SourceTotalUsers     = "total_users"
	SourceAuditEvents    = "audit_events"
	SourceFailedLogins   = "failed_logins"
	SourceAccessAttempts = "access_attempts"
	SourceSessions       = "sessions"
	SourceRateLimits     = "rate_limits"
	SourceIncidents      = "incidents"
	SourceSalons         = "salons"
	SourceAppointments   = "appointments"
	SourceTransactions   = "transactions"
	SourceReviews        = "reviews"
	SourceProfiles       = "profiles"
)

// breakers holds one circuit breaker per source, created on first use.
type breakers struct {
	failures uint32
	timeout  time.Duration

	mu  sync.Mutex
	set map[string]*gobreaker.CircuitBreaker[any]
}

func newBreakers(failures uint32, timeout time.Duration) *breakers {
	if failures == 0 {
		failures = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &breakers{failures: failures, timeout: timeout, set: make(map[string]*gobreaker.CircuitBreaker[any])}
}

func (b *breakers) get(source string) *gobreaker.CircuitBreaker[any] {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cb, ok := b.set[source]; ok {
		return cb
	}

	metrics.SetBreakerState(source, stateValue(gobreaker.StateClosed))
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        source,
		MaxRequests: 1,
		Timeout:     b.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= b.failures
		},
		// A caller that went away says nothing about the source.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetBreakerState(name, stateValue(to))
			logging.Warn().
				Str("source", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Source circuit breaker changed state")
		},
	})
	b.set[source] = cb
	return cb
}

// state reports the current breaker state of a source.
func (b *breakers) state(source string) gobreaker.State {
	return b.get(source).State()
}

func stateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
