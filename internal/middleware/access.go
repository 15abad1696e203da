// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/salonpulse/internal/logging"
)

// DefaultSlowRequest is the latency above which requests log at warn level.
const DefaultSlowRequest = time.Second

// AccessLog writes one structured line per request.
func AccessLog(slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequest
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			elapsed := time.Since(start)

			logger := logging.Ctx(r.Context())
			event := logger.Debug()
			switch {
			case sw.status >= http.StatusInternalServerError:
				event = logger.Error()
			case elapsed > slow:
				event = logger.Warn().Bool("slow", true)
			}
			event.
				Str("method", r.Method).
				Str("route", routePattern(r)).
				Int("status", sw.status).
				Int("bytes", sw.bytes).
				Dur("duration", elapsed).
				Msg("request")
		})
	}
}
