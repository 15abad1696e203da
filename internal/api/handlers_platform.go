// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/salonpulse/internal/insights"
	"github.com/tomtom215/salonpulse/internal/models"
	"github.com/tomtom215/salonpulse/internal/validation"
)

// PlatformAnalytics serves the platform growth, acquisition, retention,
// feature usage and performance snapshot.
//
// Query parameters:
//   - window_days: growth window, raised to 30 when lower (default from config)
func (h *Handler) PlatformAnalytics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req validation.PlatformRequest
	if apiErr := intQueries(r, intParam{"window_days", &req.WindowDays}); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	snap, cached, err := h.service.PlatformSnapshot(r.Context(), insights.PlatformOptions{WindowDays: req.WindowDays})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, r, snap, models.Metadata{
		QueryTimeMS: since(start),
		Cached:      cached,
		Partial:     snap.PartialSources,
	})
}

// PlatformSecurity serves the security monitoring snapshot.
//
// Query parameters (0 or absent uses the default):
//   - window_hours (24)
//   - events_limit (60), sessions_limit (25), access_limit (60)
//   - rate_limit_limit (40), failed_logins_limit (80), incidents_limit (40)
func (h *Handler) PlatformSecurity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req validation.SecurityRequest
	if apiErr := intQueries(r,
		intParam{"window_hours", &req.WindowHours},
		intParam{"events_limit", &req.EventsLimit},
		intParam{"sessions_limit", &req.SessionsLimit},
		intParam{"access_limit", &req.AccessLimit},
		intParam{"rate_limit_limit", &req.RateLimitLimit},
		intParam{"failed_logins_limit", &req.FailedLoginsLimit},
		intParam{"incidents_limit", &req.IncidentsLimit},
	); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	snap, cached, err := h.service.SecuritySnapshot(r.Context(), insights.SecurityOptions{
		WindowHours:       req.WindowHours,
		EventsLimit:       req.EventsLimit,
		SessionsLimit:     req.SessionsLimit,
		AccessLimit:       req.AccessLimit,
		RateLimitLimit:    req.RateLimitLimit,
		FailedLoginsLimit: req.FailedLoginsLimit,
		IncidentsLimit:    req.IncidentsLimit,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, r, snap, models.Metadata{
		QueryTimeMS: since(start),
		Cached:      cached,
		Partial:     snap.PartialSources,
	})
}
