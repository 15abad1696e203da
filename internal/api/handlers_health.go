// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/salonpulse/internal/logging"
	"github.com/tomtom215/salonpulse/internal/models"
)

// readyTimeout bounds the database ping of the readiness probe.
const readyTimeout = 2 * time.Second

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]any{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// HealthReady handles readiness probe requests.
// Returns 200 OK only if the database answers, 503 otherwise. A ready
// response also carries the customer total and the snapshot cache counters.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	dbConnected := h.db != nil && h.db.Ping(ctx) == nil

	statusCode := http.StatusOK
	status := "ready"
	if !dbConnected {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	data := map[string]any{
		"database_connected": dbConnected,
		"ready_to_serve":     dbConnected,
		"uptime":             time.Since(h.startTime).Seconds(),
	}
	if h.service != nil {
		data["cache"] = h.service.CacheStats()
		if dbConnected {
			if total, err := h.service.TotalCount(ctx, "customers"); err == nil {
				data["customers"] = total
			} else {
				logging.Ctx(ctx).Debug().Err(err).Msg("customer count unavailable")
			}
		}
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status:   status,
		Data:     data,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}
