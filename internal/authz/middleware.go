// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package authz

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/salonpulse/internal/auth"
	"github.com/tomtom215/salonpulse/internal/logging"
	"github.com/tomtom215/salonpulse/internal/metrics"
	"github.com/tomtom215/salonpulse/internal/models"
)

// SalonParam is the chi URL parameter holding the salon id.
const SalonParam = "salonID"

// Middleware enforces the role policy and salon scoping.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware wraps an enforcer.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// AuthorizeRequest checks the caller's role against the request path and,
// on salon routes, that the caller belongs to the salon. It must run after
// routing so the salon parameter is resolved; mount it with Router.With.
func (m *Middleware) AuthorizeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := auth.SubjectFromContext(r.Context())
		if subject == nil {
			writeError(w, http.StatusUnauthorized, models.ErrCodeUnauthorized, "authentication required")
			return
		}

		allowed, err := m.enforcer.Enforce(string(subject.Role), r.URL.Path, methodToAction(r.Method))
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("authorization error")
			writeError(w, http.StatusInternalServerError, models.ErrCodeInternal, "authorization failed")
			return
		}

		if salonID := chi.URLParam(r, SalonParam); allowed && salonID != "" {
			allowed = subject.CanAccessSalon(salonID)
		}
		if !allowed {
			metrics.AuthFailures.WithLabelValues("forbidden").Inc()
			logging.Ctx(r.Context()).Debug().Str("path", r.URL.Path).Msg("access denied")
			writeError(w, http.StatusForbidden, models.ErrCodeForbidden, "insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message},
	})
}
