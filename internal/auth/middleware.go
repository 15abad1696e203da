// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salonpulse/internal/logging"
	"github.com/tomtom215/salonpulse/internal/metrics"
	"github.com/tomtom215/salonpulse/internal/models"
)

// Middleware rejects requests without a valid bearer token.
type Middleware struct {
	jwt *JWTManager
}

// NewMiddleware wraps a JWT manager.
func NewMiddleware(jwtManager *JWTManager) *Middleware {
	return &Middleware{jwt: jwtManager}
}

// Authenticate verifies the bearer token and stores the caller on the context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			metrics.AuthFailures.WithLabelValues("missing_token").Inc()
			writeUnauthorized(w, "authentication required")
			return
		}

		subject, err := m.jwt.ValidateToken(token)
		if err != nil {
			reason := "invalid_token"
			if errors.Is(err, ErrExpiredCredentials) {
				reason = "expired_token"
			}
			metrics.AuthFailures.WithLabelValues(reason).Inc()
			logging.Ctx(r.Context()).Debug().Err(err).Str("token", logging.RedactToken(token)).Msg("token rejected")
			writeUnauthorized(w, "invalid or expired token")
			return
		}

		ctx := ContextWithSubject(r.Context(), subject)
		l := logging.LoggerFromContext(ctx).With().Str("subject", subject.ID).Str("role", string(subject.Role)).Logger()
		ctx = logging.ContextWithLogger(ctx, l)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoCredentials
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrNoCredentials
	}
	return strings.TrimSpace(token), nil
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="salonpulse"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: models.ErrCodeUnauthorized, Message: message},
	})
}
