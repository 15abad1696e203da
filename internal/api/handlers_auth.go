// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salonpulse/internal/auth"
	"github.com/tomtom215/salonpulse/internal/logging"
	"github.com/tomtom215/salonpulse/internal/models"
	"github.com/tomtom215/salonpulse/internal/validation"
)

// maxTokenRequestBytes caps the token request body.
const maxTokenRequestBytes = 4 << 10

// TokenResponse is returned by IssueToken.
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      auth.Role `json:"role"`
	SalonID   string    `json:"salon_id,omitempty"`
}

// IssueToken signs a bearer token for local development. The route is only
// mounted when auth.mode is dev.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	if h.jwtManager == nil {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Token issuing is disabled", nil)
		return
	}

	var req validation.TokenRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxTokenRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Request body must be a JSON object", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	role, err := auth.ParseRole(req.Role)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	token, expiresAt, err := h.jwtManager.GenerateToken(req.Subject, role, req.SalonID)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("subject", logSubject(req.Subject)).
		Str("role", string(role)).
		Msg("Issued development token")

	resp := TokenResponse{Token: token, TokenType: "Bearer", ExpiresAt: expiresAt, Role: role}
	if role.SalonScoped() {
		resp.SalonID = req.SalonID
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     resp,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// logSubject masks subjects that are email addresses.
func logSubject(subject string) string {
	if strings.Contains(subject, "@") {
		return logging.RedactEmail(sanitizeLogValue(subject))
	}
	return sanitizeLogValue(subject)
}
