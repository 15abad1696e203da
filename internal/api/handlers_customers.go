// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/salonpulse/internal/models"
	"github.com/tomtom215/salonpulse/internal/validation"
)

// CustomerInsights serves the customer report of the salon in the path.
func (h *Handler) CustomerInsights(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := validation.SalonRequest{SalonID: chi.URLParam(r, "salonID")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	snap, cached, err := h.service.CustomerInsights(r.Context(), req.SalonID)
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

func customerRequest(r *http.Request) (validation.CustomerRequest, *models.APIError) {
	req := validation.CustomerRequest{
		SalonID:    chi.URLParam(r, "salonID"),
		CustomerID: chi.URLParam(r, "customerID"),
	}
	return req, validateRequest(&req)
}

// CustomerChurn serves the churn risk of one customer.
func (h *Handler) CustomerChurn(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, apiErr := customerRequest(r)
	if apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	report, err := h.service.CustomerChurn(r.Context(), req.SalonID, req.CustomerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, r, report, models.Metadata{QueryTimeMS: since(start)})
}

// CustomerLifetimeValue serves the realized and projected value of one
// customer.
func (h *Handler) CustomerLifetimeValue(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, apiErr := customerRequest(r)
	if apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	ltv, err := h.service.CustomerLifetimeValue(r.Context(), req.SalonID, req.CustomerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, r, ltv, models.Metadata{QueryTimeMS: since(start)})
}
