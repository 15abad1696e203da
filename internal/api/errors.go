// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/salonpulse/internal/database"
	"github.com/tomtom215/salonpulse/internal/insights"
	"github.com/tomtom215/salonpulse/internal/models"
)

// errorStatus maps a service error onto an HTTP status and API error code.
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, insights.ErrInvalidSalon):
		return http.StatusBadRequest, models.ErrCodeValidation, "Invalid salon id"
	case errors.Is(err, insights.ErrInvalidCustomer):
		return http.StatusBadRequest, models.ErrCodeValidation, "Invalid customer id"
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound, models.ErrCodeNotFound, "Salon not found"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, models.ErrCodeInternal, "Timed out while loading analytics data"
	default:
		return http.StatusInternalServerError, models.ErrCodeInternal, "Failed to load analytics data"
	}
}
