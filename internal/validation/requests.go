// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package validation

// PlatformRequest holds the platform analytics query parameters. Zero means
// "use the server default" here and in SecurityRequest.
type PlatformRequest struct {
	WindowDays int `query:"window_days" validate:"gte=0,lte=730"`
}

// SecurityRequest holds the security monitoring query parameters.
type SecurityRequest struct {
	WindowHours       int `query:"window_hours" validate:"gte=0,lte=720"`
	EventsLimit       int `query:"events_limit" validate:"gte=0,lte=500"`
	SessionsLimit     int `query:"sessions_limit" validate:"gte=0,lte=500"`
	AccessLimit       int `query:"access_limit" validate:"gte=0,lte=500"`
	RateLimitLimit    int `query:"rate_limit_limit" validate:"gte=0,lte=500"`
	FailedLoginsLimit int `query:"failed_logins_limit" validate:"gte=0,lte=500"`
	IncidentsLimit    int `query:"incidents_limit" validate:"gte=0,lte=500"`
}

// SalonRequest identifies a salon from the URL path.
type SalonRequest struct {
	SalonID string `query:"salonID" validate:"required,uuid"`
}

// CustomerRequest identifies one customer of a salon.
type CustomerRequest struct {
	SalonID    string `query:"salonID" validate:"required,uuid"`
	CustomerID string `query:"customerID" validate:"required,uuid"`
}

// TokenRequest is the body of the development token endpoint.
type TokenRequest struct {
	Subject string `json:"subject" validate:"required,min=1,max=128"`
	Role    string `json:"role" validate:"required,oneof=platform_admin salon_owner staff"`
	SalonID string `json:"salon_id" validate:"required_unless=Role platform_admin,optional_uuid"`
}
