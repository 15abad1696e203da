// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/salonpulse/internal/models"
)

const (
	salonID    = "6f1c2b1e-2a4d-4a55-9f43-0d2b7c1e9a10"
	customerID = "0b7e5a4c-91d2-4f3e-8a6b-5c4d3e2f1a00"
)

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     any
		wantField string
		wantTag   string
	}{
		{"platform default", &PlatformRequest{}, "", ""},
		{"platform max", &PlatformRequest{WindowDays: 730}, "", ""},
		{"platform too wide", &PlatformRequest{WindowDays: 731}, "window_days", "lte"},
		{"platform negative", &PlatformRequest{WindowDays: -1}, "window_days", "gte"},
		{"security ok", &SecurityRequest{WindowHours: 48, EventsLimit: 60}, "", ""},
		{"security limit", &SecurityRequest{IncidentsLimit: 501}, "incidents_limit", "lte"},
		{"salon ok", &SalonRequest{SalonID: salonID}, "", ""},
		{"salon missing", &SalonRequest{}, "salonID", "required"},
		{"salon malformed", &SalonRequest{SalonID: "salon-1"}, "salonID", "uuid"},
		{"customer ok", &CustomerRequest{SalonID: salonID, CustomerID: customerID}, "", ""},
		{"customer malformed", &CustomerRequest{SalonID: salonID, CustomerID: "42"}, "customerID", "uuid"},
		{"admin token without salon", &TokenRequest{Subject: "ops", Role: "platform_admin"}, "", ""},
		{"owner token needs salon", &TokenRequest{Subject: "ana", Role: "salon_owner"}, "salon_id", "required_unless"},
		{"staff token bad salon", &TokenRequest{Subject: "sam", Role: "staff", SalonID: "x"}, "salon_id", "optional_uuid"},
		{"staff token", &TokenRequest{Subject: "sam", Role: "staff", SalonID: salonID}, "", ""},
		{"unknown role", &TokenRequest{Subject: "eve", Role: "root"}, "role", "oneof"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("expected %s/%s failure", tt.wantField, tt.wantTag)
			}
			first := verr.Errors()[0]
			if first.Field() != tt.wantField || first.Tag() != tt.wantTag {
				t.Errorf("got %s/%s, want %s/%s", first.Field(), first.Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		verr := ValidateStruct(&PlatformRequest{WindowDays: 1000})
		apiErr := verr.ToAPIError()
		if apiErr.Code != models.ErrCodeValidation {
			t.Errorf("code = %q", apiErr.Code)
		}
		if apiErr.Message != "window_days must be less than or equal to 730" {
			t.Errorf("message = %q", apiErr.Message)
		}
		if apiErr.Details["field"] != "window_days" {
			t.Errorf("details = %v", apiErr.Details)
		}
	})

	t.Run("multiple", func(t *testing.T) {
		verr := ValidateStruct(&CustomerRequest{SalonID: "a", CustomerID: "b"})
		apiErr := verr.ToAPIError()
		fields, ok := apiErr.Details["fields"].([]map[string]any)
		if !ok || len(fields) != 2 {
			t.Fatalf("fields = %#v", apiErr.Details["fields"])
		}
		if !strings.Contains(apiErr.Message, "salonID: ") || !strings.Contains(apiErr.Message, "customerID: ") {
			t.Errorf("message = %q", apiErr.Message)
		}
	})

	t.Run("empty", func(t *testing.T) {
		var verr RequestValidationError
		if verr.ToAPIError().Message != "Validation failed" || verr.Error() != "validation failed" {
			t.Error("empty error should use the generic message")
		}
	})
}
