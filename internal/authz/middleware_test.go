// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/salonpulse/internal/auth"
)

const (
	salonA = "6f1c2b1e-2a4d-4a55-9f43-0d2b7c1e9a10"
	salonB = "9a0e7c3d-5b6f-4c21-8d3e-2f1a0b9c8d7e"
)

func TestAuthorizeRequest(t *testing.T) {
	e, err := NewEnforcer(EnforcerConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	mw := NewMiddleware(e)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r := chi.NewRouter()
	r.With(mw.AuthorizeRequest).Get("/api/v1/platform/analytics", ok)
	r.With(mw.AuthorizeRequest).Get("/api/v1/salons/{salonID}/customers/insights", ok)

	tests := []struct {
		name    string
		subject *auth.AuthSubject
		path    string
		want    int
	}{
		{"no subject", nil, "/api/v1/platform/analytics", http.StatusUnauthorized},
		{"admin platform", &auth.AuthSubject{ID: "a", Role: auth.RolePlatformAdmin}, "/api/v1/platform/analytics", http.StatusOK},
		{"owner platform", &auth.AuthSubject{ID: "o", Role: auth.RoleSalonOwner, SalonID: salonA}, "/api/v1/platform/analytics", http.StatusForbidden},
		{"owner own salon", &auth.AuthSubject{ID: "o", Role: auth.RoleSalonOwner, SalonID: salonA}, "/api/v1/salons/" + salonA + "/customers/insights", http.StatusOK},
		{"owner other salon", &auth.AuthSubject{ID: "o", Role: auth.RoleSalonOwner, SalonID: salonA}, "/api/v1/salons/" + salonB + "/customers/insights", http.StatusForbidden},
		{"staff own salon", &auth.AuthSubject{ID: "s", Role: auth.RoleStaff, SalonID: salonB}, "/api/v1/salons/" + salonB + "/customers/insights", http.StatusOK},
		{"admin any salon", &auth.AuthSubject{ID: "a", Role: auth.RolePlatformAdmin}, "/api/v1/salons/" + salonB + "/customers/insights", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.subject != nil {
				req = req.WithContext(auth.ContextWithSubject(req.Context(), tt.subject))
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
