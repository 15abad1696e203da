// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salonpulse/internal/auth"
	"github.com/tomtom215/salonpulse/internal/insights"
	"github.com/tomtom215/salonpulse/internal/logging"
	"github.com/tomtom215/salonpulse/internal/models"
)

func TestHealthProbes(t *testing.T) {
	srv := newTestServer(t)
	if rec := srv.do(t, http.MethodGet, "/api/v1/health/live", "", ""); rec.Code != http.StatusOK {
		t.Errorf("live = %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodGet, "/api/v1/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Errorf("ready = %d", rec.Code)
	}

	h := NewHandler(&fakeService{}, fakePinger{err: errDown}, nil, nil)
	rec := newRecorder()
	h.HealthReady(rec, newRequest(http.MethodGet, "/api/v1/health/ready"))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready with database down = %d, want 503", rec.Code)
	}
	if env := decode(t, rec); env.Status != "not_ready" {
		t.Errorf("status = %q", env.Status)
	}
}

func TestHealthReadyReportsTotals(t *testing.T) {
	h := NewHandler(&fakeService{}, fakePinger{}, nil, nil)
	rec := newRecorder()
	h.HealthReady(rec, newRequest(http.MethodGet, "/api/v1/health/ready"))
	if rec.Code != http.StatusOK {
		t.Fatalf("ready = %d", rec.Code)
	}
	var data struct {
		Customers *struct {
			Total int64 `json:"total"`
			Exact bool  `json:"exact"`
		} `json:"customers"`
		Cache struct {
			Hits int64 `json:"hits"`
			Keys int   `json:"keys"`
		} `json:"cache"`
	}
	if err := json.Unmarshal(decode(t, rec).Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Customers == nil || data.Customers.Total != 42 || !data.Customers.Exact {
		t.Errorf("customers = %+v", data.Customers)
	}
	if data.Cache.Hits != 3 || data.Cache.Keys != 2 {
		t.Errorf("cache = %+v", data.Cache)
	}

	h = NewHandler(&fakeService{countErr: errDown}, fakePinger{}, nil, nil)
	rec = newRecorder()
	h.HealthReady(rec, newRequest(http.MethodGet, "/api/v1/health/ready"))
	if rec.Code != http.StatusOK {
		t.Errorf("count failure should not fail readiness, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), `"customers"`) {
		t.Errorf("customers reported despite count error: %s", rec.Body.String())
	}
}

func TestPlatformAnalyticsParameters(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.token(t, auth.RolePlatformAdmin, "")

	tests := []struct {
		query      string
		wantStatus int
		wantWindow int
	}{
		{"", http.StatusOK, 0},
		{"?window_days=45", http.StatusOK, 45},
		{"?window_days=abc", http.StatusBadRequest, 0},
		{"?window_days=-1", http.StatusBadRequest, 0},
		{"?window_days=1000", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			srv.service.platform = insights.PlatformOptions{}
			rec := srv.do(t, http.MethodGet, "/api/v1/platform/analytics"+tt.query, admin, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK && srv.service.platform.WindowDays != tt.wantWindow {
				t.Errorf("window = %d, want %d", srv.service.platform.WindowDays, tt.wantWindow)
			}
			if tt.wantStatus == http.StatusBadRequest {
				if env := decode(t, rec); env.Error.Code != models.ErrCodeValidation {
					t.Errorf("code = %q", env.Error.Code)
				}
			}
		})
	}
}

func TestPlatformSecurityPassesLimits(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.token(t, auth.RolePlatformAdmin, "")

	rec := srv.do(t, http.MethodGet, "/api/v1/platform/security?window_hours=48&events_limit=10&incidents_limit=5", admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	got := srv.service.security
	if got.WindowHours != 48 || got.EventsLimit != 10 || got.IncidentsLimit != 5 || got.SessionsLimit != 0 {
		t.Errorf("options = %+v", got)
	}
	env := decode(t, rec)
	if !slices.Equal(env.Metadata.Partial, []string{"incidents"}) {
		t.Errorf("metadata partial = %v", env.Metadata.Partial)
	}

	if rec := srv.do(t, http.MethodGet, "/api/v1/platform/security?events_limit=501", admin, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("oversized limit status = %d", rec.Code)
	}
}

func TestConditionalRequests(t *testing.T) {
	srv := newTestServer(t)
	srv.service.cached = true
	owner := srv.token(t, auth.RoleSalonOwner, salonA)
	path := "/api/v1/salons/" + salonA + "/customers/insights"

	first := srv.do(t, http.MethodGet, path, owner, "")
	etag := first.Header().Get("ETag")
	if first.Code != http.StatusOK || len(etag) < 4 || etag[:2] != "W/" {
		t.Fatalf("status = %d, ETag = %q", first.Code, etag)
	}
	env := decode(t, first)
	if !env.Metadata.Cached {
		t.Error("metadata.cached should reflect the service")
	}
	var data models.CustomerInsights
	if err := json.Unmarshal(env.Data, &data); err != nil || data.SalonID != salonA {
		t.Errorf("data = %s, err %v", env.Data, err)
	}

	second := srv.do(t, http.MethodGet, path, owner, "", "If-None-Match", etag)
	if second.Code != http.StatusNotModified {
		t.Fatalf("revalidation status = %d, want 304", second.Code)
	}
	if second.Body.Len() != 0 {
		t.Error("304 must not carry a body")
	}

	third := srv.do(t, http.MethodGet, path, owner, "", "If-None-Match", `W/"deadbeef"`)
	if third.Code != http.StatusOK {
		t.Errorf("stale etag status = %d", third.Code)
	}
}

func TestEtagMatches(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{`W/"abc"`, true},
		{`"abc"`, true},
		{`W/"x", W/"abc"`, true},
		{"*", true},
		{`W/"abd"`, false},
	}
	for _, tt := range tests {
		if got := etagMatches(tt.header, `W/"abc"`); got != tt.want {
			t.Errorf("etagMatches(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{insights.ErrInvalidSalon, http.StatusBadRequest},
		{insights.ErrInvalidCustomer, http.StatusBadRequest},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			srv := newTestServer(t)
			srv.service.err = tt.err
			owner := srv.token(t, auth.RoleSalonOwner, salonA)
			rec := srv.do(t, http.MethodGet, "/api/v1/salons/"+salonA+"/customers/"+customer1+"/churn", owner, "")
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestIssueToken(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"admin", `{"subject":"ops","role":"platform_admin"}`, http.StatusOK},
		{"owner with salon", `{"subject":"ann","role":"salon_owner","salon_id":"` + salonA + `"}`, http.StatusOK},
		{"owner without salon", `{"subject":"ann","role":"salon_owner"}`, http.StatusBadRequest},
		{"owner with bad salon", `{"subject":"ann","role":"salon_owner","salon_id":"abc"}`, http.StatusBadRequest},
		{"unknown role", `{"subject":"x","role":"root"}`, http.StatusBadRequest},
		{"not json", `subject=x`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/api/v1/auth/token", "", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want != http.StatusOK {
				return
			}
			var resp TokenResponse
			if err := json.Unmarshal(decode(t, rec).Data, &resp); err != nil {
				t.Fatalf("decode token: %v", err)
			}
			subject, err := srv.jwt.ValidateToken(resp.Token)
			if err != nil {
				t.Fatalf("issued token does not validate: %v", err)
			}
			if string(subject.Role) != string(resp.Role) {
				t.Errorf("role = %s, want %s", subject.Role, resp.Role)
			}
		})
	}
}

func TestIssueTokenRedactsEmailSubject(t *testing.T) {
	srv := newTestServer(t)
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "info", Format: "json", Output: &buf})
	defer logging.Init(logging.DefaultConfig())

	rec := srv.do(t, http.MethodPost, "/api/v1/auth/token", "", `{"subject":"ann@example.com","role":"platform_admin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	out := buf.String()
	if !strings.Contains(out, `"subject":"a***@example.com"`) || strings.Contains(out, "ann@example.com") {
		t.Errorf("subject not redacted: %s", out)
	}
	if logSubject("ops") != "ops" {
		t.Errorf("plain subject changed: %q", logSubject("ops"))
	}
}

func TestTokenRouteDisabledOutsideDevMode(t *testing.T) {
	srv := buildTestServer(t, false)
	rec := srv.do(t, http.MethodPost, "/api/v1/auth/token", "", `{"subject":"ops","role":"platform_admin"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
