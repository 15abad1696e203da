// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salonpulse/internal/auth"
	"github.com/tomtom215/salonpulse/internal/authz"
	"github.com/tomtom215/salonpulse/internal/cache"
	"github.com/tomtom215/salonpulse/internal/config"
	"github.com/tomtom215/salonpulse/internal/database"
	"github.com/tomtom215/salonpulse/internal/insights"
	"github.com/tomtom215/salonpulse/internal/models"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	salonA     = "6f1c2b44-2d7e-4a53-9b1e-0c3f8a1d2e01"
	salonB     = "6f1c2b44-2d7e-4a53-9b1e-0c3f8a1d2e02"
	customer1  = "0a7d1e55-8f2c-4b6a-a1d3-5e9c7b2f4d01"
)

// fakeService records the options it receives and returns canned data.
type fakeService struct {
	mu       sync.Mutex
	platform insights.PlatformOptions
	security insights.SecurityOptions
	cached   bool
	err      error
	countErr error
}

func (f *fakeService) PlatformSnapshot(_ context.Context, opts insights.PlatformOptions) (models.PlatformSnapshot, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.platform = opts
	return models.PlatformSnapshot{PartialSources: []string{}}, f.cached, f.err
}

func (f *fakeService) SecuritySnapshot(_ context.Context, opts insights.SecurityOptions) (models.SecuritySnapshot, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.security = opts
	return models.SecuritySnapshot{PartialSources: []string{"incidents"}}, false, f.err
}

func (f *fakeService) CustomerInsights(_ context.Context, salonID string) (models.CustomerInsights, bool, error) {
	if salonID == salonB {
		return models.CustomerInsights{}, false, database.ErrNotFound
	}
	return models.CustomerInsights{SalonID: salonID, PartialSources: []string{}}, f.cached, f.err
}

func (f *fakeService) CustomerChurn(_ context.Context, salonID, customerID string) (insights.ChurnReport, error) {
	return insights.ChurnReport{
		SalonID:    salonID,
		CustomerID: customerID,
		ChurnRisk:  models.ChurnRisk{RiskLevel: models.RiskLow, Factors: []string{}},
	}, f.err
}

func (f *fakeService) CustomerLifetimeValue(_ context.Context, _ string, customerID string) (models.LifetimeValue, error) {
	return models.LifetimeValue{CustomerID: customerID, TotalRevenue: 120}, f.err
}

func (f *fakeService) TotalCount(_ context.Context, table string) (database.CountResult, error) {
	if f.countErr != nil {
		return database.CountResult{}, f.countErr
	}
	return database.CountResult{Total: 42, Exact: table == "customers"}, nil
}

func (f *fakeService) CacheStats() cache.Stats {
	return cache.Stats{Hits: 3, Misses: 1, Keys: 2}
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

var errDown = errors.New("database down")

type testServer struct {
	handler http.Handler
	jwt     *auth.JWTManager
	service *fakeService
}

func newTestServer(t *testing.T, opts ...func(*ChiMiddlewareConfig)) *testServer {
	t.Helper()
	return buildTestServer(t, true, opts...)
}

func buildTestServer(t *testing.T, devTokens bool, opts ...func(*ChiMiddlewareConfig)) *testServer {
	t.Helper()

	jwtManager, err := auth.NewJWTManager(&config.AuthConfig{JWTSecret: testSecret, Issuer: "salonpulse", TokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	enforcer, err := authz.NewEnforcer(authz.EnforcerConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}

	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	for _, opt := range opts {
		opt(mwCfg)
	}

	service := &fakeService{}
	handler := NewHandler(service, fakePinger{}, jwtManager, &config.Config{})
	router := NewRouter(handler, NewChiMiddleware(mwCfg), auth.NewMiddleware(jwtManager), authz.NewMiddleware(enforcer), devTokens)
	return &testServer{handler: router.SetupChi(), jwt: jwtManager, service: service}
}

func (s *testServer) token(t *testing.T, role auth.Role, salonID string) string {
	t.Helper()
	token, _, err := s.jwt.GenerateToken("tester", role, salonID)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// envelope decodes the response envelope, keeping data raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func newRecorder() *httptest.ResponseRecorder { return httptest.NewRecorder() }

func newRequest(method, path string) *http.Request { return httptest.NewRequest(method, path, nil) }
