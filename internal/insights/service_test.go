// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package insights

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/salonpulse/internal/config"
	"github.com/tomtom215/salonpulse/internal/database"
	"github.com/tomtom215/salonpulse/internal/metrics"
	"github.com/tomtom215/salonpulse/internal/models"
)

var testNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

const (
	salonA    = "6f1c2b44-2d7e-4a53-9b1e-0c3f8a1d2e01"
	salonB    = "6f1c2b44-2d7e-4a53-9b1e-0c3f8a1d2e02"
	customer1 = "0a7d1e55-8f2c-4b6a-a1d3-5e9c7b2f4d01"
	customer2 = "0a7d1e55-8f2c-4b6a-a1d3-5e9c7b2f4d02"
)

var errSource = errors.New("source unavailable")

// fakeStore serves fixed data and fails the sources listed in failing.
type fakeStore struct {
	mu      sync.Mutex
	failing map[string]bool
	calls   map[string]int
	args    map[string][]any

	days    []models.PlatformDay
	users   []models.CustomerProfile
	daily   []models.DailyMetric
	details map[string]models.SalonDetail
	salons  map[string]bool

	appointments []models.Appointment
	transactions []models.Transaction
	reviews      []models.Review
	profiles     map[string]models.CustomerProfile

	events []models.AuditEvent
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		failing: make(map[string]bool),
		calls:   make(map[string]int),
		args:    make(map[string][]any),
		salons:  map[string]bool{salonA: true},
	}
}

func (f *fakeStore) record(source string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[source]++
	f.args[source] = args
	if f.failing[source] {
		return errSource
	}
	return nil
}

func (f *fakeStore) fail(sources ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range sources {
		f.failing[s] = true
	}
}

func (f *fakeStore) callCount(source string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[source]
}

func (f *fakeStore) lastArgs(source string) []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.args[source]
}

func (f *fakeStore) PlatformDays(_ context.Context, since time.Time) ([]models.PlatformDay, error) {
	return f.days, f.record(SourcePlatformDays, since)
}

func (f *fakeStore) NewUsers(_ context.Context, since time.Time, limit int) ([]models.CustomerProfile, error) {
	return f.users, f.record(SourceNewUsers, since, limit)
}

func (f *fakeStore) DailyMetrics(_ context.Context, since time.Time, limit int) ([]models.DailyMetric, error) {
	return f.daily, f.record(SourceDailyMetrics, since, limit)
}

func (f *fakeStore) SalonDetails(_ context.Context, ids []string) (map[string]models.SalonDetail, error) {
	return f.details, f.record(SourceSalonDetails, ids)
}

func (f *fakeStore) SalonExists(_ context.Context, salonID string) error {
	if err := f.record(SourceSalons, salonID); err != nil {
		return err
	}
	if !f.salons[salonID] {
		return database.ErrNotFound
	}
	return nil
}

func (f *fakeStore) SalonAppointments(_ context.Context, salonID string) ([]models.Appointment, error) {
	return f.appointments, f.record(SourceAppointments, salonID)
}

func (f *fakeStore) CustomerAppointments(_ context.Context, salonID, customerID string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appointments {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out, f.record(SourceAppointments, salonID, customerID)
}

func (f *fakeStore) SalonTransactions(_ context.Context, salonID string) ([]models.Transaction, error) {
	return f.transactions, f.record(SourceTransactions, salonID)
}

func (f *fakeStore) CustomerTransactions(_ context.Context, salonID, customerID string) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range f.transactions {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	return out, f.record(SourceTransactions, salonID, customerID)
}

func (f *fakeStore) SalonReviews(_ context.Context, salonID string) ([]models.Review, error) {
	return f.reviews, f.record(SourceReviews, salonID)
}

func (f *fakeStore) Profiles(_ context.Context, ids []string) (map[string]models.CustomerProfile, error) {
	return f.profiles, f.record(SourceProfiles, ids)
}

func (f *fakeStore) AuditEvents(_ context.Context, since time.Time, limit int) ([]models.AuditEvent, error) {
	return f.events, f.record(SourceAuditEvents, since, limit)
}

func (f *fakeStore) FailedLogins(_ context.Context, since time.Time, limit int) ([]models.AuditEvent, error) {
	return nil, f.record(SourceFailedLogins, since, limit)
}

func (f *fakeStore) AccessAttempts(_ context.Context, since time.Time, limit int) ([]models.AccessAttempt, error) {
	return nil, f.record(SourceAccessAttempts, since, limit)
}

func (f *fakeStore) SuspiciousSessions(_ context.Context, limit int) ([]models.SessionSecurity, error) {
	return nil, f.record(SourceSessions, limit)
}

func (f *fakeStore) RateLimitEntries(_ context.Context, limit int) ([]models.RateLimitEntry, error) {
	return nil, f.record(SourceRateLimits, limit)
}

func (f *fakeStore) Incidents(_ context.Context, since time.Time, limit int) ([]models.SecurityIncident, error) {
	return nil, f.record(SourceIncidents, since, limit)
}

type fakeCounter struct {
	result database.CountResult
	err    error
}

func (c fakeCounter) Count(context.Context, string) (database.CountResult, error) {
	return c.result, c.err
}

func testConfig() *config.Config {
	return &config.Config{
		Analytics: config.AnalyticsConfig{
			PlatformWindowDays: 90,
			TopSalons:          1,
			SegmentRules:       "decision_list",
			Workers:            2,
			AtRiskLimit:        20,
			TopCustomers:       10,
		},
		Insights: config.InsightsConfig{
			FetchTimeout:    time.Second,
			CacheTTL:        time.Minute,
			BreakerFailures: 3,
			BreakerTimeout:  time.Minute,
			MetricsLimit:    5000,
		},
	}
}

func newTestService(t *testing.T, store *fakeStore, counter database.Counter) *Service {
	t.Helper()
	s, err := New(store, counter, testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.now = func() time.Time { return testNow }
	return s
}

func TestNewRejectsUnknownRules(t *testing.T) {
	cfg := testConfig()
	cfg.Analytics.SegmentRules = "weighted"
	if _, err := New(newFakeStore(), fakeCounter{}, cfg); err == nil {
		t.Fatal("expected error for unknown segment rules")
	}
}

func TestPlatformSnapshotWindowFloor(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"default", 0, 90},
		{"raised to floor", 7, MinPlatformWindowDays},
		{"explicit", 120, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			s := newTestService(t, store, fakeCounter{result: database.CountResult{Total: 3, Exact: true}})

			snap, _, err := s.PlatformSnapshot(context.Background(), PlatformOptions{WindowDays: tt.in})
			if err != nil {
				t.Fatalf("PlatformSnapshot: %v", err)
			}
			wantStart := testNow.Add(-time.Duration(tt.want) * 24 * time.Hour)
			if !snap.Timeframe.Start.Equal(wantStart) {
				t.Errorf("window start = %v, want %v", snap.Timeframe.Start, wantStart)
			}
			if since := store.lastArgs(SourcePlatformDays)[0].(time.Time); !since.Equal(wantStart) {
				t.Errorf("platform days fetched since %v", since)
			}
		})
	}
}

func TestPlatformSnapshotPartialSources(t *testing.T) {
	store := newFakeStore()
	store.fail(SourceNewUsers)
	s := newTestService(t, store, fakeCounter{err: errSource})

	before := testutil.ToFloat64(metrics.SourceFailures.WithLabelValues("platform", SourceNewUsers))
	snap, cached, err := s.PlatformSnapshot(context.Background(), PlatformOptions{})
	if err != nil {
		t.Fatalf("PlatformSnapshot: %v", err)
	}
	if cached {
		t.Error("first build cannot be cached")
	}
	want := []string{SourceNewUsers, SourceTotalUsers}
	if !slices.Equal(snap.PartialSources, want) {
		t.Errorf("partial sources = %v, want %v", snap.PartialSources, want)
	}
	if snap.Acquisition.TotalUsersIsExact {
		t.Error("failed count must not be reported exact")
	}
	if got := testutil.ToFloat64(metrics.SourceFailures.WithLabelValues("platform", SourceNewUsers)) - before; got != 1 {
		t.Errorf("source failures delta = %v, want 1", got)
	}

	// Partial snapshots are rebuilt on the next request.
	if _, cached, _ := s.PlatformSnapshot(context.Background(), PlatformOptions{}); cached {
		t.Error("partial snapshot should not be cached")
	}
	if store.callCount(SourcePlatformDays) != 2 {
		t.Errorf("platform days fetched %d times, want 2", store.callCount(SourcePlatformDays))
	}
}

func TestPlatformSnapshotCachesCompleteResults(t *testing.T) {
	store := newFakeStore()
	s := newTestService(t, store, fakeCounter{result: database.CountResult{Total: 10, Exact: true}})

	if _, cached, _ := s.PlatformSnapshot(context.Background(), PlatformOptions{WindowDays: 60}); cached {
		t.Fatal("first call cached")
	}
	snap, cached, _ := s.PlatformSnapshot(context.Background(), PlatformOptions{WindowDays: 60})
	if !cached {
		t.Error("second call should hit the cache")
	}
	if snap.Acquisition.TotalUsers != 10 || !snap.Acquisition.TotalUsersIsExact {
		t.Errorf("acquisition totals = %+v", snap.Acquisition)
	}
	if store.callCount(SourcePlatformDays) != 1 {
		t.Errorf("platform days fetched %d times, want 1", store.callCount(SourcePlatformDays))
	}
	if s.Cache().Len() != 1 {
		t.Errorf("cache len = %d", s.Cache().Len())
	}
	if stats := s.CacheStats(); stats.Keys != 1 || stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("cache stats = %+v", stats)
	}
}

func TestPlatformSnapshotFetchesTopSalonDetailsOnly(t *testing.T) {
	store := newFakeStore()
	day := testNow.Add(-48 * time.Hour)
	store.daily = []models.DailyMetric{
		{SalonID: salonA, Date: day, TotalRevenue: 100},
		{SalonID: salonB, Date: day, TotalRevenue: 900},
	}
	store.details = map[string]models.SalonDetail{salonB: {ID: salonB, Name: "Top"}}
	s := newTestService(t, store, fakeCounter{})

	snap, _, _ := s.PlatformSnapshot(context.Background(), PlatformOptions{})
	ids := store.lastArgs(SourceSalonDetails)[0].([]string)
	if !slices.Equal(ids, []string{salonB}) {
		t.Errorf("details requested for %v, want only the top salon", ids)
	}
	if len(snap.Performance.TopSalons) != 1 || snap.Performance.TopSalons[0].SalonName != "Top" {
		t.Errorf("top salons = %+v", snap.Performance.TopSalons)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	store := newFakeStore()
	store.fail(SourceIncidents)
	s := newTestService(t, store, fakeCounter{})

	for i := range 5 {
		// Distinct options bypass the cache.
		snap, _, _ := s.SecuritySnapshot(context.Background(), SecurityOptions{EventsLimit: i + 1})
		if !slices.Contains(snap.PartialSources, SourceIncidents) {
			t.Fatalf("call %d: partial sources = %v", i, snap.PartialSources)
		}
	}
	if got := store.callCount(SourceIncidents); got != 3 {
		t.Errorf("incidents fetched %d times, want 3 before the breaker opened", got)
	}
	if s.breakers.state(SourceIncidents) != gobreaker.StateOpen {
		t.Errorf("breaker state = %v, want open", s.breakers.state(SourceIncidents))
	}
	if got := testutil.ToFloat64(metrics.BreakerState.WithLabelValues(SourceIncidents)); got != 2 {
		t.Errorf("breaker gauge = %v, want 2", got)
	}
	if store.callCount(SourceAuditEvents) != 5 {
		t.Error("healthy sources must keep being fetched")
	}
}

func TestSecuritySnapshotDefaults(t *testing.T) {
	store := newFakeStore()
	store.events = []models.AuditEvent{{ID: "e1", Action: "login", Severity: "high", CreatedAt: testNow.Add(-time.Hour)}}
	s := newTestService(t, store, fakeCounter{})

	snap, _, err := s.SecuritySnapshot(context.Background(), SecurityOptions{})
	if err != nil {
		t.Fatalf("SecuritySnapshot: %v", err)
	}
	if want := testNow.Add(-24 * time.Hour); !snap.Timeframe.Start.Equal(want) {
		t.Errorf("window start = %v, want %v", snap.Timeframe.Start, want)
	}
	limits := map[string]int{
		SourceAuditEvents:    DefaultEventsLimit,
		SourceFailedLogins:   DefaultFailedLoginsLimit,
		SourceAccessAttempts: DefaultAccessLimit,
		SourceIncidents:      DefaultIncidentsLimit,
	}
	for source, want := range limits {
		if got := store.lastArgs(source)[1].(int); got != want {
			t.Errorf("%s limit = %d, want %d", source, got, want)
		}
	}
	if got := store.lastArgs(SourceSessions)[0].(int); got != DefaultSessionsLimit {
		t.Errorf("sessions limit = %d", got)
	}
	if got := store.lastArgs(SourceRateLimits)[0].(int); got != DefaultRateLimitLimit {
		t.Errorf("rate limit limit = %d", got)
	}
	if len(snap.RecentEvents) != 1 || len(snap.PartialSources) != 0 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestTotalCount(t *testing.T) {
	s := newTestService(t, newFakeStore(), fakeCounter{result: database.CountResult{Total: 50, Exact: false}})
	got, err := s.TotalCount(context.Background(), "customers")
	if err != nil || got.Total != 50 || got.Exact {
		t.Errorf("TotalCount = %+v, %v", got, err)
	}
}
