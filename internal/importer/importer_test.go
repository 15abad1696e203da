// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package importer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/salonpulse/internal/config"
	"github.com/tomtom215/salonpulse/internal/database"
	"github.com/tomtom215/salonpulse/internal/metrics"
	"github.com/tomtom215/salonpulse/internal/models"
)

var testNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func openDuckDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countRows(t *testing.T, db *database.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.Conn().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// The legacy layout matches the DuckDB tables, so a seeded DuckDB stands in
// for the MySQL source.
func TestImporterCopiesAllTables(t *testing.T) {
	ctx := context.Background()
	source := openDuckDB(t)
	if err := source.SeedDemoData(ctx, testNow); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}
	sink := openDuckDB(t)

	before := testutil.ToFloat64(metrics.ImporterRows.WithLabelValues("appointments"))
	var progress bytes.Buffer
	stats, err := New(source.Conn(), sink, Options{BatchSize: 37, Progress: &progress}).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	tables := []string{"salons", "customers", "appointments", "transactions", "reviews"}
	if len(stats.Tables) != len(tables) {
		t.Fatalf("stats tables = %+v", stats.Tables)
	}
	for i, table := range tables {
		want := countRows(t, source, table)
		if got := countRows(t, sink, table); got != want {
			t.Errorf("%s rows = %d, want %d", table, got, want)
		}
		if stats.Tables[i].Table != table || stats.Tables[i].Rows != want {
			t.Errorf("stats[%d] = %+v, want %s with %d rows", i, stats.Tables[i], table, want)
		}
	}

	added := testutil.ToFloat64(metrics.ImporterRows.WithLabelValues("appointments")) - before
	if int64(added) != countRows(t, source, "appointments") {
		t.Errorf("importer rows metric delta = %v", added)
	}
	if progress.Len() == 0 {
		t.Error("expected progress output")
	}

	// A second run replaces rows instead of duplicating them.
	if _, err := New(source.Conn(), sink, Options{BatchSize: 500}).Run(ctx); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if got, want := countRows(t, sink, "appointments"), countRows(t, source, "appointments"); got != want {
		t.Errorf("rerun appointments = %d, want %d", got, want)
	}
}

func TestImporterNormalizesValues(t *testing.T) {
	ctx := context.Background()
	source := openDuckDB(t)
	sink := openDuckDB(t)

	for _, stmt := range []string{
		`INSERT INTO appointments (id, salon_id, customer_id, start_time, status, total_price)
		 VALUES ('a1', 's1', 'c1', TIMESTAMP '2024-06-01 10:00:00', 'Canceled', NULL)`,
		`INSERT INTO reviews (id, salon_id, customer_id, rating, created_at)
		 VALUES ('r1', 's1', 'c1', 9, TIMESTAMP '2024-06-02 10:00:00')`,
		`INSERT INTO transactions (id, salon_id, customer_id, amount, type, created_at)
		 VALUES ('t1', 's1', 'c1', 40, 'REFUNDED', TIMESTAMP '2024-06-02 10:00:00')`,
	} {
		if _, err := source.Conn().ExecContext(ctx, stmt); err != nil {
			t.Fatalf("seed source: %v", err)
		}
	}

	if _, err := New(source.Conn(), sink, Options{}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var status string
	if err := sink.Conn().QueryRow("SELECT status FROM appointments WHERE id = 'a1'").Scan(&status); err != nil {
		t.Fatalf("read appointment: %v", err)
	}
	if status != string(models.StatusCancelled) {
		t.Errorf("status = %q, want %q", status, models.StatusCancelled)
	}

	var rating int
	if err := sink.Conn().QueryRow("SELECT rating FROM reviews WHERE id = 'r1'").Scan(&rating); err != nil {
		t.Fatalf("read review: %v", err)
	}
	if rating != 5 {
		t.Errorf("rating = %d, want clamped 5", rating)
	}

	var kind string
	if err := sink.Conn().QueryRow("SELECT type FROM transactions WHERE id = 't1'").Scan(&kind); err != nil {
		t.Fatalf("read transaction: %v", err)
	}
	if kind != string(models.TransactionRefund) {
		t.Errorf("type = %q, want %q", kind, models.TransactionRefund)
	}
}

type recordingSink struct {
	salonCalls []int
	failOn     string
}

func (r *recordingSink) InsertSalons(_ context.Context, salons []models.SalonDetail, _ time.Time) error {
	r.salonCalls = append(r.salonCalls, len(salons))
	return nil
}

func (r *recordingSink) InsertCustomers(context.Context, []models.CustomerProfile) error {
	if r.failOn == "customers" {
		return errors.New("disk full")
	}
	return nil
}

func (r *recordingSink) InsertAppointments(context.Context, []models.Appointment) error { return nil }
func (r *recordingSink) InsertTransactions(context.Context, []models.Transaction) error { return nil }
func (r *recordingSink) InsertReviews(context.Context, []models.Review) error           { return nil }

func TestWriteSalonsGroupsByCreatedAt(t *testing.T) {
	sink := &recordingSink{}
	day1 := testNow.AddDate(0, 0, -2)
	day2 := testNow.AddDate(0, 0, -1)
	rows := []salonRow{
		{detail: models.SalonDetail{ID: "a"}, createdAt: day1},
		{detail: models.SalonDetail{ID: "b"}, createdAt: day1},
		{detail: models.SalonDetail{ID: "c"}, createdAt: day2},
		{detail: models.SalonDetail{ID: "d"}, createdAt: day1},
	}
	imp := New(nil, sink, Options{})
	if err := imp.writeSalons(context.Background(), rows); err != nil {
		t.Fatalf("writeSalons: %v", err)
	}
	want := []int{2, 1, 1}
	if len(sink.salonCalls) != len(want) {
		t.Fatalf("InsertSalons calls = %v, want %v", sink.salonCalls, want)
	}
	for i := range want {
		if sink.salonCalls[i] != want[i] {
			t.Errorf("call %d size = %d, want %d", i, sink.salonCalls[i], want[i])
		}
	}
}

func TestImporterStopsOnSinkError(t *testing.T) {
	ctx := context.Background()
	source := openDuckDB(t)
	if err := source.SeedDemoData(ctx, testNow); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}

	stats, err := New(source.Conn(), &recordingSink{failOn: "customers"}, Options{}).Run(ctx)
	if err == nil {
		t.Fatal("expected an error from the failing sink")
	}
	if len(stats.Tables) != 2 || stats.Tables[1].Table != "customers" {
		t.Errorf("stats = %+v, want to stop at customers", stats.Tables)
	}
}

func TestImporterCanceled(t *testing.T) {
	source := openDuckDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(source.Conn(), &recordingSink{}, Options{}).Run(ctx); err == nil {
		t.Error("expected an error for a canceled context")
	}
}
