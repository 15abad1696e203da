// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package importer

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/tomtom215/salonpulse/internal/logging"
	"github.com/tomtom215/salonpulse/internal/metrics"
	"github.com/tomtom215/salonpulse/internal/models"
)

// DefaultBatchSize is used when Options.BatchSize is not positive.
const DefaultBatchSize = 1000

// Sink receives copied rows. *database.DB satisfies it.
type Sink interface {
	InsertSalons(ctx context.Context, salons []models.SalonDetail, createdAt time.Time) error
	InsertCustomers(ctx context.Context, customers []models.CustomerProfile) error
	InsertAppointments(ctx context.Context, appointments []models.Appointment) error
	InsertTransactions(ctx context.Context, transactions []models.Transaction) error
	InsertReviews(ctx context.Context, reviews []models.Review) error
}

// Options configures an import run.
type Options struct {
	BatchSize int

	// Progress receives per-table progress bars. Nil disables them.
	Progress io.Writer
}

// TableStats summarizes one copied table.
type TableStats struct {
	Table    string        `json:"table"`
	Rows     int64         `json:"rows"`
	Duration time.Duration `json:"duration"`
}

// Stats summarizes an import run.
type Stats struct {
	Tables    []TableStats `json:"tables"`
	StartTime time.Time    `json:"start_time"`
	EndTime   time.Time    `json:"end_time"`
}

// Rows is the total number of rows copied across tables.
func (s *Stats) Rows() int64 {
	var n int64
	for _, t := range s.Tables {
		n += t.Rows
	}
	return n
}

// Duration is the wall time of the run.
func (s *Stats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Importer copies legacy tables into a Sink.
type Importer struct {
	source    *sql.DB
	sink      Sink
	batchSize int
	progress  io.Writer
}

// Open connects to the legacy MySQL database.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	driverDSN, err := DriverDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", driverDSN)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping source: %w", err)
	}
	return db, nil
}

// New creates an importer reading from source. source may be any database
// with the legacy table layout.
func New(source *sql.DB, sink Sink, opts Options) *Importer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	return &Importer{
		source:    source,
		sink:      sink,
		batchSize: opts.BatchSize,
		progress:  opts.Progress,
	}
}

// Run copies every table. It stops at the first failing table and returns
// the stats gathered so far.
func (i *Importer) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	defer func() { stats.EndTime = time.Now() }()

	steps := []func(context.Context) (TableStats, error){
		func(ctx context.Context) (TableStats, error) {
			return copyTable(ctx, i, "salons", salonColumns, scanSalon, i.writeSalons)
		},
		func(ctx context.Context) (TableStats, error) {
			return copyTable(ctx, i, "customers", customerColumns, scanCustomer, i.sink.InsertCustomers)
		},
		func(ctx context.Context) (TableStats, error) {
			return copyTable(ctx, i, "appointments", appointmentColumns, scanAppointment, i.sink.InsertAppointments)
		},
		func(ctx context.Context) (TableStats, error) {
			return copyTable(ctx, i, "transactions", transactionColumns, scanTransaction, i.sink.InsertTransactions)
		},
		func(ctx context.Context) (TableStats, error) {
			return copyTable(ctx, i, "reviews", reviewColumns, scanReview, i.sink.InsertReviews)
		},
	}

	for _, step := range steps {
		ts, err := step(ctx)
		stats.Tables = append(stats.Tables, ts)
		if err != nil {
			return stats, err
		}
	}

	logging.Info().
		Int64("rows", stats.Rows()).
		Dur("duration", time.Since(stats.StartTime)).
		Msg("Import completed")
	return stats, nil
}

// writeSalons groups a page by created_at since the sink takes one
// timestamp per call.
func (i *Importer) writeSalons(ctx context.Context, rows []salonRow) error {
	var (
		run   []models.SalonDetail
		runAt time.Time
	)
	for idx, r := range rows {
		if idx > 0 && !r.createdAt.Equal(runAt) {
			if err := i.sink.InsertSalons(ctx, run, runAt); err != nil {
				return err
			}
			run = run[:0]
		}
		run = append(run, r.detail)
		runAt = r.createdAt
	}
	return i.sink.InsertSalons(ctx, run, runAt)
}

func (i *Importer) count(ctx context.Context, table string) (int64, error) {
	var n int64
	err := i.source.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	return n, err
}

func (i *Importer) newBar(table string, total int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(i.progress),
		progressbar.OptionSetDescription(fmt.Sprintf("%-12s", table)),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(i.progress) }),
	)
}

func copyTable[T any](ctx context.Context, i *Importer, table, columns string, scan func(rowScanner) (T, string, error), write func(context.Context, []T) error) (ts TableStats, err error) {
	ts.Table = table
	start := time.Now()
	defer func() { ts.Duration = time.Since(start) }()

	total, err := i.count(ctx, table)
	if err != nil {
		return ts, fmt.Errorf("count %s: %w", table, err)
	}
	bar := i.newBar(table, total)
	query := pageQuery(table, columns)

	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return ts, err
		}
		page, last, err := readPage(ctx, i.source, query, after, i.batchSize, scan)
		if err != nil {
			return ts, fmt.Errorf("read %s after %q: %w", table, after, err)
		}
		if len(page) == 0 {
			break
		}
		if err := write(ctx, page); err != nil {
			return ts, fmt.Errorf("write %s: %w", table, err)
		}

		ts.Rows += int64(len(page))
		metrics.ImporterRows.WithLabelValues(table).Add(float64(len(page)))
		_ = bar.Add(len(page))

		after = last
		if len(page) < i.batchSize {
			break
		}
	}
	_ = bar.Finish()

	logging.Info().
		Str("table", table).
		Int64("rows", ts.Rows).
		Int64("source_rows", total).
		Msg("Table imported")
	return ts, nil
}
