// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/salonpulse/internal/config"
)

// CountResult is a row total and whether it is exact.
type CountResult struct {
	Total int64 `json:"total"`
	Exact bool  `json:"exact"`
}

// Counter totals the rows of a table.
type Counter interface {
	Count(ctx context.Context, table string) (CountResult, error)
}

// PreciseCounter runs COUNT(*).
type PreciseCounter struct {
	db *DB
}

// NewPreciseCounter returns a counter over db.
func NewPreciseCounter(db *DB) *PreciseCounter {
	return &PreciseCounter{db: db}
}

// Count returns the exact row count of table.
func (c *PreciseCounter) Count(ctx context.Context, table string) (CountResult, error) {
	if !countableTables[table] {
		return CountResult{}, fmt.Errorf("count: unknown table %q", table)
	}
	var n int64
	if err := c.db.queryRow(ctx, table, "SELECT COUNT(*) FROM "+table, nil, &n); err != nil {
		return CountResult{}, err
	}
	return CountResult{Total: n, Exact: true}, nil
}

// BoundedSampleCounter scans at most Limit rows. When the limit is reached
// the total is the limit and Exact is false.
type BoundedSampleCounter struct {
	db    *DB
	limit int64
}

// NewBoundedSampleCounter returns a counter that stops at limit rows.
func NewBoundedSampleCounter(db *DB, limit int64) *BoundedSampleCounter {
	if limit <= 0 {
		limit = 1
	}
	return &BoundedSampleCounter{db: db, limit: limit}
}

// Count returns min(rows, limit).
func (c *BoundedSampleCounter) Count(ctx context.Context, table string) (CountResult, error) {
	if !countableTables[table] {
		return CountResult{}, fmt.Errorf("count: unknown table %q", table)
	}
	var n int64
	query := "SELECT COUNT(*) FROM (SELECT 1 FROM " + table + " LIMIT ?)"
	if err := c.db.queryRow(ctx, table, query, []any{c.limit + 1}, &n); err != nil {
		return CountResult{}, err
	}
	if n > c.limit {
		return CountResult{Total: c.limit, Exact: false}, nil
	}
	return CountResult{Total: n, Exact: true}, nil
}

// NewCounter picks the strategy named by the analytics config.
func NewCounter(db *DB, cfg *config.AnalyticsConfig) Counter {
	if cfg.CountStrategy == config.CountSampled {
		return NewBoundedSampleCounter(db, int64(cfg.SampleLimit))
	}
	return NewPreciseCounter(db)
}
