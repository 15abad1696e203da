// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package database

import (
	"context"
	"testing"

	"github.com/tomtom215/salonpulse/internal/config"
)

func TestCounters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	if err := db.SeedDemoData(ctx, testNow); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}

	tests := []struct {
		name      string
		counter   Counter
		wantTotal int64
		wantExact bool
	}{
		{"precise", NewPreciseCounter(db), seedCustomers, true},
		{"sample below limit", NewBoundedSampleCounter(db, 1000), seedCustomers, true},
		{"sample at limit", NewBoundedSampleCounter(db, seedCustomers), seedCustomers, true},
		{"sample truncated", NewBoundedSampleCounter(db, 50), 50, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.counter.Count(ctx, "customers")
			if err != nil {
				t.Fatalf("Count: %v", err)
			}
			if got.Total != tt.wantTotal || got.Exact != tt.wantExact {
				t.Errorf("Count = %+v, want %d/%v", got, tt.wantTotal, tt.wantExact)
			}
		})
	}

	if _, err := NewPreciseCounter(db).Count(ctx, "customers; DROP TABLE salons"); err == nil {
		t.Error("unknown table must be rejected")
	}
}

func TestNewCounterStrategy(t *testing.T) {
	db := &DB{}
	if _, ok := NewCounter(db, &config.AnalyticsConfig{CountStrategy: config.CountSampled, SampleLimit: 10}).(*BoundedSampleCounter); !ok {
		t.Error("sampled strategy should build a BoundedSampleCounter")
	}
	if _, ok := NewCounter(db, &config.AnalyticsConfig{CountStrategy: config.CountPrecise}).(*PreciseCounter); !ok {
		t.Error("precise strategy should build a PreciseCounter")
	}
}
