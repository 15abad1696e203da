// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package analytics

import (
	"math"
	"time"
)

// Day is the fixed length of a look-back day. Windows are measured in
// elapsed time, not calendar days, so DST shifts do not move boundaries.
const Day = 24 * time.Hour

// DefaultOffsets are the look-back windows used across the engine.
var DefaultOffsets = []int{7, 14, 30, 60, 90, 180, 365}

// Windows holds look-back boundaries derived from a single reference instant.
type Windows struct {
	now    time.Time
	bounds map[int]time.Time
}

// NewWindows computes now minus each offset in days. With no offsets the
// DefaultOffsets are used. Offsets <= 0 map to now itself.
func NewWindows(now time.Time, offsets ...int) Windows {
	if len(offsets) == 0 {
		offsets = DefaultOffsets
	}
	bounds := make(map[int]time.Time, len(offsets))
	for _, days := range offsets {
		bounds[days] = daysBefore(now, days)
	}
	return Windows{now: now, bounds: bounds}
}

// Since returns the boundary days before now.
func (w Windows) Since(days int) time.Time {
	if b, ok := w.bounds[days]; ok {
		return b
	}
	return daysBefore(w.now, days)
}

func daysBefore(now time.Time, days int) time.Time {
	if days <= 0 {
		return now
	}
	return now.Add(-time.Duration(days) * Day)
}

// Within reports whether t lies in the half-open interval [from, to).
func Within(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// ElapsedDays returns the fractional number of days from a to b.
func ElapsedDays(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24
}

// RoundDays returns the days from a to b rounded to the nearest whole day.
// It is the display form of ElapsedDays; thresholds compare ElapsedDays.
func RoundDays(a, b time.Time) int {
	return int(math.Round(ElapsedDays(a, b)))
}
