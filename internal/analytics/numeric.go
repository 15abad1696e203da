// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package analytics

import (
	"math"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salonpulse/internal/models"
)

// ToNumber coerces v to a finite float64. Anything that is not a finite
// number, including numeric strings, becomes 0.
func ToNumber(v any) float64 {
	n, _ := AsFinite(v)
	return n
}

// AsFinite reports whether v is a finite number and returns it.
func AsFinite(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Ratio divides num by den and returns 0 when the result would not be finite.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Mean is the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return Ratio(sum, float64(len(values)))
}

// Delta wraps a current/previous pair. DeltaPercent is 0 when previous is 0.
func Delta(current, previous float64) models.GrowthDelta {
	d := current - previous
	return models.GrowthDelta{
		Current:      current,
		Previous:     previous,
		Delta:        d,
		DeltaPercent: Ratio(d, previous),
	}
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clampNonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
