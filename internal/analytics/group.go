// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/salonpulse/internal/models"
)

// Sentinel keys used for records without a grouping key.
const (
	UnknownKey     = "unknown"
	UnknownCountry = "UNKNOWN"
	AnonymousKey   = "anonymous"
)

// KeyFunc extracts a grouping key. ok is false when the record has none.
type KeyFunc[T any] func(T) (key string, ok bool)

// KeyPolicy decides what happens to records whose key is missing or blank.
type KeyPolicy struct {
	drop     bool
	sentinel string
}

// DropMissing excludes records without a key.
var DropMissing = KeyPolicy{drop: true}

// Sentinel buckets records without a key under label.
func Sentinel(label string) KeyPolicy {
	return KeyPolicy{sentinel: label}
}

// Resolve applies the policy to an extracted key.
func (p KeyPolicy) Resolve(key string, ok bool) (string, bool) {
	key = strings.TrimSpace(key)
	if ok && key != "" {
		return key, true
	}
	if p.drop {
		return "", false
	}
	return p.sentinel, true
}

// GroupSum sums value per key. Non-finite values count as 0.
func GroupSum[T any](records []T, key KeyFunc[T], policy KeyPolicy, value func(T) float64) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range records {
		k, ok := policy.Resolve(key(r))
		if !ok {
			continue
		}
		out[k] += models.Finite(value(r))
	}
	return out
}

// GroupCount counts records per key.
func GroupCount[T any](records []T, key KeyFunc[T], policy KeyPolicy) map[string]int {
	out := make(map[string]int)
	for _, r := range records {
		k, ok := policy.Resolve(key(r))
		if !ok {
			continue
		}
		out[k]++
	}
	return out
}

// GroupAverage averages value per key. Keys only appear when at least one
// record maps to them, so no average is computed over zero records.
func GroupAverage[T any](records []T, key KeyFunc[T], policy KeyPolicy, value func(T) float64) map[string]float64 {
	sums := GroupSum(records, key, policy, value)
	counts := GroupCount(records, key, policy)
	out := make(map[string]float64, len(sums))
	for k, sum := range sums {
		out[k] = Ratio(sum, float64(counts[k]))
	}
	return out
}

// GroupLastByDate keeps the record with the latest timestamp per key.
// Records without a timestamp are ignored. Ties keep the earlier record.
func GroupLastByDate[T any](records []T, key KeyFunc[T], policy KeyPolicy, at func(T) (time.Time, bool)) map[string]T {
	out := make(map[string]T)
	latest := make(map[string]time.Time)
	for _, r := range records {
		k, ok := policy.Resolve(key(r))
		if !ok {
			continue
		}
		t, ok := at(r)
		if !ok {
			continue
		}
		if prev, seen := latest[k]; seen && !t.After(prev) {
			continue
		}
		latest[k] = t
		out[k] = r
	}
	return out
}

// GroupUniqueCount counts distinct members per key. Records without a
// member are ignored.
func GroupUniqueCount[T any](records []T, key KeyFunc[T], policy KeyPolicy, member func(T) (string, bool)) map[string]int {
	sets := make(map[string]map[string]struct{})
	for _, r := range records {
		k, ok := policy.Resolve(key(r))
		if !ok {
			continue
		}
		m, ok := member(r)
		if !ok || m == "" {
			continue
		}
		set, exists := sets[k]
		if !exists {
			set = make(map[string]struct{})
			sets[k] = set
		}
		set[m] = struct{}{}
	}
	out := make(map[string]int, len(sets))
	for k, set := range sets {
		out[k] = len(set)
	}
	return out
}

// RankedValue is a grouped value with its key.
type RankedValue struct {
	Key   string
	Value float64
}

// Rank orders grouped values by value descending, key ascending.
func Rank(m map[string]float64) []RankedValue {
	out := make([]RankedValue, 0, len(m))
	for k, v := range m {
		out = append(out, RankedValue{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// RankCounts orders grouped counts by count descending, key ascending.
func RankCounts(m map[string]int) []models.CountItem {
	out := make([]models.CountItem, 0, len(m))
	for k, v := range m {
		out = append(out, models.CountItem{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Top truncates an already sorted slice to at most n elements.
// n <= 0 returns the slice unchanged.
func Top[T any](s []T, n int) []T {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
