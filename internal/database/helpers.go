// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package database

import (
	"database/sql"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salonpulse/internal/logging"
)

// maxInParams bounds the placeholders of one IN list.
const maxInParams = 500

// chunkIDs splits ids into IN-sized batches, dropping blanks and duplicates.
func chunkIDs(ids []string) [][]string {
	seen := make(map[string]struct{}, len(ids))
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		clean = append(clean, id)
	}

	var chunks [][]string
	for len(clean) > 0 {
		n := min(len(clean), maxInParams)
		chunks = append(chunks, clean[:n])
		clean = clean[n:]
	}
	return chunks
}

// placeholders returns "?, ?, ..." for n parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func stringArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// nullTime converts an optional time for insertion.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// decodeTelemetry parses a telemetry document. Malformed documents are
// logged and treated as empty. Numbers are kept as json.Number so the
// engine decides what is numeric.
func decodeTelemetry(raw sql.NullString, salonID string) map[string]any {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	dec := json.NewDecoder(strings.NewReader(raw.String))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		logging.Debug().Err(err).Str("salon_id", salonID).Msg("Ignoring malformed telemetry")
		return nil
	}
	return out
}

func encodeTelemetry(t map[string]any) (any, error) {
	if len(t) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
