// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

/*
Package database is the DuckDB storage layer behind the analytics engine.

It owns the schema, the batched record fetches the insights service runs
concurrently, the row counters, and the writers used by demo seeding and the
legacy importer.

Fetch functions return normalized model values: statuses are parsed, counts
clamped, ratings bounded and telemetry JSON decoded. Lookups keyed by many ids
(salon details, customer profiles) run as chunked IN queries so callers never
issue one query per record.

Every query is timed through metrics.RecordDBQuery.

Tests run against ":memory:" databases.
*/
package database
