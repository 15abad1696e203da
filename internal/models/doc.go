// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

/*
Package models defines the data structures shared across SalonPulse.

The package has three groups of types:

1. Source records, read from storage and never mutated by the engine:
  - Appointment, Transaction, CustomerProfile, Review
  - DailyMetric (per salon and day), PlatformDay (platform rollup per day)
  - SalonDetail (enrichment for rankings)
  - AuditEvent, AccessAttempt, SessionSecurity, RateLimitEntry, SecurityIncident

2. Derived results, produced by internal/analytics:
  - GrowthDelta, ChurnRisk, Segment, Cohort, LifetimeValue
  - PlatformSnapshot, SecuritySnapshot, CustomerInsights

3. API envelope types:
  - APIResponse, Metadata, APIError

Boundary normalization lives in normalize.go. Storage code calls those helpers
while scanning rows, so every record handed to the engine already has finite
numbers, a known status and trimmed identifiers.

All JSON tags use snake_case. Snapshot fields never carry NaN or Inf values;
optional values are pointers serialized as null.
*/
package models
