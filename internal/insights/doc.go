// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

/*
Package insights fetches analytics inputs from storage and turns them into
snapshots.

Every snapshot is assembled from several independent sources (platform
rollups, new users, daily salon metrics, audit tables and so on). Sources
are fetched concurrently and each one is guarded by its own circuit breaker:

	platform snapshot  -> platform_days, new_users, daily_metrics, total_users
	                      then salon_details for the ranked top salons
	security snapshot  -> audit_events, failed_logins, access_attempts,
	                      sessions, rate_limits, incidents
	customer insights  -> appointments, transactions, reviews
	                      then profiles for every customer seen

A failing source degrades to an empty collection. The failure is logged,
counted in salonpulse_source_failures_total and listed in the snapshot's
partial_sources, so a snapshot is never rejected wholesale. Complete
snapshots are cached for insights.cache_ttl; partial ones are not, so the
next request retries the failed source.

The analytics engine itself is pure and lives in internal/analytics. This
package owns every clock read, timeout and retry decision.
*/
package insights
