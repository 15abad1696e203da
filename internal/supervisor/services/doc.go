// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

/*
Package services adapts SalonPulse components to suture.Service.

HTTPServerService turns http.Server's blocking ListenAndServe into a
context-aware Serve and shuts the server down gracefully on cancellation.

SnapshotRefresher rebuilds the default platform snapshot on a fixed interval
so dashboard reads hit a warm cache, and evicts expired cache entries after
each run. Refresh outcomes are counted in salonpulse_snapshot_refreshes_total
by result: success, partial or error.

Every service implements fmt.Stringer so supervisor logs name it.
*/
package services
