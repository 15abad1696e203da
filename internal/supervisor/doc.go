// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

/*
Package supervisor runs SalonPulse's long-lived services under suture v4.

The tree has two layers so that failures stay local:

	RootSupervisor ("salonpulse")
	├── DataSupervisor ("data-layer")
	│   └── SnapshotRefresher (if INSIGHTS_REFRESH_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's decaying failure counter. Once the
counter passes FailureThreshold the layer waits FailureBackoff before the next
restart. Supervisor events are logged through sutureslog into the zerolog
backed slog handler from the logging package.

DuckDB is not supervised. It is an embedded library whose lifetime is owned by
main, and the HTTP server and refresher only borrow it.

Services return ctx.Err() when asked to stop and a wrapped error when they
crash. Returning nil means the service is done and is not restarted.
*/
package supervisor
