// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

/*
Package metrics exposes the Prometheus instruments used across SalonPulse.

All collectors are registered on the default registry through promauto and are
served by promhttp at /metrics. Callers use the Record helpers rather than the
raw vectors so label sets stay consistent:

	start := time.Now()
	rows, err := db.QueryContext(ctx, query)
	metrics.RecordDBQuery("select", "appointments", time.Since(start), err)

Label values are always drawn from small fixed sets (route patterns, table
names, snapshot kinds, source names). Salon and customer ids never appear in
labels.
*/
package metrics
