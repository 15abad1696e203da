// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

/*
Package middleware holds the HTTP middleware shared by every SalonPulse route.

Handlers follow the chi signature func(http.Handler) http.Handler so they can
be mounted with Router.Use. The stack built by the api package is:

	RequestID -> AccessLog -> Metrics -> Gzip -> auth -> handler

RequestID honours an upstream X-Request-ID header and stores the id (plus a
fresh correlation id) in the logging context, so logging.Ctx(r.Context())
carries both. Metrics labels requests by the chi route pattern rather than the
raw path, which keeps customer and salon ids out of label values.
*/
package middleware
