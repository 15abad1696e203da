// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

/*
Package api provides the HTTP REST API of SalonPulse.

Routes:

	GET  /api/v1/health/live
	GET  /api/v1/health/ready
	POST /api/v1/auth/token                                      (auth.mode=dev only)
	GET  /api/v1/platform/analytics?window_days=                 platform_admin
	GET  /api/v1/platform/security?window_hours=&events_limit=   platform_admin
	GET  /api/v1/salons/{salonID}/customers/insights             staff and above
	GET  /api/v1/salons/{salonID}/customers/{customerID}/churn   staff and above
	GET  /api/v1/salons/{salonID}/customers/{customerID}/lifetime-value
	GET  /metrics

Middleware, outermost first: RealIP, request id, access log, Recoverer,
Prometheus, gzip, CORS; then per group the httprate limiter, JWT
authentication and casbin authorization.

Every JSON response uses the models.APIResponse envelope:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "query_time_ms": 12, "cached": true}
	}

Successful responses carry a weak ETag computed over the data only, so a
client revalidating with If-None-Match gets 304 Not Modified while the
underlying snapshot is unchanged.

Errors map to HTTP status codes as follows: malformed ids and out-of-range
parameters are 400 VALIDATION_ERROR, a missing or bad token is 401, a role
or salon mismatch is 403, an unknown salon is 404 and anything else is 500.
*/
package api
