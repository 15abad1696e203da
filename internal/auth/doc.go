// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

/*
Package auth establishes caller identity from HS256 bearer tokens.

Tokens carry a role and, for salon-scoped roles, the salon the caller belongs
to. The middleware verifies the token and stores an AuthSubject on the request
context; authorization decisions are made afterwards by the authz package.

	jwtManager, err := auth.NewJWTManager(&cfg.Auth)
	if err != nil {
	    return fmt.Errorf("auth: %w", err)
	}
	r.With(auth.NewMiddleware(jwtManager).Authenticate).Get("/api/v1/platform/analytics", h)

In dev mode the api package also exposes POST /api/v1/auth/token, which calls
GenerateToken for local testing. Production deployments mint tokens elsewhere
with the same secret and issuer.
*/
package auth
