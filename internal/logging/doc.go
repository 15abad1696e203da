// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

/*
Package logging provides the process-wide zerolog logger for SalonPulse.

The logger is configured once from the logging section of the configuration
and then used through package-level helpers:

	logging.Init(logging.Config{Level: "info", Format: "json"})
	logging.Info().Str("salon_id", id).Msg("customer insights computed")

Request-scoped loggers carry the request and correlation ids set by the HTTP
middleware:

	logging.Ctx(ctx).Warn().Err(err).Str("source", "reviews").Msg("source failed")

Libraries that expect log/slog (the suture supervisor hook) are given a
slog.Logger backed by the same zerolog output via NewSlogLogger.

Always terminate an event chain with Msg or Send; an unterminated chain is
never written.
*/
package logging
