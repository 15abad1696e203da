// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package logging

import "strings"

// RedactEmail keeps the first character of the local part and the domain.
// Customer emails appear in insights payloads but never in logs.
//
//	RedactEmail("alice@example.com") == "a***@example.com"
func RedactEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// RedactToken keeps a short prefix of a bearer token for correlation.
func RedactToken(token string) string {
	const keep = 8
	if len(token) <= keep {
		return "***"
	}
	return token[:keep] + "..."
}
