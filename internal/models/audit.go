// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package models

import "time"

// AuditEvent is a row of the identity audit log.
//
// IPAddress is kept as decoded JSON because upstream writers store plain
// strings, arrays of forwarded addresses, or objects keyed by header name.
// analytics.NormalizeIP collapses it to a single address.
type AuditEvent struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id,omitempty"`
	Action       string    `json:"action"`
	EventType    string    `json:"event_type,omitempty"`
	Severity     string    `json:"severity"`
	ErrorMessage string    `json:"error_message,omitempty"`
	IPAddress    any       `json:"-"`
	UserAgent    string    `json:"user_agent,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// AccessAttempt is a row of the access monitoring table.
type AccessAttempt struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id,omitempty"`
	ResourceType string    `json:"resource_type"`
	Action       string    `json:"action"`
	IsGranted    bool      `json:"is_granted"`
	IPAddress    any       `json:"-"`
	UserAgent    string    `json:"user_agent,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SessionSecurity is a scored user session.
type SessionSecurity struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id,omitempty"`
	SuspiciousScore float64    `json:"suspicious_score"`
	IsBlocked       bool       `json:"is_blocked"`
	IPAddress       any        `json:"-"`
	LastActivityAt  *time.Time `json:"last_activity_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// RateLimitEntry is a rate limit tracking window for one identifier.
type RateLimitEntry struct {
	Identifier     string     `json:"identifier"`
	IdentifierType string     `json:"identifier_type"`
	Endpoint       string     `json:"endpoint"`
	RequestCount   int        `json:"request_count"`
	WindowStartAt  time.Time  `json:"window_start_at"`
	LastRequestAt  *time.Time `json:"last_request_at,omitempty"`
	LastBlockedAt  *time.Time `json:"last_blocked_at,omitempty"`
	BlockedUntil   *time.Time `json:"blocked_until,omitempty"`
}

// IsActiveViolation reports whether the window ever blocked the identifier.
func (r RateLimitEntry) IsActiveViolation() bool {
	return r.BlockedUntil != nil || r.LastBlockedAt != nil
}

// SecurityIncident is a row of the security audit log.
type SecurityIncident struct {
	ID          string    `json:"id"`
	EventType   string    `json:"event_type"`
	Severity    string    `json:"severity"`
	Description string    `json:"description,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	IPAddress   any       `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
