// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salonpulse/internal/models"
)

// failedLoginFilter preselects the rows analytics.IsFailedLogin accepts, so
// the limit applies to failures rather than to all events.
const failedLoginFilter = `((lower(action) LIKE '%login%' OR lower(action) LIKE '%sign_in%')
	AND (lower(action) LIKE '%fail%' OR trim(COALESCE(error_message, '')) <> ''))`

const auditColumns = `id, COALESCE(user_id, ''), action, COALESCE(event_type, ''), COALESCE(severity, ''),
	COALESCE(error_message, ''), ip_address, COALESCE(user_agent, ''), created_at`

// AuditEvents returns recent audit events, newest first.
func (db *DB) AuditEvents(ctx context.Context, since time.Time, limit int) ([]models.AuditEvent, error) {
	rows, err := db.query(ctx, "audit_events",
		`SELECT `+auditColumns+` FROM audit_events WHERE created_at >= ? ORDER BY created_at DESC, id LIMIT ?`,
		since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)
	return scanAuditEvents(rows)
}

// FailedLogins returns recent failed login events, newest first.
func (db *DB) FailedLogins(ctx context.Context, since time.Time, limit int) ([]models.AuditEvent, error) {
	rows, err := db.query(ctx, "audit_events",
		`SELECT `+auditColumns+` FROM audit_events WHERE created_at >= ? AND `+failedLoginFilter+` ORDER BY created_at DESC, id LIMIT ?`,
		since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)
	return scanAuditEvents(rows)
}

func scanAuditEvents(rows *sql.Rows) ([]models.AuditEvent, error) {
	var out []models.AuditEvent
	for rows.Next() {
		var (
			e  models.AuditEvent
			ip sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EventType, &e.Severity,
			&e.ErrorMessage, &ip, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.IPAddress = ipValue(ip)
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// AccessAttempts returns recent authorization decisions, newest first.
func (db *DB) AccessAttempts(ctx context.Context, since time.Time, limit int) ([]models.AccessAttempt, error) {
	rows, err := db.query(ctx, "access_attempts", `
		SELECT id, COALESCE(user_id, ''), COALESCE(resource_type, ''), COALESCE(action, ''),
			is_granted, ip_address, COALESCE(user_agent, ''), created_at
		FROM access_attempts
		WHERE created_at >= ?
		ORDER BY created_at DESC, id
		LIMIT ?`, since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	var out []models.AccessAttempt
	for rows.Next() {
		var (
			a  models.AccessAttempt
			ip sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.ResourceType, &a.Action, &a.IsGranted, &ip, &a.UserAgent, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan access attempt: %w", err)
		}
		a.IPAddress = ipValue(ip)
		a.CreatedAt = a.CreatedAt.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

// SuspiciousSessions returns blocked or scored sessions, most suspicious first.
func (db *DB) SuspiciousSessions(ctx context.Context, limit int) ([]models.SessionSecurity, error) {
	rows, err := db.query(ctx, "session_security", `
		SELECT id, COALESCE(user_id, ''), COALESCE(suspicious_score, 0), is_blocked,
			ip_address, last_activity_at, created_at
		FROM session_security
		WHERE is_blocked OR COALESCE(suspicious_score, 0) > 0
		ORDER BY is_blocked DESC, suspicious_score DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	var out []models.SessionSecurity
	for rows.Next() {
		var (
			s        models.SessionSecurity
			ip       sql.NullString
			activity sql.NullTime
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.SuspiciousScore, &s.IsBlocked, &ip, &activity, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.SuspiciousScore = models.Finite(s.SuspiciousScore)
		s.IPAddress = ipValue(ip)
		s.LastActivityAt = timePtr(activity)
		s.CreatedAt = s.CreatedAt.UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// RateLimitEntries returns the most recently active limiter windows.
func (db *DB) RateLimitEntries(ctx context.Context, limit int) ([]models.RateLimitEntry, error) {
	rows, err := db.query(ctx, "rate_limit_entries", `
		SELECT identifier, COALESCE(identifier_type, ''), endpoint, COALESCE(request_count, 0),
			window_start_at, last_request_at, last_blocked_at, blocked_until
		FROM rate_limit_entries
		ORDER BY COALESCE(last_request_at, window_start_at) DESC, identifier
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	var out []models.RateLimitEntry
	for rows.Next() {
		var (
			e                       models.RateLimitEntry
			lastReq, lastBlk, until sql.NullTime
		)
		if err := rows.Scan(&e.Identifier, &e.IdentifierType, &e.Endpoint, &e.RequestCount,
			&e.WindowStartAt, &lastReq, &lastBlk, &until); err != nil {
			return nil, fmt.Errorf("scan rate limit entry: %w", err)
		}
		e.RequestCount = models.NonNegative(e.RequestCount)
		e.WindowStartAt = e.WindowStartAt.UTC()
		e.LastRequestAt = timePtr(lastReq)
		e.LastBlockedAt = timePtr(lastBlk)
		e.BlockedUntil = timePtr(until)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Incidents returns recent security incidents, newest first.
func (db *DB) Incidents(ctx context.Context, since time.Time, limit int) ([]models.SecurityIncident, error) {
	rows, err := db.query(ctx, "security_incidents", `
		SELECT id, event_type, COALESCE(severity, ''), COALESCE(description, ''),
			COALESCE(user_id, ''), ip_address, created_at
		FROM security_incidents
		WHERE created_at >= ?
		ORDER BY created_at DESC, id
		LIMIT ?`, since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	var out []models.SecurityIncident
	for rows.Next() {
		var (
			i  models.SecurityIncident
			ip sql.NullString
		)
		if err := rows.Scan(&i.ID, &i.EventType, &i.Severity, &i.Description, &i.UserID, &ip, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		i.IPAddress = ipValue(ip)
		i.CreatedAt = i.CreatedAt.UTC()
		out = append(out, i)
	}
	return out, rows.Err()
}

// ipValue keeps a missing address as nil so the engine can tell it apart
// from an empty string. Values written as JSON arrays or objects are decoded.
func ipValue(ip sql.NullString) any {
	if !ip.Valid {
		return nil
	}
	if s := strings.TrimSpace(ip.String); strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err == nil {
			return decoded
		}
	}
	return ip.String
}
