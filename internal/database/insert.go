// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salonpulse/internal/metrics"
	"github.com/tomtom215/salonpulse/internal/models"
)

// insertBatch writes rows in one transaction with a prepared statement.
// Tables with a primary key use INSERT OR REPLACE so re-imports are idempotent.
func insertBatch[T any](ctx context.Context, db *DB, table, stmt string, rows []T, args func(T) ([]any, error)) (err error) {
	if len(rows) == 0 {
		return nil
	}
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", table, time.Since(start), err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s insert: %w", table, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer closeQuietly(prepared)

	for i, row := range rows {
		values, err := args(row)
		if err != nil {
			return fmt.Errorf("encode %s row %d: %w", table, i, err)
		}
		if _, err := prepared.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", table, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s insert: %w", table, err)
	}
	return nil
}

// InsertSalons upserts salon reference rows.
func (db *DB) InsertSalons(ctx context.Context, salons []models.SalonDetail, createdAt time.Time) error {
	return insertBatch(ctx, db, "salons", `INSERT OR REPLACE INTO salons
		(id, name, business_name, subscription_tier, rating_average, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		salons, func(s models.SalonDetail) ([]any, error) {
			return []any{s.ID, nullString(s.Name), nullString(s.BusinessName), nullString(s.SubscriptionTier),
				nullFloat(s.RatingAverage), createdAt.UTC()}, nil
		})
}

// InsertCustomers upserts customer profiles.
func (db *DB) InsertCustomers(ctx context.Context, customers []models.CustomerProfile) error {
	return insertBatch(ctx, db, "customers", `INSERT OR REPLACE INTO customers
		(id, name, email, phone, country_code, role, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		customers, func(c models.CustomerProfile) ([]any, error) {
			return []any{c.ID, nullString(c.Name), nullString(c.Email), nullString(c.Phone),
				nullString(c.CountryCode), nullString(c.Role), c.CreatedAt.UTC()}, nil
		})
}

// InsertAppointments upserts appointments.
func (db *DB) InsertAppointments(ctx context.Context, appointments []models.Appointment) error {
	return insertBatch(ctx, db, "appointments", `INSERT OR REPLACE INTO appointments
		(id, salon_id, customer_id, staff_id, service_id, start_time, status, total_price) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		appointments, func(a models.Appointment) ([]any, error) {
			return []any{a.ID, a.SalonID, nullString(a.CustomerID), nullString(a.StaffID), nullString(a.ServiceID),
				nullTime(a.StartTime), string(a.Status), nullFloat(a.TotalPrice)}, nil
		})
}

// InsertTransactions upserts transactions.
func (db *DB) InsertTransactions(ctx context.Context, transactions []models.Transaction) error {
	return insertBatch(ctx, db, "transactions", `INSERT OR REPLACE INTO transactions
		(id, salon_id, customer_id, appointment_id, amount, type, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		transactions, func(t models.Transaction) ([]any, error) {
			return []any{t.ID, t.SalonID, nullString(t.CustomerID), nullString(t.AppointmentID),
				t.Amount, string(t.Type), t.CreatedAt.UTC()}, nil
		})
}

// InsertReviews upserts reviews.
func (db *DB) InsertReviews(ctx context.Context, reviews []models.Review) error {
	return insertBatch(ctx, db, "reviews", `INSERT OR REPLACE INTO reviews
		(id, salon_id, customer_id, rating, created_at) VALUES (?, ?, ?, ?, ?)`,
		reviews, func(r models.Review) ([]any, error) {
			return []any{r.ID, r.SalonID, nullString(r.CustomerID), r.Rating, r.CreatedAt.UTC()}, nil
		})
}

// InsertDailyMetrics upserts salon daily rollups, encoding telemetry as JSON.
func (db *DB) InsertDailyMetrics(ctx context.Context, rows []models.DailyMetric) error {
	return insertBatch(ctx, db, "salon_daily_metrics", `INSERT OR REPLACE INTO salon_daily_metrics
		(salon_id, date, total_revenue, service_revenue, product_revenue, total_appointments,
		 completed_appointments, cancelled_appointments, utilization_rate, telemetry)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rows, func(m models.DailyMetric) ([]any, error) {
			telemetry, err := encodeTelemetry(m.Telemetry)
			if err != nil {
				return nil, err
			}
			return []any{m.SalonID, m.Date.UTC(), m.TotalRevenue, m.ServiceRevenue, m.ProductRevenue,
				m.TotalAppointments, m.CompletedAppointments, m.CancelledAppointments,
				nullFloat(m.UtilizationRate), telemetry}, nil
		})
}

// InsertPlatformDays upserts the platform rollup.
func (db *DB) InsertPlatformDays(ctx context.Context, days []models.PlatformDay) error {
	return insertBatch(ctx, db, "platform_daily_metrics", `INSERT OR REPLACE INTO platform_daily_metrics
		(date, revenue, appointments, new_customers, returning_customers, active_salons, cancelled_appointments)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		days, func(d models.PlatformDay) ([]any, error) {
			return []any{d.Date.UTC(), d.Revenue, d.Appointments, d.NewCustomers,
				d.ReturningCustomers, d.ActiveSalons, d.CancelledAppointments}, nil
		})
}

// InsertAuditEvents appends audit events.
func (db *DB) InsertAuditEvents(ctx context.Context, events []models.AuditEvent) error {
	return insertBatch(ctx, db, "audit_events", `INSERT OR REPLACE INTO audit_events
		(id, user_id, action, event_type, severity, error_message, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		events, func(e models.AuditEvent) ([]any, error) {
			ip, err := ipString(e.IPAddress)
			if err != nil {
				return nil, fmt.Errorf("audit event %s: %w", e.ID, err)
			}
			return []any{e.ID, nullString(e.UserID), e.Action, nullString(e.EventType), nullString(e.Severity),
				nullString(e.ErrorMessage), ip, nullString(e.UserAgent), e.CreatedAt.UTC()}, nil
		})
}

// InsertAccessAttempts appends authorization decisions.
func (db *DB) InsertAccessAttempts(ctx context.Context, attempts []models.AccessAttempt) error {
	return insertBatch(ctx, db, "access_attempts", `INSERT OR REPLACE INTO access_attempts
		(id, user_id, resource_type, action, is_granted, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		attempts, func(a models.AccessAttempt) ([]any, error) {
			ip, err := ipString(a.IPAddress)
			if err != nil {
				return nil, fmt.Errorf("access attempt %s: %w", a.ID, err)
			}
			return []any{a.ID, nullString(a.UserID), nullString(a.ResourceType), nullString(a.Action),
				a.IsGranted, ip, nullString(a.UserAgent), a.CreatedAt.UTC()}, nil
		})
}

// InsertSessions upserts session security rows.
func (db *DB) InsertSessions(ctx context.Context, sessions []models.SessionSecurity) error {
	return insertBatch(ctx, db, "session_security", `INSERT OR REPLACE INTO session_security
		(id, user_id, suspicious_score, is_blocked, ip_address, last_activity_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sessions, func(s models.SessionSecurity) ([]any, error) {
			ip, err := ipString(s.IPAddress)
			if err != nil {
				return nil, fmt.Errorf("session %s: %w", s.ID, err)
			}
			return []any{s.ID, nullString(s.UserID), s.SuspiciousScore, s.IsBlocked,
				ip, nullTime(s.LastActivityAt), s.CreatedAt.UTC()}, nil
		})
}

// InsertRateLimitEntries appends limiter windows.
func (db *DB) InsertRateLimitEntries(ctx context.Context, entries []models.RateLimitEntry) error {
	return insertBatch(ctx, db, "rate_limit_entries", `INSERT INTO rate_limit_entries
		(identifier, identifier_type, endpoint, request_count, window_start_at, last_request_at, last_blocked_at, blocked_until)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entries, func(e models.RateLimitEntry) ([]any, error) {
			return []any{e.Identifier, nullString(e.IdentifierType), e.Endpoint, e.RequestCount,
				e.WindowStartAt.UTC(), nullTime(e.LastRequestAt), nullTime(e.LastBlockedAt), nullTime(e.BlockedUntil)}, nil
		})
}

// InsertIncidents upserts security incidents.
func (db *DB) InsertIncidents(ctx context.Context, incidents []models.SecurityIncident) error {
	return insertBatch(ctx, db, "security_incidents", `INSERT OR REPLACE INTO security_incidents
		(id, event_type, severity, description, user_id, ip_address, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		incidents, func(i models.SecurityIncident) ([]any, error) {
			ip, err := ipString(i.IPAddress)
			if err != nil {
				return nil, fmt.Errorf("incident %s: %w", i.ID, err)
			}
			return []any{i.ID, i.EventType, nullString(i.Severity), nullString(i.Description),
				nullString(i.UserID), ip, i.CreatedAt.UTC()}, nil
		})
}

// ipString stores addresses as text. Arrays and objects are stored as JSON
// so ipValue can decode them back into the shapes NormalizeIP reads.
func ipString(v any) (any, error) {
	switch ip := v.(type) {
	case nil:
		return nil, nil
	case string:
		return nullString(ip), nil
	default:
		b, err := json.Marshal(ip)
		if err != nil {
			return nil, fmt.Errorf("encode ip address: %w", err)
		}
		return string(b), nil
	}
}
