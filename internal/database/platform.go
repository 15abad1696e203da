// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/salonpulse/internal/models"
)

// PlatformDays returns the platform rollup rows dated on or after since.
func (db *DB) PlatformDays(ctx context.Context, since time.Time) ([]models.PlatformDay, error) {
	rows, err := db.query(ctx, "platform_daily_metrics", `
		SELECT date,
			COALESCE(revenue, 0), COALESCE(appointments, 0), COALESCE(new_customers, 0),
			COALESCE(returning_customers, 0), COALESCE(active_salons, 0), COALESCE(cancelled_appointments, 0)
		FROM platform_daily_metrics
		WHERE date >= ?
		ORDER BY date`, since.UTC())
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	var out []models.PlatformDay
	for rows.Next() {
		var d models.PlatformDay
		if err := rows.Scan(&d.Date, &d.Revenue, &d.Appointments, &d.NewCustomers,
			&d.ReturningCustomers, &d.ActiveSalons, &d.CancelledAppointments); err != nil {
			return nil, fmt.Errorf("scan platform day: %w", err)
		}
		d.Revenue = models.Finite(d.Revenue)
		d.Appointments = models.NonNegative(d.Appointments)
		d.NewCustomers = models.NonNegative(d.NewCustomers)
		d.ReturningCustomers = models.NonNegative(d.ReturningCustomers)
		d.ActiveSalons = models.NonNegative(d.ActiveSalons)
		d.CancelledAppointments = models.NonNegative(d.CancelledAppointments)
		out = append(out, d)
	}
	return out, rows.Err()
}

// NewUsers returns customers created on or after since, newest first.
func (db *DB) NewUsers(ctx context.Context, since time.Time, limit int) ([]models.CustomerProfile, error) {
	rows, err := db.query(ctx, "customers", `
		SELECT id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(phone, ''),
			COALESCE(country_code, ''), COALESCE(role, ''), created_at
		FROM customers
		WHERE created_at >= ?
		ORDER BY created_at DESC, id
		LIMIT ?`, since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)
	return scanProfiles(rows)
}

// DailyMetrics returns salon daily rollups dated on or after since.
func (db *DB) DailyMetrics(ctx context.Context, since time.Time, limit int) ([]models.DailyMetric, error) {
	rows, err := db.query(ctx, "salon_daily_metrics", `
		SELECT salon_id, date,
			COALESCE(total_revenue, 0), COALESCE(service_revenue, 0), COALESCE(product_revenue, 0),
			COALESCE(total_appointments, 0), COALESCE(completed_appointments, 0), COALESCE(cancelled_appointments, 0),
			utilization_rate, telemetry
		FROM salon_daily_metrics
		WHERE date >= ?
		ORDER BY date DESC, salon_id
		LIMIT ?`, since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	var out []models.DailyMetric
	for rows.Next() {
		var (
			m           models.DailyMetric
			utilization sql.NullFloat64
			telemetry   sql.NullString
		)
		if err := rows.Scan(&m.SalonID, &m.Date, &m.TotalRevenue, &m.ServiceRevenue, &m.ProductRevenue,
			&m.TotalAppointments, &m.CompletedAppointments, &m.CancelledAppointments,
			&utilization, &telemetry); err != nil {
			return nil, fmt.Errorf("scan daily metric: %w", err)
		}
		m.TotalAppointments = models.NonNegative(m.TotalAppointments)
		m.CompletedAppointments = models.NonNegative(m.CompletedAppointments)
		m.CancelledAppointments = models.NonNegative(m.CancelledAppointments)
		m.UtilizationRate = models.FinitePtr(floatPtr(utilization))
		m.Telemetry = decodeTelemetry(telemetry, m.SalonID)
		out = append(out, m)
	}
	return out, rows.Err()
}

// SalonDetails looks up display attributes for ids in batches.
func (db *DB) SalonDetails(ctx context.Context, ids []string) (map[string]models.SalonDetail, error) {
	out := make(map[string]models.SalonDetail, len(ids))
	for _, chunk := range chunkIDs(ids) {
		rows, err := db.query(ctx, "salons", `
			SELECT id, COALESCE(name, ''), COALESCE(business_name, ''), COALESCE(subscription_tier, ''), rating_average
			FROM salons
			WHERE id IN (`+placeholders(len(chunk))+`)`, stringArgs(chunk)...)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var (
				d      models.SalonDetail
				rating sql.NullFloat64
			)
			if err := rows.Scan(&d.ID, &d.Name, &d.BusinessName, &d.SubscriptionTier, &rating); err != nil {
				closeQuietly(rows)
				return nil, fmt.Errorf("scan salon: %w", err)
			}
			d.RatingAverage = models.FinitePtr(floatPtr(rating))
			out[d.ID] = d
		}
		err = rows.Err()
		closeQuietly(rows)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SalonExists returns ErrNotFound for unknown salons.
func (db *DB) SalonExists(ctx context.Context, salonID string) error {
	var id string
	return db.queryRow(ctx, "salons", `SELECT id FROM salons WHERE id = ?`, []any{salonID}, &id)
}

func scanProfiles(rows *sql.Rows) ([]models.CustomerProfile, error) {
	var out []models.CustomerProfile
	for rows.Next() {
		var p models.CustomerProfile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.CountryCode, &p.Role, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}
