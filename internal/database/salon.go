// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/salonpulse/internal/models"
)

const appointmentColumns = `id, salon_id, COALESCE(customer_id, ''), COALESCE(staff_id, ''),
	COALESCE(service_id, ''), start_time, status, total_price`

// SalonAppointments returns every appointment of a salon.
func (db *DB) SalonAppointments(ctx context.Context, salonID string) ([]models.Appointment, error) {
	rows, err := db.query(ctx, "appointments",
		`SELECT `+appointmentColumns+` FROM appointments WHERE salon_id = ? ORDER BY start_time DESC NULLS LAST, id`, salonID)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)
	return scanAppointments(rows)
}

// CustomerAppointments returns one customer's appointments at a salon.
func (db *DB) CustomerAppointments(ctx context.Context, salonID, customerID string) ([]models.Appointment, error) {
	rows, err := db.query(ctx, "appointments",
		`SELECT `+appointmentColumns+` FROM appointments WHERE salon_id = ? AND customer_id = ? ORDER BY start_time DESC NULLS LAST, id`,
		salonID, customerID)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)
	return scanAppointments(rows)
}

func scanAppointments(rows *sql.Rows) ([]models.Appointment, error) {
	var out []models.Appointment
	for rows.Next() {
		var (
			a      models.Appointment
			start  sql.NullTime
			status string
			price  sql.NullFloat64
		)
		if err := rows.Scan(&a.ID, &a.SalonID, &a.CustomerID, &a.StaffID, &a.ServiceID, &start, &status, &price); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		a.StartTime = timePtr(start)
		a.Status = models.ParseAppointmentStatus(status)
		a.TotalPrice = models.FinitePtr(floatPtr(price))
		out = append(out, a)
	}
	return out, rows.Err()
}

const transactionColumns = `id, COALESCE(customer_id, ''), COALESCE(appointment_id, ''), salon_id, amount, type, created_at`

// SalonTransactions returns every transaction of a salon.
func (db *DB) SalonTransactions(ctx context.Context, salonID string) ([]models.Transaction, error) {
	rows, err := db.query(ctx, "transactions",
		`SELECT `+transactionColumns+` FROM transactions WHERE salon_id = ? ORDER BY created_at, id`, salonID)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)
	return scanTransactions(rows)
}

// CustomerTransactions returns one customer's transactions at a salon,
// including payments that only reference one of the customer's appointments.
func (db *DB) CustomerTransactions(ctx context.Context, salonID, customerID string) ([]models.Transaction, error) {
	rows, err := db.query(ctx, "transactions", `
		SELECT `+transactionColumns+` FROM transactions
		WHERE salon_id = ?
		  AND (customer_id = ?
		       OR appointment_id IN (SELECT id FROM appointments WHERE salon_id = ? AND customer_id = ?))
		ORDER BY created_at, id`,
		salonID, customerID, salonID, customerID)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)
	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var out []models.Transaction
	for rows.Next() {
		var (
			t   models.Transaction
			typ string
		)
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.AppointmentID, &t.SalonID, &t.Amount, &typ, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Amount = models.Finite(t.Amount)
		t.Type = models.ParseTransactionType(typ)
		t.CreatedAt = t.CreatedAt.UTC()
		out = append(out, t)
	}
	return out, rows.Err()
}

// SalonReviews returns the reviews left at a salon.
func (db *DB) SalonReviews(ctx context.Context, salonID string) ([]models.Review, error) {
	rows, err := db.query(ctx, "reviews", `
		SELECT id, salon_id, COALESCE(customer_id, ''), COALESCE(rating, 0), created_at
		FROM reviews WHERE salon_id = ? ORDER BY created_at, id`, salonID)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	var out []models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.SalonID, &r.CustomerID, &r.Rating, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.Rating = models.ClampRating(r.Rating)
		r.CreatedAt = r.CreatedAt.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// Profiles looks up customers by id in batches.
func (db *DB) Profiles(ctx context.Context, ids []string) (map[string]models.CustomerProfile, error) {
	out := make(map[string]models.CustomerProfile, len(ids))
	for _, chunk := range chunkIDs(ids) {
		rows, err := db.query(ctx, "customers", `
			SELECT id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(phone, ''),
				COALESCE(country_code, ''), COALESCE(role, ''), created_at
			FROM customers
			WHERE id IN (`+placeholders(len(chunk))+`)`, stringArgs(chunk)...)
		if err != nil {
			return nil, err
		}
		profiles, err := scanProfiles(rows)
		closeQuietly(rows)
		if err != nil {
			return nil, err
		}
		for _, p := range profiles {
			out[p.ID] = p
		}
	}
	return out, nil
}

// CustomerIDs returns the distinct customer ids in appointments.
func CustomerIDs(appointments []models.Appointment) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, a := range appointments {
		if a.CustomerID == "" {
			continue
		}
		if _, ok := seen[a.CustomerID]; ok {
			continue
		}
		seen[a.CustomerID] = struct{}{}
		ids = append(ids, a.CustomerID)
	}
	return ids
}
