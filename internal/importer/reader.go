// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package importer

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/salonpulse/internal/models"
)

// rowScanner is satisfied by *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// salonRow carries the source created_at, which SalonDetail does not hold.
type salonRow struct {
	detail    models.SalonDetail
	createdAt time.Time
}

const (
	salonColumns       = "id, name, business_name, subscription_tier, rating_average, created_at"
	customerColumns    = "id, name, email, phone, country_code, role, created_at"
	appointmentColumns = "id, salon_id, customer_id, staff_id, service_id, start_time, status, total_price"
	transactionColumns = "id, salon_id, customer_id, appointment_id, amount, type, created_at"
	reviewColumns      = "id, salon_id, customer_id, rating, created_at"
)

// pageQuery is a keyset page over a table with a string primary key. It is
// portable between MySQL and DuckDB.
func pageQuery(table, columns string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE id > ? ORDER BY id LIMIT ?", columns, table)
}

// readPage returns up to limit rows after the given id together with the
// last id read.
func readPage[T any](ctx context.Context, db *sql.DB, query, after string, limit int, scan func(rowScanner) (T, string, error)) (page []T, last string, err error) {
	rows, err := db.QueryContext(ctx, query, after, limit)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		if cerr := rows.Close(); err == nil {
			err = cerr
		}
	}()

	page = make([]T, 0, limit)
	for rows.Next() {
		item, id, err := scan(rows)
		if err != nil {
			return nil, "", err
		}
		page = append(page, item)
		last = id
	}
	return page, last, rows.Err()
}

func scanSalon(r rowScanner) (salonRow, string, error) {
	var (
		row                  salonRow
		name, business, tier sql.NullString
		rating               sql.NullFloat64
	)
	if err := r.Scan(&row.detail.ID, &name, &business, &tier, &rating, &row.createdAt); err != nil {
		return salonRow{}, "", err
	}
	row.detail.Name = name.String
	row.detail.BusinessName = business.String
	row.detail.SubscriptionTier = tier.String
	if rating.Valid {
		v := rating.Float64
		row.detail.RatingAverage = &v
	}
	row.createdAt = row.createdAt.UTC()
	return row, row.detail.ID, nil
}

func scanCustomer(r rowScanner) (models.CustomerProfile, string, error) {
	var (
		c                                 models.CustomerProfile
		name, email, phone, country, role sql.NullString
	)
	if err := r.Scan(&c.ID, &name, &email, &phone, &country, &role, &c.CreatedAt); err != nil {
		return models.CustomerProfile{}, "", err
	}
	c.Name = name.String
	c.Email = email.String
	c.Phone = phone.String
	c.CountryCode = country.String
	c.Role = role.String
	c.CreatedAt = c.CreatedAt.UTC()
	return c, c.ID, nil
}

func scanAppointment(r rowScanner) (models.Appointment, string, error) {
	var (
		a                        models.Appointment
		customer, staff, service sql.NullString
		start                    sql.NullTime
		status                   string
		price                    sql.NullFloat64
	)
	if err := r.Scan(&a.ID, &a.SalonID, &customer, &staff, &service, &start, &status, &price); err != nil {
		return models.Appointment{}, "", err
	}
	a.CustomerID = customer.String
	a.StaffID = staff.String
	a.ServiceID = service.String
	if start.Valid {
		t := start.Time.UTC()
		a.StartTime = &t
	}
	a.Status = models.ParseAppointmentStatus(status)
	if price.Valid {
		v := price.Float64
		a.TotalPrice = &v
	}
	return a, a.ID, nil
}

func scanTransaction(r rowScanner) (models.Transaction, string, error) {
	var (
		t                     models.Transaction
		customer, appointment sql.NullString
		kind                  string
	)
	if err := r.Scan(&t.ID, &t.SalonID, &customer, &appointment, &t.Amount, &kind, &t.CreatedAt); err != nil {
		return models.Transaction{}, "", err
	}
	t.CustomerID = customer.String
	t.AppointmentID = appointment.String
	t.Type = models.ParseTransactionType(kind)
	t.CreatedAt = t.CreatedAt.UTC()
	return t, t.ID, nil
}

func scanReview(r rowScanner) (models.Review, string, error) {
	var (
		rv       models.Review
		customer sql.NullString
		rating   sql.NullInt64
	)
	if err := r.Scan(&rv.ID, &rv.SalonID, &customer, &rating, &rv.CreatedAt); err != nil {
		return models.Review{}, "", err
	}
	rv.CustomerID = customer.String
	rv.Rating = models.ClampRating(int(rating.Int64))
	rv.CreatedAt = rv.CreatedAt.UTC()
	return rv, rv.ID, nil
}
