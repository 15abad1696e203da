// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package database

// schemaStatements create every table and index. They are idempotent and run
// on each start.
//
// Telemetry is stored as JSON text and decoded in Go, so the server does not
// depend on the DuckDB json extension being installed.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS salons (
		id                VARCHAR PRIMARY KEY,
		name              VARCHAR,
		business_name     VARCHAR,
		subscription_tier VARCHAR,
		rating_average    DOUBLE,
		created_at        TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id           VARCHAR PRIMARY KEY,
		name         VARCHAR,
		email        VARCHAR,
		phone        VARCHAR,
		country_code VARCHAR,
		role         VARCHAR,
		created_at   TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id          VARCHAR PRIMARY KEY,
		salon_id    VARCHAR NOT NULL,
		customer_id VARCHAR,
		staff_id    VARCHAR,
		service_id  VARCHAR,
		start_time  TIMESTAMP,
		status      VARCHAR NOT NULL,
		total_price DOUBLE
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id             VARCHAR PRIMARY KEY,
		salon_id       VARCHAR NOT NULL,
		customer_id    VARCHAR,
		appointment_id VARCHAR,
		amount         DOUBLE NOT NULL,
		type           VARCHAR NOT NULL,
		created_at     TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id          VARCHAR PRIMARY KEY,
		salon_id    VARCHAR NOT NULL,
		customer_id VARCHAR,
		rating      INTEGER,
		created_at  TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS salon_daily_metrics (
		salon_id               VARCHAR NOT NULL,
		date                   DATE NOT NULL,
		total_revenue          DOUBLE,
		service_revenue        DOUBLE,
		product_revenue        DOUBLE,
		total_appointments     INTEGER,
		completed_appointments INTEGER,
		cancelled_appointments INTEGER,
		utilization_rate       DOUBLE,
		telemetry              VARCHAR,
		PRIMARY KEY (salon_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS platform_daily_metrics (
		date                   DATE PRIMARY KEY,
		revenue                DOUBLE,
		appointments           INTEGER,
		new_customers          INTEGER,
		returning_customers    INTEGER,
		active_salons          INTEGER,
		cancelled_appointments INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS audit_events (
		id            VARCHAR PRIMARY KEY,
		user_id       VARCHAR,
		action        VARCHAR NOT NULL,
		event_type    VARCHAR,
		severity      VARCHAR,
		error_message VARCHAR,
		ip_address    VARCHAR,
		user_agent    VARCHAR,
		created_at    TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS access_attempts (
		id            VARCHAR PRIMARY KEY,
		user_id       VARCHAR,
		resource_type VARCHAR,
		action        VARCHAR,
		is_granted    BOOLEAN NOT NULL,
		ip_address    VARCHAR,
		user_agent    VARCHAR,
		created_at    TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS session_security (
		id               VARCHAR PRIMARY KEY,
		user_id          VARCHAR,
		suspicious_score DOUBLE,
		is_blocked       BOOLEAN NOT NULL DEFAULT false,
		ip_address       VARCHAR,
		last_activity_at TIMESTAMP,
		created_at       TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rate_limit_entries (
		identifier      VARCHAR NOT NULL,
		identifier_type VARCHAR,
		endpoint        VARCHAR NOT NULL,
		request_count   INTEGER,
		window_start_at TIMESTAMP NOT NULL,
		last_request_at TIMESTAMP,
		last_blocked_at TIMESTAMP,
		blocked_until   TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS security_incidents (
		id          VARCHAR PRIMARY KEY,
		event_type  VARCHAR NOT NULL,
		severity    VARCHAR,
		description VARCHAR,
		user_id     VARCHAR,
		ip_address  VARCHAR,
		created_at  TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_salon ON appointments (salon_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_customer ON appointments (customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_salon ON transactions (salon_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_salon ON reviews (salon_id)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_created ON customers (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_events (created_at)`,
}

// countableTables are the tables TotalCount accepts.
var countableTables = map[string]bool{
	"salons":              true,
	"customers":           true,
	"appointments":        true,
	"transactions":        true,
	"reviews":             true,
	"salon_daily_metrics": true,
	"audit_events":        true,
}
