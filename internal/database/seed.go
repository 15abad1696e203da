// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package database

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/salonpulse/internal/logging"
	"github.com/tomtom215/salonpulse/internal/models"
)

// seedNamespace derives stable demo ids, so two seeded databases agree.
var seedNamespace = uuid.MustParse("5b0e3c5e-6a9f-4d0c-9b7e-1f2a3c4d5e6f")

func seedID(kind string, n int) string {
	return uuid.NewSHA1(seedNamespace, []byte(fmt.Sprintf("%s-%d", kind, n))).String()
}

// Demo volume.
const (
	seedSalons          = 8
	seedCustomers       = 160
	seedStaffPerSalon   = 3
	seedServices        = 6
	seedHistoryDays     = 365
	seedMetricDays      = 90
	seedMaxVisits       = 14
	seedSecurityUsers   = 12
	seedSecurityEvents  = 240
	seedFailedLoginsIPs = 5
)

var (
	seedSalonNames = []string{
		"Northside Cuts", "Velvet Room", "Studio Nine", "Blush & Blade",
		"Harbor Barbers", "Luxe Lounge", "Color Theory", "The Parlour",
	}
	seedTiers     = []string{"basic", "pro", "enterprise"}
	seedCountries = []string{"US", "US", "US", "GB", "CA", "DE", "FR", "", "AU"}
	seedRoles     = []string{"customer", "customer", "customer", "customer", "salon_owner", "staff", ""}
	seedFeatures  = []string{
		"online_booking", "sms_reminders", "pos_checkout", "loyalty_points",
		"gift_cards", "inventory", "marketing_email", "reviews_widget",
		"waitlist", "deposits", "payroll_export", "analytics_view",
	}
)

// SeedDemoData fills an empty database with a reproducible demo platform.
// It does nothing when salons already exist.
func (db *DB) SeedDemoData(ctx context.Context, now time.Time) error {
	var existing int64
	if err := db.queryRow(ctx, "salons", "SELECT COUNT(*) FROM salons", nil, &existing); err != nil {
		return err
	}
	if existing > 0 {
		logging.Info().Int64("salons", existing).Msg("Database already populated, skipping demo seed")
		return nil
	}

	logging.Info().Msg("Seeding database with demo data...")
	data := generateDemo(now.UTC(), rand.New(rand.NewPCG(2024, 6)))

	steps := []struct {
		name string
		fn   func() error
	}{
		{"salons", func() error { return db.InsertSalons(ctx, data.salons, now.AddDate(-2, 0, 0)) }},
		{"customers", func() error { return db.InsertCustomers(ctx, data.customers) }},
		{"appointments", func() error { return db.InsertAppointments(ctx, data.appointments) }},
		{"transactions", func() error { return db.InsertTransactions(ctx, data.transactions) }},
		{"reviews", func() error { return db.InsertReviews(ctx, data.reviews) }},
		{"salon_daily_metrics", func() error { return db.InsertDailyMetrics(ctx, data.dailyMetrics) }},
		{"platform_daily_metrics", func() error { return db.InsertPlatformDays(ctx, data.platformDays) }},
		{"audit_events", func() error { return db.InsertAuditEvents(ctx, data.auditEvents) }},
		{"access_attempts", func() error { return db.InsertAccessAttempts(ctx, data.accessAttempts) }},
		{"session_security", func() error { return db.InsertSessions(ctx, data.sessions) }},
		{"rate_limit_entries", func() error { return db.InsertRateLimitEntries(ctx, data.rateLimits) }},
		{"security_incidents", func() error { return db.InsertIncidents(ctx, data.incidents) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
	}

	logging.Info().
		Int("salons", len(data.salons)).
		Int("customers", len(data.customers)).
		Int("appointments", len(data.appointments)).
		Int("audit_events", len(data.auditEvents)).
		Msg("Demo data seeded")
	return nil
}

type demoData struct {
	salons         []models.SalonDetail
	customers      []models.CustomerProfile
	appointments   []models.Appointment
	transactions   []models.Transaction
	reviews        []models.Review
	dailyMetrics   []models.DailyMetric
	platformDays   []models.PlatformDay
	auditEvents    []models.AuditEvent
	accessAttempts []models.AccessAttempt
	sessions       []models.SessionSecurity
	rateLimits     []models.RateLimitEntry
	incidents      []models.SecurityIncident
}

func generateDemo(now time.Time, rng *rand.Rand) demoData {
	var d demoData
	today := now.Truncate(24 * time.Hour)

	for i := range seedSalons {
		rating := 3.5 + rng.Float64()*1.5
		d.salons = append(d.salons, models.SalonDetail{
			ID:               seedID("salon", i),
			Name:             seedSalonNames[i%len(seedSalonNames)],
			BusinessName:     seedSalonNames[i%len(seedSalonNames)] + " LLC",
			SubscriptionTier: seedTiers[rng.IntN(len(seedTiers))],
			RatingAverage:    &rating,
		})
	}

	for i := range seedCustomers {
		created := today.Add(-time.Duration(rng.IntN(seedHistoryDays+60)) * 24 * time.Hour)
		d.customers = append(d.customers, models.CustomerProfile{
			ID:          seedID("customer", i),
			Name:        fmt.Sprintf("Customer %03d", i+1),
			Email:       fmt.Sprintf("customer%03d@example.com", i+1),
			Phone:       fmt.Sprintf("+1-555-%04d", i),
			CountryCode: seedCountries[rng.IntN(len(seedCountries))],
			Role:        seedRoles[rng.IntN(len(seedRoles))],
			CreatedAt:   created,
		})
	}

	generateVisits(&d, today, rng)
	generateDailyMetrics(&d, today, rng)
	generatePlatformDays(&d, today)
	generateSecurity(&d, now, rng)
	return d
}

func generateVisits(d *demoData, today time.Time, rng *rand.Rand) {
	var apptN, txN, reviewN int
	for _, c := range d.customers {
		salon := d.salons[rng.IntN(len(d.salons))].ID
		visits := 1 + rng.IntN(seedMaxVisits)
		// Some customers lapse: their history ends well before today.
		lapse := 0
		if rng.IntN(4) == 0 {
			lapse = 60 + rng.IntN(200)
		}
		for v := range visits {
			apptN++
			start := today.Add(-time.Duration(lapse+rng.IntN(seedHistoryDays-lapse))*24*time.Hour + time.Duration(9+rng.IntN(9))*time.Hour)
			price := float64(30 + rng.IntN(170))
			status := models.StatusCompleted
			switch roll := rng.IntN(20); {
			case roll == 0:
				status = models.StatusNoShow
			case roll <= 2:
				status = models.StatusCancelled
			case start.After(today):
				status = models.StatusConfirmed
			}
			a := models.Appointment{
				ID:         seedID("appointment", apptN),
				CustomerID: c.ID,
				SalonID:    salon,
				StaffID:    fmt.Sprintf("%s-staff-%d", salon[:8], rng.IntN(seedStaffPerSalon)),
				ServiceID:  fmt.Sprintf("service-%d", (v+rng.IntN(2))%seedServices),
				StartTime:  &start,
				Status:     status,
				TotalPrice: &price,
			}
			d.appointments = append(d.appointments, a)
			if status != models.StatusCompleted {
				continue
			}

			txN++
			d.transactions = append(d.transactions, models.Transaction{
				ID: seedID("transaction", txN), CustomerID: c.ID, AppointmentID: a.ID, SalonID: salon,
				Amount: price, Type: models.TransactionPayment, CreatedAt: start.Add(time.Hour),
			})
			if rng.IntN(3) == 0 {
				txN++
				d.transactions = append(d.transactions, models.Transaction{
					ID: seedID("transaction", txN), CustomerID: c.ID, AppointmentID: a.ID, SalonID: salon,
					Amount: float64(5 + rng.IntN(20)), Type: models.TransactionTip, CreatedAt: start.Add(time.Hour),
				})
			}
			if rng.IntN(40) == 0 {
				txN++
				d.transactions = append(d.transactions, models.Transaction{
					ID: seedID("transaction", txN), CustomerID: c.ID, AppointmentID: a.ID, SalonID: salon,
					Amount: price / 2, Type: models.TransactionRefund, CreatedAt: start.Add(48 * time.Hour),
				})
			}
			if rng.IntN(10) < 3 {
				reviewN++
				d.reviews = append(d.reviews, models.Review{
					ID: seedID("review", reviewN), SalonID: salon, CustomerID: c.ID,
					Rating: 2 + rng.IntN(4), CreatedAt: start.Add(24 * time.Hour),
				})
			}
		}
	}
}

func generateDailyMetrics(d *demoData, today time.Time, rng *rand.Rand) {
	type key struct {
		salon string
		day   time.Time
	}
	agg := make(map[key]*models.DailyMetric)
	from := today.AddDate(0, 0, -seedMetricDays)
	for _, a := range d.appointments {
		if a.StartTime == nil || a.StartTime.Before(from) {
			continue
		}
		k := key{a.SalonID, a.StartTime.Truncate(24 * time.Hour)}
		m, ok := agg[k]
		if !ok {
			m = &models.DailyMetric{SalonID: a.SalonID, Date: k.day}
			agg[k] = m
		}
		m.TotalAppointments++
		switch a.Status {
		case models.StatusCompleted:
			m.CompletedAppointments++
			m.ServiceRevenue += a.Price()
		case models.StatusCancelled:
			m.CancelledAppointments++
		}
	}

	for _, s := range d.salons {
		for day := from; !day.After(today); day = day.AddDate(0, 0, 1) {
			m, ok := agg[key{s.ID, day}]
			if !ok {
				continue
			}
			m.ProductRevenue = float64(rng.IntN(80))
			m.TotalRevenue = m.ServiceRevenue + m.ProductRevenue
			if rng.IntN(10) > 0 {
				u := float64(m.TotalAppointments) / float64(seedStaffPerSalon*8)
				u = min(u, 1)
				m.UtilizationRate = &u
			}
			m.Telemetry = make(map[string]any, 4)
			for range 4 {
				m.Telemetry[seedFeatures[rng.IntN(len(seedFeatures))]] = rng.IntN(50)
			}
			if rng.IntN(15) == 0 {
				m.Telemetry["app_version"] = "4.2.1"
			}
			d.dailyMetrics = append(d.dailyMetrics, *m)
		}
	}
}

func generatePlatformDays(d *demoData, today time.Time) {
	days := make(map[time.Time]*models.PlatformDay)
	salonsByDay := make(map[time.Time]map[string]struct{})
	seenCustomer := make(map[string]bool)

	dayOf := func(t time.Time) *models.PlatformDay {
		k := t.Truncate(24 * time.Hour)
		p, ok := days[k]
		if !ok {
			p = &models.PlatformDay{Date: k}
			days[k] = p
		}
		return p
	}

	// Visits are walked in time order so returning customers can be told
	// apart from first visits.
	ordered := make([]models.Appointment, len(d.appointments))
	copy(ordered, d.appointments)
	sortAppointmentsByStart(ordered)

	for _, a := range ordered {
		if a.StartTime == nil || a.StartTime.After(today.Add(24*time.Hour)) {
			continue
		}
		p := dayOf(*a.StartTime)
		p.Appointments++
		if a.Status == models.StatusCancelled {
			p.CancelledAppointments++
		}
		if a.Status == models.StatusCompleted {
			p.Revenue += a.Price()
			if seenCustomer[a.CustomerID] {
				p.ReturningCustomers++
			}
			seenCustomer[a.CustomerID] = true
		}
		k := p.Date
		if salonsByDay[k] == nil {
			salonsByDay[k] = make(map[string]struct{})
		}
		salonsByDay[k][a.SalonID] = struct{}{}
	}
	for _, c := range d.customers {
		dayOf(c.CreatedAt).NewCustomers++
	}

	from := today.AddDate(0, 0, -seedHistoryDays)
	for day := from; !day.After(today); day = day.AddDate(0, 0, 1) {
		p, ok := days[day]
		if !ok {
			continue
		}
		p.ActiveSalons = len(salonsByDay[day])
		d.platformDays = append(d.platformDays, *p)
	}
}

func sortAppointmentsByStart(a []models.Appointment) {
	// Stable so ties keep generation order.
	slices.SortStableFunc(a, func(x, y models.Appointment) int {
		switch {
		case x.StartTime == nil && y.StartTime == nil:
			return 0
		case x.StartTime == nil:
			return 1
		case y.StartTime == nil:
			return -1
		default:
			return x.StartTime.Compare(*y.StartTime)
		}
	})
}

func generateSecurity(d *demoData, now time.Time, rng *rand.Rand) {
	users := make([]string, seedSecurityUsers)
	for i := range users {
		users[i] = d.customers[i%len(d.customers)].ID
	}
	ips := make([]string, seedFailedLoginsIPs)
	for i := range ips {
		ips[i] = fmt.Sprintf("203.0.113.%d", 10+i)
	}
	actions := []string{"login", "logout", "update_profile", "export_report", "view_dashboard"}
	severities := []string{"low", "low", "low", "medium", "high"}

	for i := range seedSecurityEvents {
		at := now.Add(-time.Duration(rng.IntN(72*60)) * time.Minute)
		e := models.AuditEvent{
			ID:        seedID("audit", i),
			UserID:    users[rng.IntN(len(users))],
			Action:    actions[rng.IntN(len(actions))],
			EventType: "user_action",
			Severity:  severities[rng.IntN(len(severities))],
			IPAddress: fmt.Sprintf("198.51.100.%d", rng.IntN(200)),
			UserAgent: "Mozilla/5.0",
			CreatedAt: at,
		}
		if rng.IntN(6) == 0 {
			e.Action = "login_failed"
			e.EventType = "failed_login"
			e.ErrorMessage = "invalid password"
			e.IPAddress = ips[rng.IntN(len(ips))]
			if rng.IntN(4) == 0 {
				e.UserID = ""
			}
		}
		d.auditEvents = append(d.auditEvents, e)
	}

	for i := range 90 {
		d.accessAttempts = append(d.accessAttempts, models.AccessAttempt{
			ID:           seedID("access", i),
			UserID:       users[rng.IntN(len(users))],
			ResourceType: "customer_insights",
			Action:       "read",
			IsGranted:    rng.IntN(8) != 0,
			IPAddress:    fmt.Sprintf("198.51.100.%d", rng.IntN(200)),
			CreatedAt:    now.Add(-time.Duration(rng.IntN(48*60)) * time.Minute),
		})
	}

	for i := range 30 {
		last := now.Add(-time.Duration(rng.IntN(600)) * time.Minute)
		d.sessions = append(d.sessions, models.SessionSecurity{
			ID:              seedID("session", i),
			UserID:          users[rng.IntN(len(users))],
			SuspiciousScore: float64(rng.IntN(100)) / 100,
			IsBlocked:       rng.IntN(10) == 0,
			IPAddress:       ips[rng.IntN(len(ips))],
			LastActivityAt:  &last,
			CreatedAt:       last.Add(-2 * time.Hour),
		})
	}

	for i := range 20 {
		start := now.Add(-time.Duration(rng.IntN(24*60)) * time.Minute)
		last := start.Add(time.Duration(rng.IntN(60)) * time.Second)
		e := models.RateLimitEntry{
			Identifier:     ips[i%len(ips)],
			IdentifierType: "ip",
			Endpoint:       "/api/v1/auth/login",
			RequestCount:   10 + rng.IntN(200),
			WindowStartAt:  start,
			LastRequestAt:  &last,
		}
		if e.RequestCount > 150 {
			blocked := last
			until := last.Add(15 * time.Minute)
			e.LastBlockedAt = &blocked
			e.BlockedUntil = &until
		}
		d.rateLimits = append(d.rateLimits, e)
	}

	incidentTypes := []string{"brute_force", "credential_stuffing", "suspicious_export"}
	for i := range 6 {
		d.incidents = append(d.incidents, models.SecurityIncident{
			ID:          seedID("incident", i),
			EventType:   incidentTypes[rng.IntN(len(incidentTypes))],
			Severity:    severities[2+rng.IntN(3)],
			Description: "Automatically raised by demo seed",
			IPAddress:   ips[rng.IntN(len(ips))],
			CreatedAt:   now.Add(-time.Duration(rng.IntN(20*60)) * time.Minute),
		})
	}
}
