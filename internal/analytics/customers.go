// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package analytics

import (
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/salonpulse/internal/models"
)

// Customer insight windows in days.
const (
	AtRiskMinDays       = 60
	AtRiskMaxDays       = 180
	ReactivationMinDays = 90
	ReactivationMaxDays = 365
	DefaultAtRiskLimit  = 20
	DefaultTopLimit     = 10
	unknownCustomerName = "Unknown"
)

// CustomerInputs are the fetched record sets of one salon.
type CustomerInputs struct {
	SalonID      string
	Appointments []models.Appointment
	Transactions []models.Transaction
	Reviews      []models.Review
	Profiles     map[string]models.CustomerProfile
}

// CustomerOptions tunes BuildCustomerInsights.
type CustomerOptions struct {
	Rules       SegmentRules
	Workers     int
	AtRiskLimit int
	TopLimit    int
}

func (o CustomerOptions) withDefaults() CustomerOptions {
	if o.Rules == "" {
		o.Rules = RulesDecisionList
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.AtRiskLimit <= 0 {
		o.AtRiskLimit = DefaultAtRiskLimit
	}
	if o.TopLimit <= 0 {
		o.TopLimit = DefaultTopLimit
	}
	return o
}

type customerRecords struct {
	id           string
	appointments []models.Appointment
}

// groupByCustomer splits appointments per customer, sorted by customer id.
// Appointments without a customer are dropped.
func groupByCustomer(appointments []models.Appointment) []customerRecords {
	byCustomer := make(map[string][]models.Appointment)
	for _, a := range appointments {
		if a.CustomerID == "" {
			continue
		}
		byCustomer[a.CustomerID] = append(byCustomer[a.CustomerID], a)
	}
	out := make([]customerRecords, 0, len(byCustomer))
	for id, list := range byCustomer {
		out = append(out, customerRecords{id: id, appointments: list})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// mostFrequent returns the most common non-empty value, lowest value on ties.
func mostFrequent(values []string) *string {
	counts := make(map[string]int)
	for _, v := range values {
		if v != "" {
			counts[v]++
		}
	}
	ranked := RankCounts(counts)
	if len(ranked) == 0 {
		return nil
	}
	best := ranked[0].Key
	return &best
}

type reviewSummary struct {
	total float64
	count int
}

// BuildCustomerMetrics computes one row per customer. Customers are
// processed by a bounded worker pool; the result is ordered by customer id.
func BuildCustomerMetrics(in CustomerInputs, now time.Time, opts CustomerOptions) []models.CustomerMetrics {
	opts = opts.withDefaults()
	revenue := AttributeRevenue(in.Appointments, in.Transactions)

	reviews := make(map[string]reviewSummary)
	for _, r := range in.Reviews {
		rating := models.ClampRating(r.Rating)
		if r.CustomerID == "" || rating == 0 {
			continue
		}
		s := reviews[r.CustomerID]
		s.total += float64(rating)
		s.count++
		reviews[r.CustomerID] = s
	}

	groups := groupByCustomer(in.Appointments)
	out := make([]models.CustomerMetrics, len(groups))

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, grp := range groups {
		g.Go(func() error {
			out[i] = customerMetrics(grp, in.Profiles[grp.id], revenue[grp.id], reviews[grp.id], now, opts.Rules)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func customerMetrics(grp customerRecords, profile models.CustomerProfile, spent float64, rs reviewSummary, now time.Time, rules SegmentRules) models.CustomerMetrics {
	h := newVisitHistory(grp.appointments)
	services := make([]string, 0, len(grp.appointments))
	staff := make([]string, 0, len(grp.appointments))
	for _, a := range grp.appointments {
		if a.IsCompleted() {
			services = append(services, a.ServiceID)
			staff = append(staff, a.StaffID)
		}
	}

	m := models.CustomerMetrics{
		CustomerID:        grp.id,
		Name:              models.OrDefault(profile.Name, unknownCustomerName),
		Email:             profile.Email,
		TotalVisits:       h.completed,
		TotalSpent:        spent,
		AverageTicket:     RoundTo(Ratio(spent, float64(h.completed)), 2),
		FavoriteServiceID: mostFrequent(services),
		FavoriteStaffID:   mostFrequent(staff),
		ReviewCount:       rs.count,
	}
	if rs.count > 0 {
		avg := RoundTo(rs.total/float64(rs.count), 2)
		m.AverageRating = &avg
	}

	cancellation := Ratio(float64(h.cancelled), float64(len(grp.appointments)))
	m.CancellationRate = RoundTo(cancellation*100, 2)

	var elapsed *float64
	if len(h.visits) > 0 {
		last := h.visits[0].UTC().Format(time.RFC3339)
		days := h.elapsedSinceLast(now)
		m.LastVisit = &last
		m.DaysSinceLastVisit = h.daysSinceLast(now)
		elapsed = &days
	}

	m.Segment = rules.Classify(SegmentInput{
		TotalVisits:        h.completed,
		DaysSinceLastVisit: elapsed,
		LifetimeValue:      spent,
		CancellationRate:   cancellation,
	})

	risk := ScoreChurn(grp.appointments, now)
	m.ChurnRiskLevel = risk.RiskLevel
	m.ChurnRiskScore = risk.RiskScore
	return m
}

// lastVisits returns the latest completed visit per customer.
func lastVisits(appointments []models.Appointment) map[string]time.Time {
	latest := GroupLastByDate(appointments,
		func(a models.Appointment) (string, bool) { return a.CustomerID, a.IsCompleted() },
		DropMissing,
		models.Appointment.VisitTime)
	out := make(map[string]time.Time, len(latest))
	for id, a := range latest {
		out[id] = *a.StartTime
	}
	return out
}

// overdueBetween lists customers whose last dated visit is between minDays
// and maxDays before now, inclusive on both ends, compared in fractional
// days. mostOverdueFirst orders by the oldest last visit first, otherwise
// the most recent first; ties go to the lower customer id.
func overdueBetween(appointments []models.Appointment, profiles map[string]models.CustomerProfile, now time.Time, minDays, maxDays float64, mostOverdueFirst bool) []models.OverdueCustomer {
	type candidate struct {
		id   string
		last time.Time
	}
	found := make([]candidate, 0)
	for id, last := range lastVisits(appointments) {
		elapsed := ElapsedDays(last, now)
		if elapsed < minDays || elapsed > maxDays {
			continue
		}
		found = append(found, candidate{id: id, last: last})
	}
	sort.Slice(found, func(i, j int) bool {
		if !found[i].last.Equal(found[j].last) {
			return found[i].last.Before(found[j].last) == mostOverdueFirst
		}
		return found[i].id < found[j].id
	})

	out := make([]models.OverdueCustomer, 0, len(found))
	for _, c := range found {
		p := profiles[c.id]
		out = append(out, models.OverdueCustomer{
			CustomerID:         c.id,
			Name:               models.OrDefault(p.Name, unknownCustomerName),
			Email:              p.Email,
			Phone:              p.Phone,
			LastVisit:          c.last.UTC().Format(time.RFC3339),
			DaysSinceLastVisit: RoundDays(c.last, now),
		})
	}
	return out
}

// AtRiskCustomers lists customers last seen 60 to 180 days ago, most
// overdue first, truncated to limit.
func AtRiskCustomers(appointments []models.Appointment, profiles map[string]models.CustomerProfile, now time.Time, limit int) []models.OverdueCustomer {
	list := overdueBetween(appointments, profiles, now, AtRiskMinDays, AtRiskMaxDays, true)
	return Top(list, limit)
}

// ReactivationOpportunities lists customers last seen 90 to 365 days ago,
// most recently lapsed first.
func ReactivationOpportunities(appointments []models.Appointment, profiles map[string]models.CustomerProfile, now time.Time) models.Reactivation {
	list := overdueBetween(appointments, profiles, now, ReactivationMinDays, ReactivationMaxDays, false)
	return models.Reactivation{TotalOpportunities: len(list), Customers: list}
}

// TopCustomers orders customers by completed visits, then spend, then id.
func TopCustomers(customers []models.CustomerMetrics, limit int) []models.CustomerMetrics {
	out := make([]models.CustomerMetrics, 0, len(customers))
	for _, c := range customers {
		if c.TotalVisits > 0 {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalVisits != out[j].TotalVisits {
			return out[i].TotalVisits > out[j].TotalVisits
		}
		if out[i].TotalSpent != out[j].TotalSpent {
			return out[i].TotalSpent > out[j].TotalSpent
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return Top(out, limit)
}

// CustomerRetention splits customers with at least one completed visit
// into new (exactly one visit) and returning. Rates are percentages.
func CustomerRetention(customers []models.CustomerMetrics) models.RetentionMetrics {
	var total, newCount int
	for _, c := range customers {
		if c.TotalVisits == 0 {
			continue
		}
		total++
		if c.TotalVisits == 1 {
			newCount++
		}
	}
	returning := total - newCount
	retention := RoundTo(Ratio(float64(returning), float64(total))*100, 2)
	churn := 0.0
	if total > 0 {
		churn = RoundTo(100-retention, 2)
	}
	return models.RetentionMetrics{
		TotalCustomers:     total,
		NewCustomers:       newCount,
		ReturningCustomers: returning,
		RetentionRate:      retention,
		ChurnRate:          churn,
	}
}
