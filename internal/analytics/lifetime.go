// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/tomtom215/salonpulse/internal/models"
)

// ProjectionYears is the horizon of the projected lifetime value.
const ProjectionYears = 3

// CohortMonthLayout formats cohort keys as YYYY-MM.
const CohortMonthLayout = "2006-01"

// AttributeRevenue returns revenue per customer.
//
// Transactions with an appointment id that matches a known appointment are
// credited to that appointment's customer. All other transactions land in
// the uncategorized bucket of their own customer id, which is added to the
// same total. Customers without any transaction fall back to the booked
// price of their completed appointments. Totals never go below 0.
func AttributeRevenue(appointments []models.Appointment, transactions []models.Transaction) map[string]float64 {
	owner := make(map[string]string, len(appointments))
	for _, a := range appointments {
		if a.ID != "" && a.CustomerID != "" {
			owner[a.ID] = a.CustomerID
		}
	}

	credited := func(t models.Transaction) (string, bool) {
		if customer, ok := owner[t.AppointmentID]; ok && t.AppointmentID != "" {
			return customer, true
		}
		return t.CustomerID, t.CustomerID != ""
	}
	out := GroupSum(transactions, credited, DropMissing, models.Transaction.SignedAmount)

	// Booked prices only count for customers without any transaction.
	fallback := GroupSum(appointments,
		func(a models.Appointment) (string, bool) {
			if !a.IsCompleted() || a.CustomerID == "" {
				return "", false
			}
			_, paid := out[a.CustomerID]
			return a.CustomerID, !paid
		},
		DropMissing, models.Appointment.Price)
	for c, v := range fallback {
		out[c] = v
	}

	for c, v := range out {
		out[c] = RoundTo(clampNonNegative(v), 2)
	}
	return out
}

// completedVisits counts the completed appointments of one customer and
// returns the dated ones oldest first.
func completedVisits(customerID string, appointments []models.Appointment) (int, []time.Time) {
	count := 0
	visits := make([]time.Time, 0)
	for _, a := range appointments {
		if a.CustomerID != customerID || !a.IsCompleted() {
			continue
		}
		count++
		if at, ok := a.VisitTime(); ok {
			visits = append(visits, at)
		}
	}
	sort.Slice(visits, func(i, j int) bool { return visits[i].Before(visits[j]) })
	return count, visits
}

// LifetimeValue computes the realized and projected value of one customer.
// appointments and transactions may contain other customers' records.
func LifetimeValue(customerID string, appointments []models.Appointment, transactions []models.Transaction) models.LifetimeValue {
	result := models.LifetimeValue{CustomerID: customerID}

	count, visits := completedVisits(customerID, appointments)
	revenue := AttributeRevenue(appointments, transactions)[customerID]

	result.TotalRevenue = revenue
	result.VisitCount = count
	if count == 0 {
		return result
	}

	aov := Ratio(revenue, float64(count))
	avg := meanGap(visits)
	visitsPerYear := float64(count)
	if avg > 0 {
		visitsPerYear = 365 / avg
	}

	result.AverageOrderValue = RoundTo(aov, 2)
	result.AvgDaysBetweenVisits = math.Round(avg)
	result.VisitsPerYear = RoundTo(visitsPerYear, 2)
	result.ProjectedLTV = math.Round(clampNonNegative(visitsPerYear * aov * ProjectionYears))
	if len(visits) > 0 {
		first, last := visits[0], visits[len(visits)-1]
		result.FirstVisit = &first
		result.LastVisit = &last
		result.TenureDays = RoundDays(first, last)
	}
	return result
}

// BuildCohorts groups customers by the calendar month of their first
// completed visit. Months are compared in UTC and returned newest first.
func BuildCohorts(appointments []models.Appointment, revenue map[string]float64) []models.Cohort {
	firstVisits := make(map[string]time.Time)
	for _, a := range appointments {
		at, ok := a.VisitTime()
		if !ok || a.CustomerID == "" {
			continue
		}
		if first, seen := firstVisits[a.CustomerID]; !seen || at.Before(first) {
			firstVisits[a.CustomerID] = at
		}
	}

	type member struct {
		customer string
		month    string
	}
	members := make([]member, 0, len(firstVisits))
	for customer, first := range firstVisits {
		members = append(members, member{customer: customer, month: first.UTC().Format(CohortMonthLayout)})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].customer < members[j].customer })

	month := func(m member) (string, bool) { return m.month, true }
	counts := GroupUniqueCount(members, month, DropMissing, func(m member) (string, bool) { return m.customer, true })
	totals := GroupSum(members, month, DropMissing, func(m member) float64 { return revenue[m.customer] })
	ids := make(map[string][]string, len(counts))
	for _, m := range members {
		ids[m.month] = append(ids[m.month], m.customer)
	}

	cohorts := make([]models.Cohort, 0, len(counts))
	for key, count := range counts {
		total := totals[key]
		cohorts = append(cohorts, models.Cohort{
			CohortMonth:    key,
			CustomerIDs:    ids[key],
			CustomerCount:  count,
			TotalRevenue:   RoundTo(total, 2),
			AverageRevenue: RoundTo(Ratio(total, float64(count)), 2),
		})
	}
	sort.Slice(cohorts, func(i, j int) bool {
		return cohorts[i].CohortMonth > cohorts[j].CohortMonth
	})
	return cohorts
}
