// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/salonpulse/internal/models"
)

// Growth window constants.
const (
	// GrowthWindowDays is the length of the current and previous windows.
	GrowthWindowDays = 30

	// RetentionSeriesDays is how many trailing days the retention series keeps.
	RetentionSeriesDays = 30

	// BreakdownLimit caps acquisition breakdown categories.
	BreakdownLimit = 6

	// DateLayout formats series dates.
	DateLayout = "2006-01-02"

	windowCurrent  = "current"
	windowPrevious = "previous"
)

// sortedDays returns a copy of days ordered by date ascending.
func sortedDays(days []models.PlatformDay) []models.PlatformDay {
	out := make([]models.PlatformDay, len(days))
	copy(out, days)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// dayReducer is GroupSum or GroupAverage over platform days.
type dayReducer func([]models.PlatformDay, KeyFunc[models.PlatformDay], KeyPolicy, func(models.PlatformDay) float64) map[string]float64

// BuildGrowth computes the growth summary and series. The current window
// is the last 30 days before now and the previous window the 30 days before
// that. Revenue, new customers and appointments are summed; active salons is
// a stock metric and is averaged.
func BuildGrowth(days []models.PlatformDay, now time.Time) models.Growth {
	rows := sortedDays(days)
	w := NewWindows(now)
	currentStart := w.Since(GrowthWindowDays)
	previousStart := w.Since(2 * GrowthWindowDays)

	window := func(d models.PlatformDay) (string, bool) {
		switch {
		case !d.Date.Before(currentStart):
			return windowCurrent, true
		case Within(d.Date, previousStart, currentStart):
			return windowPrevious, true
		default:
			return "", false
		}
	}
	delta := func(value func(models.PlatformDay) float64, reduce dayReducer) models.GrowthDelta {
		byWindow := reduce(rows, window, DropMissing, value)
		return Delta(byWindow[windowCurrent], byWindow[windowPrevious])
	}

	revenue := func(d models.PlatformDay) float64 { return d.Revenue }
	newCustomers := func(d models.PlatformDay) float64 { return float64(d.NewCustomers) }
	appointments := func(d models.PlatformDay) float64 { return float64(d.Appointments) }
	activeSalons := func(d models.PlatformDay) float64 { return float64(d.ActiveSalons) }

	series := make([]models.GrowthPoint, 0, len(rows))
	for _, r := range rows {
		series = append(series, models.GrowthPoint{
			Date:                  r.Date.UTC().Format(DateLayout),
			Revenue:               models.Finite(r.Revenue),
			Appointments:          r.Appointments,
			NewCustomers:          r.NewCustomers,
			ReturningCustomers:    r.ReturningCustomers,
			ActiveSalons:          r.ActiveSalons,
			CancelledAppointments: r.CancelledAppointments,
		})
	}

	return models.Growth{
		Summary: models.GrowthSummary{
			Revenue:      delta(revenue, GroupSum[models.PlatformDay]),
			NewCustomers: delta(newCustomers, GroupSum[models.PlatformDay]),
			ActiveSalons: delta(activeSalons, GroupAverage[models.PlatformDay]),
			Appointments: delta(appointments, GroupSum[models.PlatformDay]),
		},
		Series: series,
	}
}

// LatestSnapshotDate is the date of the newest row, nil without rows.
func LatestSnapshotDate(days []models.PlatformDay) *string {
	if len(days) == 0 {
		return nil
	}
	rows := sortedDays(days)
	d := rows[len(rows)-1].Date.UTC().Format(DateLayout)
	return &d
}

// BuildRetention computes the retention summary from totals over all rows
// and a series over the trailing RetentionSeriesDays rows.
func BuildRetention(days []models.PlatformDay) models.Retention {
	rows := sortedDays(days)

	var newTotal, returningTotal, cancelledTotal, appointmentsTotal int
	for _, r := range rows {
		newTotal += r.NewCustomers
		returningTotal += r.ReturningCustomers
		cancelledTotal += r.CancelledAppointments
		appointmentsTotal += r.Appointments
	}

	tail := rows
	if len(tail) > RetentionSeriesDays {
		tail = tail[len(tail)-RetentionSeriesDays:]
	}
	series := make([]models.RetentionPoint, 0, len(tail))
	for _, r := range tail {
		series = append(series, models.RetentionPoint{
			Date:                  r.Date.UTC().Format(DateLayout),
			RetentionRate:         RetentionRate(r.ReturningCustomers, r.NewCustomers),
			ChurnRate:             Ratio(float64(r.CancelledAppointments), float64(r.Appointments)),
			NewCustomers:          r.NewCustomers,
			ReturningCustomers:    r.ReturningCustomers,
			CancelledAppointments: r.CancelledAppointments,
		})
	}

	return models.Retention{
		RetentionRate:      RetentionRate(returningTotal, newTotal),
		ChurnRate:          Ratio(float64(cancelledTotal), float64(appointmentsTotal)),
		ReturningCustomers: returningTotal,
		NewCustomers:       newTotal,
		Series:             series,
	}
}

// RetentionRate is returning / (new + returning), 0 when both are 0.
func RetentionRate(returning, newCount int) float64 {
	return Ratio(float64(returning), float64(returning+newCount))
}

// BuildAcquisition summarizes signups. users must already be limited to
// the snapshot window; their count is the breakdown denominator.
func BuildAcquisition(users []models.CustomerProfile, now time.Time) models.Acquisition {
	w := NewWindows(now)
	last30, last7, prev7 := 0, 0, 0
	for _, u := range users {
		if u.CreatedAt.IsZero() {
			continue
		}
		if !u.CreatedAt.Before(w.Since(30)) {
			last30++
		}
		if !u.CreatedAt.Before(w.Since(7)) {
			last7++
		} else if !u.CreatedAt.Before(w.Since(14)) {
			prev7++
		}
	}

	total := len(users)
	role := func(u models.CustomerProfile) (string, bool) { return u.Role, u.Role != "" }
	country := func(u models.CustomerProfile) (string, bool) {
		return strings.ToUpper(strings.TrimSpace(u.CountryCode)), u.CountryCode != ""
	}

	return models.Acquisition{
		TotalNewUsers:  total,
		NewUsersLast30: last30,
		NewUsersLast7:  last7,
		NewUsersPrev7:  prev7,
		DeltaLast7Days: last7 - prev7,
		ByRole:         Breakdown(users, role, Sentinel(UnknownKey), total),
		ByCountry:      Breakdown(users, country, Sentinel(UnknownCountry), total),
	}
}

// Breakdown counts records per category, keeps the BreakdownLimit largest
// and expresses each as a fraction of total. It returns an empty slice when
// there are no records or total is 0.
func Breakdown[T any](records []T, key KeyFunc[T], policy KeyPolicy, total int) []models.BreakdownItem {
	if len(records) == 0 || total <= 0 {
		return []models.BreakdownItem{}
	}
	ranked := Top(RankCounts(GroupCount(records, key, policy)), BreakdownLimit)
	out := make([]models.BreakdownItem, 0, len(ranked))
	for _, item := range ranked {
		out = append(out, models.BreakdownItem{
			Label:      item.Key,
			Count:      item.Count,
			Percentage: Ratio(float64(item.Count), float64(total)),
		})
	}
	return out
}
