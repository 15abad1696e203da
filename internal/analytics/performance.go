// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package analytics

import (
	"sort"

	"github.com/tomtom215/salonpulse/internal/models"
)

// Ranking limits.
const (
	FeatureUsageLimit = 10
	TopSalonsLimit    = 5
)

// FeatureUsage sums every finite numeric telemetry counter across rows and
// returns the FeatureUsageLimit largest. Rows without telemetry are skipped.
func FeatureUsage(metrics []models.DailyMetric) models.FeatureUsage {
	type sample struct {
		key   string
		value float64
	}
	samples := make([]sample, 0)
	for _, m := range metrics {
		for key, raw := range m.Telemetry {
			if v, ok := AsFinite(raw); ok {
				samples = append(samples, sample{key: key, value: v})
			}
		}
	}
	totals := GroupSum(samples,
		func(s sample) (string, bool) { return s.key, true },
		DropMissing,
		func(s sample) float64 { return s.value })

	ranked := Top(Rank(totals), FeatureUsageLimit)
	items := make([]models.FeatureUsageItem, 0, len(ranked))
	for _, r := range ranked {
		items = append(items, models.FeatureUsageItem{Key: r.Key, Count: r.Value})
	}
	return models.FeatureUsage{Items: items}
}

// SalonAggregate is the accumulated performance of one salon.
type SalonAggregate struct {
	SalonID               string
	Revenue               float64
	Appointments          int
	AvgUtilization        float64
	RevenuePerAppointment float64
}

// AggregateSalons accumulates daily metrics per salon, ordered by revenue
// descending and salon id ascending. Revenue is total_revenue when set,
// otherwise service plus product revenue. Utilization is averaged over the
// days that reported it.
func AggregateSalons(metrics []models.DailyMetric) []SalonAggregate {
	salon := func(m models.DailyMetric) (string, bool) { return m.SalonID, m.SalonID != "" }
	reportedUtilization := func(m models.DailyMetric) (string, bool) {
		return m.SalonID, m.SalonID != "" && models.FinitePtr(m.UtilizationRate) != nil
	}

	revenue := GroupSum(metrics, salon, DropMissing, dailyRevenue)
	appointments := GroupSum(metrics, salon, DropMissing, func(m models.DailyMetric) float64 {
		return float64(models.NonNegative(m.TotalAppointments))
	})
	utilization := GroupAverage(metrics, reportedUtilization, DropMissing, func(m models.DailyMetric) float64 {
		return *m.UtilizationRate
	})

	out := make([]SalonAggregate, 0, len(revenue))
	for id, rev := range revenue {
		count := int(appointments[id])
		out = append(out, SalonAggregate{
			SalonID:               id,
			Revenue:               rev,
			Appointments:          count,
			AvgUtilization:        utilization[id],
			RevenuePerAppointment: Ratio(rev, float64(count)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].SalonID < out[j].SalonID
	})
	return out
}

// dailyRevenue is total_revenue when set, otherwise service plus product.
func dailyRevenue(m models.DailyMetric) float64 {
	if revenue := models.Finite(m.TotalRevenue); revenue != 0 {
		return revenue
	}
	return models.Finite(m.ServiceRevenue) + models.Finite(m.ProductRevenue)
}

// TopSalonIDs returns the ids of the n highest-revenue salons, used to
// fetch enrichment details in one batch before ranking.
func TopSalonIDs(aggregates []SalonAggregate, n int) []string {
	top := Top(aggregates, n)
	ids := make([]string, 0, len(top))
	for _, a := range top {
		ids = append(ids, a.SalonID)
	}
	return ids
}

// RankSalons builds the performance benchmark and the top n salons joined
// with details. A salon without details is named by its id.
func RankSalons(aggregates []SalonAggregate, details map[string]models.SalonDetail, n int) models.Performance {
	perf := models.Performance{
		SalonCount: len(aggregates),
		TopSalons:  []models.SalonPerformance{},
	}
	if len(aggregates) == 0 {
		return perf
	}

	var revenue, utilization float64
	var appointments int
	for _, a := range aggregates {
		revenue += a.Revenue
		appointments += a.Appointments
		utilization += a.AvgUtilization
	}
	count := float64(len(aggregates))
	perf.AvgUtilization = Ratio(utilization, count)
	perf.RevenuePerSalon = Ratio(revenue, count)
	perf.AppointmentsPerSalon = Ratio(float64(appointments), count)

	for _, a := range Top(aggregates, n) {
		entry := models.SalonPerformance{
			SalonID:               a.SalonID,
			SalonName:             a.SalonID,
			Revenue:               a.Revenue,
			Appointments:          a.Appointments,
			AvgUtilization:        a.AvgUtilization,
			RevenuePerAppointment: a.RevenuePerAppointment,
		}
		if d, ok := details[a.SalonID]; ok {
			switch {
			case d.Name != "":
				entry.SalonName = d.Name
			case d.BusinessName != "":
				entry.SalonName = d.BusinessName
			}
			if d.SubscriptionTier != "" {
				tier := d.SubscriptionTier
				entry.SubscriptionTier = &tier
			}
			entry.RatingAverage = models.FinitePtr(d.RatingAverage)
		}
		perf.TopSalons = append(perf.TopSalons, entry)
	}
	return perf
}
