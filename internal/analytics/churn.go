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

// Churn factor labels.
const (
	FactorOverdue           = "Overdue for return visit"
	FactorApproaching       = "Approaching typical return window"
	FactorLongAbsence       = "Long time since last visit"
	FactorHighCancellation  = "High cancellation rate"
	FactorModCancellation   = "Moderate cancellation rate"
	FactorHighNoShow        = "High no-show rate"
	FactorSomeNoShows       = "Some no-shows"
	FactorDecliningVisits   = "Decreasing visit frequency"
	FactorFewVisits         = "New customer with few visits"
	recommendationNoHistory = "No appointment history available"
)

// Churn level thresholds, inclusive lower bounds.
const (
	churnCriticalScore = 70
	churnHighScore     = 50
	churnMediumScore   = 30

	// churnAbsenceDays applies when there is no visit rhythm to compare to.
	churnAbsenceDays = 90
)

var churnRecommendations = map[models.RiskLevel]string{
	models.RiskCritical: "Immediate action required: Reach out with personalized offer or exclusive promotion",
	models.RiskHigh:     "High risk: Send re-engagement campaign with special incentive",
	models.RiskMedium:   "Medium risk: Send reminder or check-in message",
	models.RiskLow:      "Low risk: Continue regular engagement",
}

// visitHistory is the completed-visit view of one customer.
type visitHistory struct {
	// completed counts every completed appointment, dated or not.
	completed int

	// visits are the dated completed start times, most recent first.
	visits    []time.Time
	cancelled int
	noShows   int
}

func newVisitHistory(history []models.Appointment) visitHistory {
	h := visitHistory{visits: make([]time.Time, 0, len(history))}
	for _, a := range history {
		switch {
		case a.IsCompleted():
			h.completed++
			if at, ok := a.VisitTime(); ok {
				h.visits = append(h.visits, at)
			}
		case a.Status == models.StatusCancelled:
			h.cancelled++
		case a.Status == models.StatusNoShow:
			h.noShows++
		}
	}
	sort.SliceStable(h.visits, func(i, j int) bool {
		return h.visits[i].After(h.visits[j])
	})
	return h
}

// elapsedSinceLast is the fractional days since the latest dated visit,
// +Inf without one.
func (h visitHistory) elapsedSinceLast(now time.Time) float64 {
	if len(h.visits) == 0 {
		return math.Inf(1)
	}
	return ElapsedDays(h.visits[0], now)
}

// daysSinceLast is the rounded display form of elapsedSinceLast, nil
// without a dated visit.
func (h visitHistory) daysSinceLast(now time.Time) *int {
	if len(h.visits) == 0 {
		return nil
	}
	days := RoundDays(h.visits[0], now)
	return &days
}

// meanGap is the average number of days between consecutive visits in
// visits, 0 with fewer than two visits. visits may be sorted either way.
func meanGap(visits []time.Time) float64 {
	if len(visits) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(visits); i++ {
		total += math.Abs(ElapsedDays(visits[i], visits[i-1]))
	}
	return total / float64(len(visits)-1)
}

// ScoreChurn computes the churn risk of one customer from their full
// appointment history at the given salon. The order of history does not
// matter. An empty history yields the unknown level with a zero score.
func ScoreChurn(history []models.Appointment, now time.Time) models.ChurnRisk {
	if len(history) == 0 {
		return models.ChurnRisk{
			RiskLevel:      models.RiskUnknown,
			RiskScore:      0,
			Factors:        []string{},
			Recommendation: recommendationNoHistory,
		}
	}

	h := newVisitHistory(history)
	totalVisits := h.completed
	daysSince := h.elapsedSinceLast(now)
	avg := meanGap(h.visits)
	cancellationRate := Ratio(float64(h.cancelled), float64(totalVisits))
	noShowRate := Ratio(float64(h.noShows), float64(totalVisits))

	score := 0
	factors := make([]string, 0, 5)
	add := func(points int, factor string) {
		score += points
		factors = append(factors, factor)
	}

	switch {
	case avg > 0 && daysSince > 2*avg:
		add(30, FactorOverdue)
	case avg > 0 && daysSince > 1.5*avg:
		add(20, FactorApproaching)
	case daysSince > churnAbsenceDays:
		add(25, FactorLongAbsence)
	}

	switch {
	case cancellationRate > 0.30:
		add(25, FactorHighCancellation)
	case cancellationRate > 0.15:
		add(15, FactorModCancellation)
	}

	switch {
	case noShowRate > 0.20:
		add(20, FactorHighNoShow)
	case noShowRate > 0.10:
		add(10, FactorSomeNoShows)
	}

	if len(h.visits) >= 3 {
		recent := meanGap(h.visits[:3])
		if avg > 0 && recent > 1.3*avg {
			add(15, FactorDecliningVisits)
		}
	}

	if totalVisits < 3 {
		add(10, FactorFewVisits)
	}

	level := ChurnLevel(score)
	result := models.ChurnRisk{
		RiskLevel:            level,
		RiskScore:            score,
		Factors:              factors,
		Recommendation:       churnRecommendations[level],
		AvgDaysBetweenVisits: math.Round(avg),
		TotalVisits:          totalVisits,
		CancellationRate:     RoundTo(cancellationRate, 4),
		NoShowRate:           RoundTo(noShowRate, 4),
	}
	result.DaysSinceLastVisit = h.daysSinceLast(now)
	return result
}

// ChurnLevel maps a churn score to its level.
func ChurnLevel(score int) models.RiskLevel {
	switch {
	case score >= churnCriticalScore:
		return models.RiskCritical
	case score >= churnHighScore:
		return models.RiskHigh
	case score >= churnMediumScore:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
