// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package analytics

import (
	"reflect"
	"testing"

	"github.com/tomtom215/salonpulse/internal/models"
)

func hasFactor(r models.ChurnRisk, factor string) bool {
	for _, f := range r.Factors {
		if f == factor {
			return true
		}
	}
	return false
}

func TestScoreChurnEmptyHistory(t *testing.T) {
	r := ScoreChurn(nil, testNow)

	if r.RiskLevel != models.RiskUnknown {
		t.Errorf("RiskLevel = %q, want unknown", r.RiskLevel)
	}
	if r.RiskScore != 0 {
		t.Errorf("RiskScore = %d, want 0", r.RiskScore)
	}
	if r.Factors == nil || len(r.Factors) != 0 {
		t.Errorf("Factors = %#v, want empty non-nil slice", r.Factors)
	}
	if r.Recommendation != "No appointment history available" {
		t.Errorf("Recommendation = %q", r.Recommendation)
	}
	if r.DaysSinceLastVisit != nil {
		t.Errorf("DaysSinceLastVisit = %v, want nil", *r.DaysSinceLastVisit)
	}
}

func TestScoreChurnCancellationFactor(t *testing.T) {
	t.Run("cancellation alone stays low", func(t *testing.T) {
		// Six visits ten days apart, last one inside the rhythm.
		history := completed("c1", 5, 15, 25, 35, 45, 55)
		history = append(history,
			appt("c1", 20, models.StatusCancelled),
			appt("c1", 30, models.StatusCancelled),
		)

		r := ScoreChurn(history, testNow)
		if !hasFactor(r, FactorHighCancellation) {
			t.Fatalf("factors = %v, want %q", r.Factors, FactorHighCancellation)
		}
		if r.RiskScore != 25 {
			t.Errorf("RiskScore = %d, want 25", r.RiskScore)
		}
		if r.RiskLevel != models.RiskLow {
			t.Errorf("RiskLevel = %q, want low", r.RiskLevel)
		}
	})

	t.Run("cancellation with long absence reaches medium", func(t *testing.T) {
		// Visits 100 days apart, last one 95 days ago: no rhythm factor, but
		// the absolute absence rule fires.
		history := completed("c1", 95, 195, 295, 395, 495, 595)
		history = append(history,
			appt("c1", 150, models.StatusCancelled),
			appt("c1", 250, models.StatusCancelled),
		)

		r := ScoreChurn(history, testNow)
		if r.TotalVisits != 6 {
			t.Fatalf("TotalVisits = %d, want 6", r.TotalVisits)
		}
		if r.CancellationRate < 0.30 {
			t.Fatalf("CancellationRate = %v, want > 0.30", r.CancellationRate)
		}
		if r.RiskScore < 25 {
			t.Errorf("RiskScore = %d, want >= 25", r.RiskScore)
		}
		if r.RiskLevel == models.RiskLow || r.RiskLevel == models.RiskUnknown {
			t.Errorf("RiskLevel = %q, want at least medium", r.RiskLevel)
		}
		if !hasFactor(r, FactorLongAbsence) {
			t.Errorf("factors = %v, want %q", r.Factors, FactorLongAbsence)
		}
	})
}

func TestScoreChurnRecencyRules(t *testing.T) {
	tests := []struct {
		name      string
		history   []models.Appointment
		want      string
		wantScore int
	}{
		{
			name:      "overdue beyond twice the rhythm",
			history:   completed("c1", 25, 35, 45, 55),
			want:      FactorOverdue,
			wantScore: 30,
		},
		{
			name:      "approaching one and a half rhythms",
			history:   completed("c1", 17, 27, 37, 47),
			want:      FactorApproaching,
			wantScore: 20,
		},
		{
			name:      "single visit long ago",
			history:   completed("c1", 120),
			want:      FactorLongAbsence,
			wantScore: 35, // absence plus few visits
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ScoreChurn(tt.history, testNow)
			if !hasFactor(r, tt.want) {
				t.Fatalf("factors = %v, want %q", r.Factors, tt.want)
			}
			if r.RiskScore != tt.wantScore {
				t.Errorf("RiskScore = %d, want %d", r.RiskScore, tt.wantScore)
			}
		})
	}
}

func TestScoreChurnNoCompletedVisits(t *testing.T) {
	history := []models.Appointment{
		appt("c1", 10, models.StatusCancelled),
		appt("c1", 20, models.StatusNoShow),
	}
	r := ScoreChurn(history, testNow)

	// Infinite absence (+25) and few visits (+10); rates divide by zero visits.
	if r.RiskScore != 35 {
		t.Errorf("RiskScore = %d, want 35", r.RiskScore)
	}
	if r.RiskLevel != models.RiskMedium {
		t.Errorf("RiskLevel = %q, want medium", r.RiskLevel)
	}
	if r.DaysSinceLastVisit != nil {
		t.Errorf("DaysSinceLastVisit should be nil without visits")
	}
	if r.CancellationRate != 0 || r.NoShowRate != 0 {
		t.Errorf("rates = %v/%v, want 0/0", r.CancellationRate, r.NoShowRate)
	}
}

func TestScoreChurnDecliningFrequency(t *testing.T) {
	history := completed("c1", 5, 35, 65, 70, 75, 80, 85)
	r := ScoreChurn(history, testNow)

	if !hasFactor(r, FactorDecliningVisits) {
		t.Fatalf("factors = %v, want %q", r.Factors, FactorDecliningVisits)
	}
	if r.RiskScore != 15 {
		t.Errorf("RiskScore = %d, want 15", r.RiskScore)
	}
}

func TestScoreChurnNoShows(t *testing.T) {
	history := completed("c1", 5, 15, 25, 35, 45)
	history = append(history, appt("c1", 12, models.StatusNoShow))

	r := ScoreChurn(history, testNow)
	// 1 no-show over 5 visits is 0.2, which is not above 0.2.
	if !hasFactor(r, FactorSomeNoShows) {
		t.Errorf("factors = %v, want %q", r.Factors, FactorSomeNoShows)
	}

	history = append(history, appt("c1", 22, models.StatusNoShow))
	r = ScoreChurn(history, testNow)
	if !hasFactor(r, FactorHighNoShow) {
		t.Errorf("factors = %v, want %q", r.Factors, FactorHighNoShow)
	}
}

func TestScoreChurnOrderIndependent(t *testing.T) {
	history := completed("c1", 5, 35, 65, 70, 75)
	history = append(history, appt("c1", 40, models.StatusCancelled))

	reversed := make([]models.Appointment, len(history))
	for i := range history {
		reversed[len(history)-1-i] = history[i]
	}

	a := ScoreChurn(history, testNow)
	b := ScoreChurn(reversed, testNow)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("results differ by input order:\n%+v\n%+v", a, b)
	}
}

func TestChurnLevelBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  models.RiskLevel
	}{
		{0, models.RiskLow},
		{29, models.RiskLow},
		{30, models.RiskMedium},
		{49, models.RiskMedium},
		{50, models.RiskHigh},
		{69, models.RiskHigh},
		{70, models.RiskCritical},
		{125, models.RiskCritical},
	}
	for _, tt := range tests {
		if got := ChurnLevel(tt.score); got != tt.want {
			t.Errorf("ChurnLevel(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestScoreChurnCountsUndatedVisits(t *testing.T) {
	history := completed("c1", 5, 15, 25)
	history = append(history,
		models.Appointment{ID: "undated", CustomerID: "c1", Status: models.StatusCompleted},
		appt("c1", 12, models.StatusCancelled),
	)

	r := ScoreChurn(history, testNow)
	if r.TotalVisits != 4 {
		t.Errorf("TotalVisits = %d, want 4", r.TotalVisits)
	}
	if !almostEqual(r.CancellationRate, 0.25) {
		t.Errorf("CancellationRate = %v, want 0.25", r.CancellationRate)
	}
	if r.DaysSinceLastVisit == nil || *r.DaysSinceLastVisit != 5 || r.AvgDaysBetweenVisits != 10 {
		t.Errorf("recency = %v, gap = %v; want 5 and 10 from dated visits", r.DaysSinceLastVisit, r.AvgDaysBetweenVisits)
	}

	onlyUndated := ScoreChurn([]models.Appointment{{CustomerID: "c1", Status: models.StatusCompleted}}, testNow)
	if onlyUndated.TotalVisits != 1 || onlyUndated.DaysSinceLastVisit != nil {
		t.Errorf("undated only = %+v", onlyUndated)
	}
}
