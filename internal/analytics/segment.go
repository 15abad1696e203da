// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package analytics

import (
	"fmt"
	"strings"

	"github.com/tomtom215/salonpulse/internal/models"
)

// SegmentRules selects which segmentation family is applied.
type SegmentRules string

const (
	// RulesDecisionList is the canonical lifecycle classification.
	RulesDecisionList SegmentRules = "decision_list"

	// RulesRFM is the recency and frequency classification kept for
	// dashboards built on the older segment names.
	RulesRFM SegmentRules = "rfm"
)

// ParseSegmentRules validates a configured rule family name.
func ParseSegmentRules(s string) (SegmentRules, error) {
	switch SegmentRules(strings.ToLower(strings.TrimSpace(s))) {
	case RulesDecisionList, "":
		return RulesDecisionList, nil
	case RulesRFM:
		return RulesRFM, nil
	default:
		return "", fmt.Errorf("unknown segment rules %q", s)
	}
}

// SegmentInput is what both rule families classify on.
type SegmentInput struct {
	TotalVisits int

	// DaysSinceLastVisit is the fractional days since the latest dated
	// visit, nil for customers without one.
	DaysSinceLastVisit *float64

	LifetimeValue float64

	// CancellationRate is a fraction of all appointments, 0..1.
	CancellationRate float64
}

// Classify applies the selected family.
func (r SegmentRules) Classify(in SegmentInput) models.Segment {
	if r == RulesRFM {
		return ClassifyRFM(in)
	}
	return ClassifySegment(in)
}

// ClassifySegment is the ordered decision list. The first matching rule
// wins; recency is checked before value so a lapsed VIP is churned.
// A customer who never completed a visit has no recency and is new.
func ClassifySegment(in SegmentInput) models.Segment {
	if in.DaysSinceLastVisit != nil && *in.DaysSinceLastVisit > 90 {
		return models.SegmentChurned
	}
	if in.TotalVisits <= 2 {
		return models.SegmentNew
	}
	if in.TotalVisits >= 10 && in.LifetimeValue >= 1000 {
		return models.SegmentVIP
	}
	if in.TotalVisits >= 5 {
		return models.SegmentLoyal
	}
	recencyLapsed := in.DaysSinceLastVisit != nil && *in.DaysSinceLastVisit > 45
	if in.TotalVisits >= 3 && (recencyLapsed || in.CancellationRate > 0.20) {
		return models.SegmentAtRisk
	}
	return models.SegmentRegular
}

// ClassifyRFM buckets by visit frequency and recency only.
func ClassifyRFM(in SegmentInput) models.Segment {
	if in.DaysSinceLastVisit == nil {
		return models.SegmentChurned
	}
	days := *in.DaysSinceLastVisit
	recent := days <= 90
	high := in.TotalVisits >= 5
	medium := in.TotalVisits >= 3 && in.TotalVisits < 5

	switch {
	case high && recent:
		return models.SegmentChampion
	case high && days <= 180:
		return models.SegmentLoyal
	case high:
		return models.SegmentAtRisk
	case medium && recent:
		return models.SegmentPotential
	case in.TotalVisits <= 2 && recent:
		return models.SegmentNew
	default:
		return models.SegmentChurned
	}
}

// SegmentOrder is the display order of each family.
func (r SegmentRules) SegmentOrder() []models.Segment {
	if r == RulesRFM {
		return []models.Segment{
			models.SegmentChampion, models.SegmentLoyal, models.SegmentPotential,
			models.SegmentNew, models.SegmentAtRisk, models.SegmentChurned,
		}
	}
	return []models.Segment{
		models.SegmentVIP, models.SegmentLoyal, models.SegmentRegular,
		models.SegmentNew, models.SegmentAtRisk, models.SegmentChurned,
	}
}

// SegmentDistribution counts customers per segment in display order.
// Every segment of the family is present, including empty ones.
func SegmentDistribution(rules SegmentRules, customers []models.CustomerMetrics) []models.SegmentCount {
	counts := GroupCount(customers,
		func(c models.CustomerMetrics) (string, bool) { return string(c.Segment), c.Segment != "" },
		DropMissing)
	order := rules.SegmentOrder()
	out := make([]models.SegmentCount, 0, len(order))
	for _, seg := range order {
		n := counts[string(seg)]
		out = append(out, models.SegmentCount{
			Segment: seg,
			Count:   n,
			Share:   Ratio(float64(n), float64(len(customers))),
		})
	}
	return out
}
