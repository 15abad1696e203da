// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package analytics

import (
	"sort"
	"time"

	"github.com/tomtom215/salonpulse/internal/models"
)

// PlatformInputs are the fetched record sets of one platform snapshot.
type PlatformInputs struct {
	WindowStart time.Time

	Days    []models.PlatformDay
	Users   []models.CustomerProfile
	Metrics []models.DailyMetric

	// SalonDetails is keyed by salon id and only needs the top salons.
	SalonDetails map[string]models.SalonDetail

	TotalUsers        int64
	TotalUsersIsExact bool

	PartialSources []string
}

// BuildPlatformSnapshot composes every platform section. Sections whose
// inputs are empty are zeroed, never omitted.
func BuildPlatformSnapshot(in PlatformInputs, now time.Time, topN int) models.PlatformSnapshot {
	if topN <= 0 {
		topN = TopSalonsLimit
	}
	acquisition := BuildAcquisition(in.Users, now)
	acquisition.TotalUsers = in.TotalUsers
	acquisition.TotalUsersIsExact = in.TotalUsersIsExact

	return models.PlatformSnapshot{
		Timeframe:          models.Timeframe{Start: in.WindowStart, End: now},
		LatestSnapshotDate: LatestSnapshotDate(in.Days),
		Growth:             BuildGrowth(in.Days, now),
		Acquisition:        acquisition,
		Retention:          BuildRetention(in.Days),
		FeatureUsage:       FeatureUsage(in.Metrics),
		Performance:        RankSalons(AggregateSalons(in.Metrics), in.SalonDetails, topN),
		PartialSources:     sortedSources(in.PartialSources),
	}
}

// BuildSecuritySnapshot composes the security monitoring view.
func BuildSecuritySnapshot(in SecurityInputs, windowStart, now time.Time, partial []string) models.SecuritySnapshot {
	logins := GroupFailedLogins(in.Logins, now)
	overview, metrics, active := BuildSecurityOverview(in, logins)

	events := make([]models.SecurityEventView, 0, len(in.Events))
	for _, e := range in.Events {
		eventType := e.EventType
		if eventType == "" {
			eventType = models.OrDefault(e.Action, UnknownKey)
		}
		events = append(events, models.SecurityEventView{
			ID:          e.ID,
			EventType:   eventType,
			Severity:    models.OrDefault(e.Severity, "info"),
			Description: e.ErrorMessage,
			UserID:      e.UserID,
			IPAddress:   NormalizeIP(e.IPAddress),
			CreatedAt:   e.CreatedAt,
		})
	}

	incidents := make([]models.SecurityEventView, 0, len(in.Incidents))
	for _, inc := range in.Incidents {
		incidents = append(incidents, models.SecurityEventView{
			ID:          inc.ID,
			EventType:   models.OrDefault(inc.EventType, "security_incident"),
			Severity:    models.OrDefault(inc.Severity, "info"),
			Description: inc.Description,
			UserID:      inc.UserID,
			IPAddress:   NormalizeIP(inc.IPAddress),
			CreatedAt:   inc.CreatedAt,
		})
	}

	access := make([]models.AccessAttemptView, 0, len(in.Access))
	for _, a := range in.Access {
		access = append(access, models.AccessAttemptView{AccessAttempt: a, IP: NormalizeIP(a.IPAddress)})
	}
	sessions := make([]models.SessionView, 0, len(in.Sessions))
	for _, s := range in.Sessions {
		sessions = append(sessions, models.SessionView{SessionSecurity: s, IP: NormalizeIP(s.IPAddress)})
	}

	return models.SecuritySnapshot{
		Timeframe:           models.Timeframe{Start: windowStart, End: now},
		Overview:            overview,
		Metrics:             metrics,
		RecentEvents:        events,
		AccessAttempts:      access,
		SuspiciousSessions:  sessions,
		FailedLogins:        logins,
		RateLimitViolations: active,
		Incidents:           incidents,
		PartialSources:      sortedSources(partial),
	}
}

// BuildCustomerInsights composes the salon customer report.
func BuildCustomerInsights(in CustomerInputs, now time.Time, opts CustomerOptions, partial []string) models.CustomerInsights {
	opts = opts.withDefaults()
	customers := BuildCustomerMetrics(in, now, opts)
	revenue := AttributeRevenue(in.Appointments, in.Transactions)

	return models.CustomerInsights{
		SalonID:        in.SalonID,
		GeneratedAt:    now,
		SegmentRules:   string(opts.Rules),
		Customers:      customers,
		Segments:       SegmentDistribution(opts.Rules, customers),
		AtRisk:         AtRiskCustomers(in.Appointments, in.Profiles, now, opts.AtRiskLimit),
		Reactivation:   ReactivationOpportunities(in.Appointments, in.Profiles, now),
		TopCustomers:   TopCustomers(customers, opts.TopLimit),
		Retention:      CustomerRetention(customers),
		Cohorts:        BuildCohorts(in.Appointments, revenue),
		PartialSources: sortedSources(partial),
	}
}

func sortedSources(sources []string) []string {
	out := make([]string, len(sources))
	copy(out, sources)
	sort.Strings(out)
	return out
}
