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

// Security metric thresholds.
const (
	failedLoginWarnThreshold  = 50
	accessDeniedWarnThreshold = 25
	hourBucketLayout          = "2006-01-02T15:00"
)

// NormalizeIP collapses the shapes upstream writers use for addresses.
// A string is returned as is, a list yields its first string element and
// an object its first string value in key order. Anything else, including
// an empty result, is "unknown".
func NormalizeIP(value any) string {
	ip := ""
	switch v := value.(type) {
	case string:
		ip = v
	case []string:
		if len(v) > 0 {
			ip = v[0]
		}
	case []any:
		for _, entry := range v {
			if s, ok := entry.(string); ok {
				ip = s
				break
			}
		}
	case map[string]string:
		ip = firstStringValue(v)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s, ok := v[k].(string); ok {
				ip = s
				break
			}
		}
	}
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return UnknownKey
	}
	return ip
}

func firstStringValue(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return ""
	}
	return m[keys[0]]
}

// IsFailedLogin reports whether an audit event is a failed sign-in.
func IsFailedLogin(e models.AuditEvent) bool {
	action := strings.ToLower(e.Action)
	if !strings.Contains(action, "login") && !strings.Contains(action, "sign_in") {
		return false
	}
	return strings.Contains(action, "fail") || strings.TrimSpace(e.ErrorMessage) != ""
}

// GroupFailedLogins groups failed login events by address, user and hour.
// Events without a user are counted as anonymous.
func GroupFailedLogins(events []models.AuditEvent, now time.Time) models.FailedLoginSummary {
	failed := make([]models.AuditEvent, 0, len(events))
	for _, e := range events {
		if IsFailedLogin(e) {
			failed = append(failed, e)
		}
	}

	dayAgo := NewWindows(now, 1).Since(1)
	last24 := 0
	for _, e := range failed {
		if !e.CreatedAt.Before(dayAgo) {
			last24++
		}
	}

	byIP := GroupCount(failed, func(e models.AuditEvent) (string, bool) {
		return NormalizeIP(e.IPAddress), true
	}, Sentinel(UnknownKey))
	byUser := GroupCount(failed, func(e models.AuditEvent) (string, bool) {
		return e.UserID, e.UserID != ""
	}, Sentinel(AnonymousKey))
	byHour := GroupCount(failed, func(e models.AuditEvent) (string, bool) {
		if e.CreatedAt.IsZero() {
			return "", false
		}
		return e.CreatedAt.UTC().Truncate(time.Hour).Format(hourBucketLayout), true
	}, DropMissing)

	hours := make([]models.CountItem, 0, len(byHour))
	for k, v := range byHour {
		hours = append(hours, models.CountItem{Key: k, Count: v})
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Key < hours[j].Key })

	return models.FailedLoginSummary{
		Total:       len(failed),
		Last24Hours: last24,
		ByIP:        RankCounts(byIP),
		ByUser:      RankCounts(byUser),
		ByHour:      hours,
	}
}

func isHighSeverity(severity string, levels ...string) bool {
	s := strings.ToLower(strings.TrimSpace(severity))
	for _, l := range levels {
		if s == l {
			return true
		}
	}
	return false
}

// SecurityInputs are the fetched record sets of one security snapshot.
type SecurityInputs struct {
	Events     []models.AuditEvent
	Logins     []models.AuditEvent
	Access     []models.AccessAttempt
	Sessions   []models.SessionSecurity
	RateLimits []models.RateLimitEntry
	Incidents  []models.SecurityIncident
}

// BuildSecurityOverview derives the headline counters and threshold
// metrics. It returns the active rate limit violations it counted.
func BuildSecurityOverview(in SecurityInputs, logins models.FailedLoginSummary) (models.SecurityOverview, []models.SecurityMetric, []models.RateLimitEntry) {
	highEvents := 0
	for _, e := range in.Events {
		if isHighSeverity(e.Severity, "high", "critical", "error") {
			highEvents++
		}
	}
	highIncidents := 0
	for _, inc := range in.Incidents {
		if isHighSeverity(inc.Severity, "high", "critical") {
			highIncidents++
		}
	}
	blocked := 0
	for _, s := range in.Sessions {
		if s.IsBlocked {
			blocked++
		}
	}
	denied := 0
	for _, a := range in.Access {
		if !a.IsGranted {
			denied++
		}
	}
	active := make([]models.RateLimitEntry, 0, len(in.RateLimits))
	for _, r := range in.RateLimits {
		if r.IsActiveViolation() {
			active = append(active, r)
		}
	}

	overview := models.SecurityOverview{
		TotalAuditEvents:          len(in.Events),
		HighSeverityEvents:        highEvents,
		FailedLoginAttempts:       logins.Total,
		ActiveIncidents:           highIncidents,
		BlockedSessions:           blocked,
		ActiveRateLimitViolations: len(active),
	}

	metrics := []models.SecurityMetric{
		{
			Key: "failed_logins_24h", Label: "Failed Logins (24h)", Value: logins.Last24Hours,
			Status:    tiered(logins.Last24Hours, failedLoginWarnThreshold, models.MetricWarning),
			Threshold: failedLoginWarnThreshold,
		},
		{
			Key: "blocked_sessions", Label: "Blocked Sessions", Value: blocked,
			Status: flagged(blocked, models.MetricWarning),
		},
		{
			Key: "rate_limit_violations", Label: "Rate Limit Violations", Value: len(active),
			Status: flagged(len(active), models.MetricWarning),
		},
		{
			Key: "access_denied_attempts", Label: "Access Denied Attempts", Value: denied,
			Status:    tiered(denied, accessDeniedWarnThreshold, models.MetricWarning),
			Threshold: accessDeniedWarnThreshold,
		},
		{
			Key: "high_severity_incidents", Label: "High Severity Incidents", Value: highIncidents,
			Status: flagged(highIncidents, models.MetricCritical),
		},
	}
	return overview, metrics, active
}

// tiered is above when value exceeds threshold, info when positive.
func tiered(value, threshold int, above models.MetricStatus) models.MetricStatus {
	switch {
	case value > threshold:
		return above
	case value > 0:
		return models.MetricInfo
	default:
		return models.MetricHealthy
	}
}

func flagged(value int, status models.MetricStatus) models.MetricStatus {
	if value > 0 {
		return status
	}
	return models.MetricHealthy
}
