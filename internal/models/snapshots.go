// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package models

import "time"

// GrowthDelta compares a metric across two equal windows.
// DeltaPercent is a fraction and is 0 whenever Previous is 0.
type GrowthDelta struct {
	Current      float64 `json:"current"`
	Previous     float64 `json:"previous"`
	Delta        float64 `json:"delta"`
	DeltaPercent float64 `json:"delta_percent"`
}

// Timeframe bounds the records a snapshot was computed from.
type Timeframe struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// GrowthSummary holds current versus previous 30 day windows.
type GrowthSummary struct {
	Revenue      GrowthDelta `json:"revenue"`
	NewCustomers GrowthDelta `json:"new_customers"`
	ActiveSalons GrowthDelta `json:"active_salons"`
	Appointments GrowthDelta `json:"appointments"`
}

// GrowthPoint is one day of the growth series.
type GrowthPoint struct {
	Date                  string  `json:"date"`
	Revenue               float64 `json:"revenue"`
	Appointments          int     `json:"appointments"`
	NewCustomers          int     `json:"new_customers"`
	ReturningCustomers    int     `json:"returning_customers"`
	ActiveSalons          int     `json:"active_salons"`
	CancelledAppointments int     `json:"cancelled_appointments"`
}

// Growth is the growth section of the platform snapshot.
type Growth struct {
	Summary GrowthSummary `json:"summary"`
	Series  []GrowthPoint `json:"series"`
}

// BreakdownItem is one category of an acquisition breakdown.
type BreakdownItem struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Acquisition summarizes user signups in the snapshot window.
type Acquisition struct {
	TotalNewUsers     int             `json:"total_new_users"`
	NewUsersLast30    int             `json:"new_users_last_30_days"`
	NewUsersLast7     int             `json:"new_users_last_7_days"`
	NewUsersPrev7     int             `json:"new_users_prev_7_days"`
	DeltaLast7Days    int             `json:"delta_last_7_days"`
	ByRole            []BreakdownItem `json:"by_role"`
	ByCountry         []BreakdownItem `json:"by_country"`
	TotalUsers        int64           `json:"total_users"`
	TotalUsersIsExact bool            `json:"total_users_is_exact"`
}

// RetentionPoint is one day of the retention series.
type RetentionPoint struct {
	Date                  string  `json:"date"`
	RetentionRate         float64 `json:"retention_rate"`
	ChurnRate             float64 `json:"churn_rate"`
	NewCustomers          int     `json:"new_customers"`
	ReturningCustomers    int     `json:"returning_customers"`
	CancelledAppointments int     `json:"cancelled_appointments"`
}

// Retention is computed from totals across every row of the window.
type Retention struct {
	RetentionRate      float64          `json:"retention_rate"`
	ChurnRate          float64          `json:"churn_rate"`
	ReturningCustomers int              `json:"returning_customers"`
	NewCustomers       int              `json:"new_customers"`
	Series             []RetentionPoint `json:"series"`
}

// FeatureUsageItem is a summed telemetry counter.
type FeatureUsageItem struct {
	Key   string  `json:"key"`
	Count float64 `json:"count"`
}

// FeatureUsage is the top telemetry counters.
type FeatureUsage struct {
	Items []FeatureUsageItem `json:"items"`
}

// SalonPerformance is one ranked salon.
type SalonPerformance struct {
	SalonID               string   `json:"salon_id"`
	SalonName             string   `json:"salon_name"`
	Revenue               float64  `json:"revenue"`
	Appointments          int      `json:"appointments"`
	AvgUtilization        float64  `json:"avg_utilization"`
	RevenuePerAppointment float64  `json:"revenue_per_appointment"`
	SubscriptionTier      *string  `json:"subscription_tier"`
	RatingAverage         *float64 `json:"rating_average"`
}

// Performance aggregates salon metrics over the performance window.
type Performance struct {
	AvgUtilization       float64            `json:"avg_utilization"`
	RevenuePerSalon      float64            `json:"revenue_per_salon"`
	AppointmentsPerSalon float64            `json:"appointments_per_salon"`
	SalonCount           int                `json:"salon_count"`
	TopSalons            []SalonPerformance `json:"top_salons"`
}

// PlatformSnapshot is the full platform analytics result.
type PlatformSnapshot struct {
	Timeframe          Timeframe    `json:"timeframe"`
	LatestSnapshotDate *string      `json:"latest_snapshot_date"`
	Growth             Growth       `json:"growth"`
	Acquisition        Acquisition  `json:"acquisition"`
	Retention          Retention    `json:"retention"`
	FeatureUsage       FeatureUsage `json:"feature_usage"`
	Performance        Performance  `json:"performance"`

	// PartialSources names the inputs that could not be fetched. The
	// corresponding sections are empty rather than missing.
	PartialSources []string `json:"partial_sources"`
}

// RiskLevel is the churn risk bucket.
type RiskLevel string

const (
	RiskUnknown  RiskLevel = "unknown"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ChurnRisk is the churn score of a single customer.
type ChurnRisk struct {
	RiskLevel      RiskLevel `json:"risk_level"`
	RiskScore      int       `json:"risk_score"`
	Factors        []string  `json:"factors"`
	Recommendation string    `json:"recommendation"`

	// DaysSinceLastVisit is nil when no completed visit has a start time.
	DaysSinceLastVisit   *int    `json:"days_since_last_visit"`
	AvgDaysBetweenVisits float64 `json:"avg_days_between_visits"`
	TotalVisits          int     `json:"total_visits"`

	// Rates are relative to completed visits and may exceed 1.
	CancellationRate float64 `json:"cancellation_rate"`
	NoShowRate       float64 `json:"no_show_rate"`
}

// Segment is a customer lifecycle classification.
type Segment string

// Decision list family.
const (
	SegmentVIP     Segment = "vip"
	SegmentLoyal   Segment = "loyal"
	SegmentRegular Segment = "regular"
	SegmentAtRisk  Segment = "at_risk"
	SegmentNew     Segment = "new"
	SegmentChurned Segment = "churned"
)

// RFM family. Loyal, AtRisk, New and Churned are shared with the decision list.
const (
	SegmentChampion  Segment = "champion"
	SegmentPotential Segment = "potential"
)

// LifetimeValue is the revenue history and projection of one customer.
type LifetimeValue struct {
	CustomerID           string     `json:"customer_id"`
	TotalRevenue         float64    `json:"total_revenue"`
	VisitCount           int        `json:"visit_count"`
	AverageOrderValue    float64    `json:"average_order_value"`
	AvgDaysBetweenVisits float64    `json:"avg_days_between_visits"`
	VisitsPerYear        float64    `json:"visits_per_year"`
	ProjectedLTV         float64    `json:"projected_ltv"`
	FirstVisit           *time.Time `json:"first_visit"`
	LastVisit            *time.Time `json:"last_visit"`
	TenureDays           int        `json:"tenure_days"`
}

// Cohort groups customers by the month of their first completed visit.
type Cohort struct {
	CohortMonth    string   `json:"cohort_month"`
	CustomerIDs    []string `json:"customer_ids"`
	CustomerCount  int      `json:"customer_count"`
	TotalRevenue   float64  `json:"total_revenue"`
	AverageRevenue float64  `json:"average_revenue"`
}

// CustomerMetrics is the per-customer row of the insights report.
type CustomerMetrics struct {
	CustomerID         string    `json:"customer_id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	TotalVisits        int       `json:"total_visits"`
	TotalSpent         float64   `json:"total_spent"`
	AverageTicket      float64   `json:"average_ticket"`
	LastVisit          *string   `json:"last_visit"`
	DaysSinceLastVisit *int      `json:"days_since_last_visit"`
	FavoriteServiceID  *string   `json:"favorite_service_id"`
	FavoriteStaffID    *string   `json:"favorite_staff_id"`
	AverageRating      *float64  `json:"average_rating"`
	ReviewCount        int       `json:"review_count"`
	CancellationRate   float64   `json:"cancellation_rate_percent"`
	Segment            Segment   `json:"segment"`
	ChurnRiskLevel     RiskLevel `json:"churn_risk_level"`
	ChurnRiskScore     int       `json:"churn_risk_score"`
}

// SegmentCount is one bucket of the segment distribution.
type SegmentCount struct {
	Segment Segment `json:"segment"`
	Count   int     `json:"count"`
	Share   float64 `json:"share"`
}

// OverdueCustomer is a customer listed for re-engagement.
type OverdueCustomer struct {
	CustomerID         string `json:"customer_id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	LastVisit          string `json:"last_visit"`
	DaysSinceLastVisit int    `json:"days_since_last_visit"`
}

// Reactivation lists customers who lapsed long enough to be won back.
type Reactivation struct {
	TotalOpportunities int               `json:"total_opportunities"`
	Customers          []OverdueCustomer `json:"customers"`
}

// RetentionMetrics splits a salon's customers by visit count.
// Rates are percentages in 0..100.
type RetentionMetrics struct {
	TotalCustomers     int     `json:"total_customers"`
	NewCustomers       int     `json:"new_customers"`
	ReturningCustomers int     `json:"returning_customers"`
	RetentionRate      float64 `json:"retention_rate_percent"`
	ChurnRate          float64 `json:"churn_rate_percent"`
}

// CustomerInsights is the salon-level customer analytics report.
type CustomerInsights struct {
	SalonID        string            `json:"salon_id"`
	GeneratedAt    time.Time         `json:"generated_at"`
	SegmentRules   string            `json:"segment_rules"`
	Customers      []CustomerMetrics `json:"customers"`
	Segments       []SegmentCount    `json:"segments"`
	AtRisk         []OverdueCustomer `json:"at_risk"`
	Reactivation   Reactivation      `json:"reactivation"`
	TopCustomers   []CustomerMetrics `json:"top_customers"`
	Retention      RetentionMetrics  `json:"retention"`
	Cohorts        []Cohort          `json:"cohorts"`
	PartialSources []string          `json:"partial_sources"`
}

// SecurityOverview holds the headline security counters.
type SecurityOverview struct {
	TotalAuditEvents          int `json:"total_audit_events"`
	HighSeverityEvents        int `json:"high_severity_events"`
	FailedLoginAttempts       int `json:"failed_login_attempts"`
	ActiveIncidents           int `json:"active_incidents"`
	BlockedSessions           int `json:"blocked_sessions"`
	ActiveRateLimitViolations int `json:"active_rate_limit_violations"`
}

// MetricStatus classifies a derived security metric.
type MetricStatus string

const (
	MetricHealthy  MetricStatus = "healthy"
	MetricInfo     MetricStatus = "info"
	MetricWarning  MetricStatus = "warning"
	MetricCritical MetricStatus = "critical"
)

// SecurityMetric is a derived counter compared against a threshold.
type SecurityMetric struct {
	Key       string       `json:"key"`
	Label     string       `json:"label"`
	Value     int          `json:"value"`
	Status    MetricStatus `json:"status"`
	Threshold int          `json:"threshold"`
}

// CountItem is a key with an occurrence count.
type CountItem struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// FailedLoginSummary groups failed login events.
type FailedLoginSummary struct {
	Total       int         `json:"total"`
	Last24Hours int         `json:"last_24_hours"`
	ByIP        []CountItem `json:"by_ip"`
	ByUser      []CountItem `json:"by_user"`
	ByHour      []CountItem `json:"by_hour"`
}

// SecurityEventView is an audit event with its address normalized.
type SecurityEventView struct {
	ID          string    `json:"id"`
	EventType   string    `json:"event_type"`
	Severity    string    `json:"severity"`
	Description string    `json:"description,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	IPAddress   string    `json:"ip_address"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccessAttemptView is an access attempt with its address normalized.
type AccessAttemptView struct {
	AccessAttempt
	IP string `json:"ip_address"`
}

// SessionView is a session with its address normalized.
type SessionView struct {
	SessionSecurity
	IP string `json:"ip_address"`
}

// SecuritySnapshot is the full security monitoring result.
type SecuritySnapshot struct {
	Timeframe           Timeframe           `json:"timeframe"`
	Overview            SecurityOverview    `json:"overview"`
	Metrics             []SecurityMetric    `json:"metrics"`
	RecentEvents        []SecurityEventView `json:"recent_events"`
	AccessAttempts      []AccessAttemptView `json:"access_attempts"`
	SuspiciousSessions  []SessionView       `json:"suspicious_sessions"`
	FailedLogins        FailedLoginSummary  `json:"failed_logins"`
	RateLimitViolations []RateLimitEntry    `json:"rate_limit_violations"`
	Incidents           []SecurityEventView `json:"incidents"`
	PartialSources      []string            `json:"partial_sources"`
}
