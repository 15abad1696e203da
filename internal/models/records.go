// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// Appointment is a booked visit of a customer at a salon.
type Appointment struct {
	// ID is the appointment identifier, used to join transactions.
	ID string `json:"id"`

	CustomerID string `json:"customer_id"`
	SalonID    string `json:"salon_id"`

	// StaffID and ServiceID are empty when unknown.
	StaffID   string `json:"staff_id,omitempty"`
	ServiceID string `json:"service_id,omitempty"`

	// StartTime is nil for appointments that were never scheduled.
	StartTime *time.Time `json:"start_time,omitempty"`

	Status AppointmentStatus `json:"status"`

	// TotalPrice is the booked price, nil when the booking had no price.
	TotalPrice *float64 `json:"total_price,omitempty"`
}

// IsCompleted reports whether the appointment counts as a visit.
func (a Appointment) IsCompleted() bool {
	return a.Status == StatusCompleted
}

// VisitTime returns the start of a completed visit. Completed appointments
// without a start time count as visits but have no place in the timeline.
func (a Appointment) VisitTime() (time.Time, bool) {
	if !a.IsCompleted() || a.StartTime == nil {
		return time.Time{}, false
	}
	return *a.StartTime, true
}

// Price returns the booked price or 0.
func (a Appointment) Price() float64 {
	if a.TotalPrice == nil {
		return 0
	}
	return *a.TotalPrice
}

// TransactionType classifies a money movement.
type TransactionType string

const (
	TransactionPayment    TransactionType = "payment"
	TransactionRefund     TransactionType = "refund"
	TransactionTip        TransactionType = "tip"
	TransactionAdjustment TransactionType = "adjustment"
)

// Transaction is a payment-side record, independent of appointment pricing.
type Transaction struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`

	// AppointmentID is empty for transactions not tied to a visit.
	AppointmentID string `json:"appointment_id,omitempty"`

	SalonID   string          `json:"salon_id"`
	Amount    float64         `json:"amount"`
	Type      TransactionType `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
}

// SignedAmount returns the amount with refunds counted negatively.
func (t Transaction) SignedAmount() float64 {
	if t.Type == TransactionRefund && t.Amount > 0 {
		return -t.Amount
	}
	return t.Amount
}

// CustomerProfile is reference data for a platform user.
type CustomerProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// CountryCode and Role are empty when the user never set them.
	CountryCode string `json:"country_code,omitempty"`
	Role        string `json:"role,omitempty"`
}

// Review is a customer rating of a salon.
type Review struct {
	ID         string    `json:"id"`
	SalonID    string    `json:"salon_id"`
	CustomerID string    `json:"customer_id"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
}

// DailyMetric is the per salon, per day operational rollup.
type DailyMetric struct {
	SalonID string    `json:"salon_id"`
	Date    time.Time `json:"date"`

	TotalRevenue   float64 `json:"total_revenue"`
	ServiceRevenue float64 `json:"service_revenue"`
	ProductRevenue float64 `json:"product_revenue"`

	TotalAppointments     int `json:"total_appointments"`
	CompletedAppointments int `json:"completed_appointments"`
	CancelledAppointments int `json:"cancelled_appointments"`

	// UtilizationRate is nil when the salon reported no capacity that day.
	UtilizationRate *float64 `json:"utilization_rate,omitempty"`

	// Telemetry holds feature counters decoded from JSON. Values are untyped
	// because the producer does not guarantee numbers.
	Telemetry map[string]any `json:"telemetry,omitempty"`
}

// PlatformDay is one row of the platform-wide daily rollup.
type PlatformDay struct {
	Date                  time.Time `json:"date"`
	Revenue               float64   `json:"revenue"`
	Appointments          int       `json:"appointments"`
	NewCustomers          int       `json:"new_customers"`
	ReturningCustomers    int       `json:"returning_customers"`
	ActiveSalons          int       `json:"active_salons"`
	CancelledAppointments int       `json:"cancelled_appointments"`
}

// SalonDetail carries display attributes for ranked salons.
type SalonDetail struct {
	ID               string   `json:"id"`
	Name             string   `json:"name,omitempty"`
	BusinessName     string   `json:"business_name,omitempty"`
	SubscriptionTier string   `json:"subscription_tier,omitempty"`
	RatingAverage    *float64 `json:"rating_average,omitempty"`
}
