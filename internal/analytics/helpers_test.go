// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/salonpulse/internal/models"
)

// testNow is the frozen reference instant used by every engine test.
var testNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(days float64) time.Time {
	return testNow.Add(-time.Duration(days * float64(Day)))
}

func ptr[T any](v T) *T {
	return &v
}

var apptSeq int

func appt(customer string, ago float64, status models.AppointmentStatus) models.Appointment {
	apptSeq++
	start := daysAgo(ago)
	return models.Appointment{
		ID:         fmt.Sprintf("appt-%d", apptSeq),
		CustomerID: customer,
		SalonID:    "salon-1",
		StartTime:  &start,
		Status:     status,
	}
}

func completed(customer string, ago ...float64) []models.Appointment {
	out := make([]models.Appointment, 0, len(ago))
	for _, d := range ago {
		out = append(out, appt(customer, d, models.StatusCompleted))
	}
	return out
}

func priced(a models.Appointment, price float64) models.Appointment {
	a.TotalPrice = &price
	return a
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
