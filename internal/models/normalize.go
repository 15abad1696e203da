// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package models

import (
	"math"
	"strings"
)

// Finite returns v, or 0 when v is NaN or infinite.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FinitePtr returns p when it points at a finite value, otherwise nil.
func FinitePtr(p *float64) *float64 {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return nil
	}
	return p
}

// NonNegative clamps counts read from storage.
func NonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// OrDefault returns the trimmed value, or fallback when it is empty.
func OrDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

// ParseAppointmentStatus maps storage spellings onto AppointmentStatus.
// Unrecognized values become StatusPending so they never count as visits.
func ParseAppointmentStatus(raw string) AppointmentStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed", "complete", "done":
		return StatusCompleted
	case "cancelled", "canceled":
		return StatusCancelled
	case "no_show", "no-show", "noshow":
		return StatusNoShow
	case "confirmed":
		return StatusConfirmed
	default:
		return StatusPending
	}
}

// ParseTransactionType maps storage spellings onto TransactionType.
// Unknown types are treated as payments.
func ParseTransactionType(raw string) TransactionType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "refund", "refunded":
		return TransactionRefund
	case "tip":
		return TransactionTip
	case "adjustment":
		return TransactionAdjustment
	default:
		return TransactionPayment
	}
}

// ClampRating keeps review ratings within 1..5. Zero means no rating.
func ClampRating(r int) int {
	switch {
	case r <= 0:
		return 0
	case r > 5:
		return 5
	default:
		return r
	}
}
