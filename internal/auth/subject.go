// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Role is a caller's platform role.
type Role string

const (
	RolePlatformAdmin Role = "platform_admin"
	RoleSalonOwner    Role = "salon_owner"
	RoleStaff         Role = "staff"
)

// ParseRole accepts the canonical role names, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RolePlatformAdmin, RoleSalonOwner, RoleStaff:
		return r, nil
	default:
		return "", fmt.Errorf("invalid role: %q", s)
	}
}

// SalonScoped reports whether the role is limited to a single salon.
func (r Role) SalonScoped() bool {
	return r == RoleSalonOwner || r == RoleStaff
}

var (
	ErrNoCredentials      = errors.New("no credentials provided")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExpiredCredentials = errors.New("credentials expired")
)

// AuthSubject is the verified caller.
type AuthSubject struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`

	// SalonID is empty for platform administrators.
	SalonID string `json:"salon_id,omitempty"`

	Issuer    string `json:"issuer,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

// CanAccessSalon reports whether the subject may read data of salonID.
func (s *AuthSubject) CanAccessSalon(salonID string) bool {
	if s == nil {
		return false
	}
	if s.Role == RolePlatformAdmin {
		return true
	}
	return s.SalonID != "" && s.SalonID == salonID
}

type contextKey string

const subjectKey contextKey = "auth_subject"

// ContextWithSubject stores the verified caller.
func ContextWithSubject(ctx context.Context, s *AuthSubject) context.Context {
	return context.WithValue(ctx, subjectKey, s)
}

// SubjectFromContext returns the caller stored by the middleware, or nil.
func SubjectFromContext(ctx context.Context) *AuthSubject {
	s, _ := ctx.Value(subjectKey).(*AuthSubject)
	return s
}
