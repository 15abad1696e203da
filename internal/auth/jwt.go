// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/salonpulse/internal/config"
)

// Claims are the SalonPulse bearer token claims. Subject is the caller id.
type Claims struct {
	Role    string `json:"role"`
	SalonID string `json:"salon_id,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 tokens.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager builds a manager from the auth section. The secret length is
// enforced by config validation.
func NewJWTManager(cfg *config.AuthConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTManager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}, nil
}

// GenerateToken signs a token for subject. Salon-scoped roles must name a salon.
func (m *JWTManager) GenerateToken(subject string, role Role, salonID string) (string, time.Time, error) {
	if role.SalonScoped() && salonID == "" {
		return "", time.Time{}, fmt.Errorf("role %s requires a salon id", role)
	}
	if role == RolePlatformAdmin {
		salonID = ""
	}

	now := m.now()
	expires := now.Add(m.ttl)
	claims := &Claims{
		Role:    string(role),
		SalonID: salonID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// ValidateToken verifies signature, algorithm, issuer and expiry and returns
// the caller. Expired tokens wrap ErrExpiredCredentials, anything else
// ErrInvalidCredentials.
func (m *JWTManager) ValidateToken(tokenString string) (*AuthSubject, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpiredCredentials, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidCredentials)
	}

	role, err := ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if role.SalonScoped() && claims.SalonID == "" {
		return nil, fmt.Errorf("%w: role %s without salon", ErrInvalidCredentials, role)
	}

	subject := &AuthSubject{
		ID:      claims.Subject,
		Role:    role,
		SalonID: claims.SalonID,
		Issuer:  claims.Issuer,
	}
	if claims.ExpiresAt != nil {
		subject.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return subject, nil
}
