// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/salonpulse/internal/analytics"
	"github.com/tomtom215/salonpulse/internal/logging"
)

// Auth modes.
const (
	AuthModeJWT = "jwt"
	AuthModeDev = "dev"
)

// Count strategies.
const (
	CountPrecise = "precise"
	CountSampled = "sampled"
)

const (
	minJWTSecretLength = 32

	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour

	minPlatformWindowDays = 30
	maxPlatformWindowDays = 730
)

// Validate checks ranges and enums. The first problem found is returned.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateAuth,
		c.validateSecurity,
		c.validateAnalytics,
		c.validateInsights,
		c.validateLogging,
	}
	return runValidators(validators)
}

// ValidateImporter checks only what the import command uses.
func (c *Config) ValidateImporter() error {
	return runValidators([]func() error{
		c.validateDatabase,
		c.validateLogging,
		c.validateImporter,
	})
}

func runValidators(validators []func() error) error {
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateImporter() error {
	if c.Importer.BatchSize < 1 || c.Importer.BatchSize > 100000 {
		return fmt.Errorf("importer.batch_size must be between 1 and 100000")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("database.threads must not be negative")
	}
	return nil
}

func (c *Config) validateAuth() error {
	switch c.Auth.Mode {
	case AuthModeJWT:
	case AuthModeDev:
		if c.IsProduction() {
			return fmt.Errorf("auth.mode=dev is not allowed when ENVIRONMENT=production")
		}
	default:
		return fmt.Errorf("auth.mode must be one of: jwt, dev")
	}
	if len(c.Auth.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("auth.jwt_secret must be at least %d characters", minJWTSecretLength)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("security.cors_origins=* is not allowed in production; list the dashboard origins")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("security.rate_limit_reqs must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("security.rate_limit_window must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports a wildcard origin outside production.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

func (c *Config) validateAnalytics() error {
	a := c.Analytics
	if a.PlatformWindowDays < minPlatformWindowDays || a.PlatformWindowDays > maxPlatformWindowDays {
		return fmt.Errorf("analytics.platform_window_days must be between %d and %d", minPlatformWindowDays, maxPlatformWindowDays)
	}
	if a.TopSalons < 1 {
		return fmt.Errorf("analytics.top_salons must be at least 1")
	}
	if _, err := analytics.ParseSegmentRules(a.SegmentRules); err != nil {
		return fmt.Errorf("analytics.segment_rules: %w", err)
	}
	switch a.CountStrategy {
	case CountPrecise:
	case CountSampled:
		if a.SampleLimit < 1 {
			return fmt.Errorf("analytics.sample_limit must be at least 1 with count_strategy=sampled")
		}
	default:
		return fmt.Errorf("analytics.count_strategy must be one of: precise, sampled")
	}
	if a.Workers < 0 || a.AtRiskLimit < 0 || a.TopCustomers < 0 {
		return fmt.Errorf("analytics workers and limits must not be negative")
	}
	return nil
}

func (c *Config) validateInsights() error {
	i := c.Insights
	if i.FetchTimeout <= 0 {
		return fmt.Errorf("insights.fetch_timeout must be positive")
	}
	if i.CacheTTL < 0 {
		return fmt.Errorf("insights.cache_ttl must not be negative")
	}
	if i.RefreshEnabled && i.RefreshInterval < time.Minute {
		return fmt.Errorf("insights.refresh_interval must be at least 1m")
	}
	if i.BreakerFailures == 0 {
		return fmt.Errorf("insights.breaker_failures must be at least 1")
	}
	if i.MetricsLimit < 1 {
		return fmt.Errorf("insights.metrics_limit must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be json or console")
	}
	return nil
}
