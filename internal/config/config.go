// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package config

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Config is the complete runtime configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Auth      AuthConfig      `koanf:"auth"`
	Security  SecurityConfig  `koanf:"security"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Insights  InsightsConfig  `koanf:"insights"`
	Logging   LoggingConfig   `koanf:"logging"`
	Importer  ImporterConfig  `koanf:"importer"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Environment is development or production.
	Environment string `koanf:"environment"`
}

// DatabaseConfig configures the embedded DuckDB store.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`

	// Threads of 0 lets DuckDB pick.
	Threads int `koanf:"threads"`

	// SeedDemoData fills an empty database with generated salons on startup.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// AuthConfig configures bearer token verification.
type AuthConfig struct {
	// Mode is jwt, or dev which also enables the token issuing endpoint.
	Mode      string        `koanf:"mode"`
	JWTSecret string        `koanf:"jwt_secret"`
	Issuer    string        `koanf:"issuer"`
	TokenTTL  time.Duration `koanf:"token_ttl"`

	// ModelPath and PolicyPath override the embedded Casbin files.
	ModelPath  string `koanf:"model_path"`
	PolicyPath string `koanf:"policy_path"`
}

// SecurityConfig configures CORS and request rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// AnalyticsConfig tunes the analytics engine.
type AnalyticsConfig struct {
	// PlatformWindowDays is the default platform snapshot window. Requests
	// below 30 days are raised to 30.
	PlatformWindowDays int `koanf:"platform_window_days"`

	TopSalons int `koanf:"top_salons"`

	// SegmentRules is decision_list or rfm.
	SegmentRules string `koanf:"segment_rules"`

	// CountStrategy is precise (COUNT(*)) or sampled (bounded scan).
	CountStrategy string `koanf:"count_strategy"`
	SampleLimit   int    `koanf:"sample_limit"`

	// Workers bounds the per-customer worker pool; 0 uses GOMAXPROCS.
	Workers int `koanf:"workers"`

	AtRiskLimit  int `koanf:"at_risk_limit"`
	TopCustomers int `koanf:"top_customers"`
}

// InsightsConfig configures snapshot fetching, caching and refresh.
type InsightsConfig struct {
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`

	RefreshEnabled  bool          `koanf:"refresh_enabled"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// BreakerFailures consecutive source failures open that source's breaker
	// for BreakerTimeout.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`

	// MetricsLimit caps the daily salon metric rows read per snapshot.
	MetricsLimit int `koanf:"metrics_limit"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ImporterConfig configures the MySQL import command.
type ImporterConfig struct {
	// SourceDSN accepts mysql:// or mariadb:// URLs as well as driver DSNs.
	SourceDSN string `koanf:"source_dsn"`
	BatchSize int    `koanf:"batch_size"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// DevAuth reports whether the token issuing endpoint is enabled.
func (c *Config) DevAuth() bool {
	return c.Auth.Mode == AuthModeDev
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
