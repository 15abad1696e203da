// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Auth.JWTSecret = testSecret
	return cfg
}

func TestDefaultConfigNeedsOnlySecret(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("defaults plus secret should validate: %v", err)
	}
	if err := defaultConfig().Validate(); err == nil {
		t.Fatal("missing jwt secret should fail validation")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"unknown auth mode", func(c *Config) { c.Auth.Mode = "basic" }, "auth.mode"},
		{"dev auth in production", func(c *Config) {
			c.Auth.Mode = AuthModeDev
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"https://dash.example.com"}
		}, "auth.mode=dev"},
		{"wildcard cors in production", func(c *Config) { c.Server.Environment = "prod" }, "cors_origins"},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "jwt_secret"},
		{"rate limit window", func(c *Config) { c.Security.RateLimitWindow = 2 * time.Hour }, "rate_limit_window"},
		{"platform window too small", func(c *Config) { c.Analytics.PlatformWindowDays = 7 }, "platform_window_days"},
		{"segment rules", func(c *Config) { c.Analytics.SegmentRules = "kmeans" }, "segment_rules"},
		{"count strategy", func(c *Config) { c.Analytics.CountStrategy = "guess" }, "count_strategy"},
		{"sample limit", func(c *Config) {
			c.Analytics.CountStrategy = CountSampled
			c.Analytics.SampleLimit = 0
		}, "sample_limit"},
		{"fetch timeout", func(c *Config) { c.Insights.FetchTimeout = 0 }, "fetch_timeout"},
		{"refresh interval", func(c *Config) { c.Insights.RefreshInterval = time.Second }, "refresh_interval"},
		{"log level", func(c *Config) { c.Logging.Level = "chatty" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}

	t.Run("rate limit disabled skips bounds", func(t *testing.T) {
		cfg := validConfig()
		cfg.Security.RateLimitDisabled = true
		cfg.Security.RateLimitReqs = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"SERVER_PORT":              "server.port",
		"ANALYTICS_SEGMENT_RULES":  "analytics.segment_rules",
		"INSIGHTS_BREAKER_TIMEOUT": "insights.breaker_timeout",
		"HTTP_PORT":                "server.port",
		"LOG_LEVEL":                "logging.level",
		"MYSQL_DSN":                "importer.source_dsn",
		"HOME":                     "",
		"SERVER_":                  "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9000
auth:
  jwt_secret: ` + testSecret + `
analytics:
  segment_rules: rfm
  count_strategy: sampled
  sample_limit: 5000
insights:
  cache_ttl: 1m
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("INSIGHTS_FETCH_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("env should override file: port = %d", cfg.Server.Port)
	}
	if cfg.Analytics.SegmentRules != "rfm" || cfg.Analytics.SampleLimit != 5000 {
		t.Errorf("file values not applied: %+v", cfg.Analytics)
	}
	if cfg.Insights.CacheTTL != time.Minute || cfg.Insights.FetchTimeout != 3*time.Second {
		t.Errorf("durations = %v/%v", cfg.Insights.CacheTTL, cfg.Insights.FetchTimeout)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("cors origins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Insights.MetricsLimit != 5000 {
		t.Errorf("defaults should survive: metrics_limit = %d", cfg.Insights.MetricsLimit)
	}
	if cfg.Addr() != "0.0.0.0:9100" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("ANALYTICS_COUNT_STRATEGY", "guess")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadImporterSkipsServerSettings(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("IMPORTER_SOURCE_DSN", "mysql://reader:pw@legacy/salons")
	t.Setenv("IMPORTER_BATCH_SIZE", "250")

	cfg, err := LoadImporter()
	if err != nil {
		t.Fatalf("LoadImporter without a jwt secret: %v", err)
	}
	if cfg.Importer.SourceDSN != "mysql://reader:pw@legacy/salons" || cfg.Importer.BatchSize != 250 {
		t.Errorf("importer config = %+v", cfg.Importer)
	}

	bad := validConfig()
	bad.Importer.BatchSize = 0
	if err := bad.ValidateImporter(); err == nil || !strings.Contains(err.Error(), "batch_size") {
		t.Errorf("ValidateImporter() = %v, want batch_size error", err)
	}
}
