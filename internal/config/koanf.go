// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/salonpulse/config.yaml",
	"/etc/salonpulse/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8640,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/salonpulse.duckdb",
			MaxMemory: "1GB",
		},
		Auth: AuthConfig{
			Mode:     AuthModeJWT,
			Issuer:   "salonpulse",
			TokenTTL: 12 * time.Hour,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		Analytics: AnalyticsConfig{
			PlatformWindowDays: 90,
			TopSalons:          5,
			SegmentRules:       "decision_list",
			CountStrategy:      CountPrecise,
			SampleLimit:        100000,
			AtRiskLimit:        20,
			TopCustomers:       10,
		},
		Insights: InsightsConfig{
			FetchTimeout:    10 * time.Second,
			CacheTTL:        5 * time.Minute,
			RefreshEnabled:  true,
			RefreshInterval: 10 * time.Minute,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
			MetricsLimit:    5000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Importer: ImporterConfig{
			BatchSize: 1000,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file and
// the environment, in that order of precedence, then validates it.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadImporter is Load for the import command, which needs no auth or HTTP
// settings.
func LoadImporter() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateImporter(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths arrive from the environment as comma separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if len(values) == 0 {
			continue
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envAliases are short names kept for container deployments.
var envAliases = map[string]string{
	"http_port":    "server.port",
	"http_host":    "server.host",
	"environment":  "server.environment",
	"duckdb_path":  "database.path",
	"jwt_secret":   "auth.jwt_secret",
	"auth_mode":    "auth.mode",
	"cors_origins": "security.cors_origins",
	"log_level":    "logging.level",
	"log_format":   "logging.format",
	"log_caller":   "logging.caller",
	"mysql_dsn":    "importer.source_dsn",
}

// envSections are the prefixes that map SECTION_FIELD onto section.field.
var envSections = []string{
	"server", "database", "auth", "security", "analytics", "insights", "logging", "importer",
}

// envTransformFunc maps an environment variable name to a koanf path, or
// "" to ignore it.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if mapped, ok := envAliases[key]; ok {
		return mapped
	}
	for _, section := range envSections {
		if field, ok := strings.CutPrefix(key, section+"_"); ok && field != "" {
			return section + "." + field
		}
	}
	return ""
}
