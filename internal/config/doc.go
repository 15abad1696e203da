// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

/*
Package config loads SalonPulse configuration with koanf.

Sources are layered, later layers winning:

 1. Built-in defaults (see defaultConfig)
 2. A YAML file from CONFIG_PATH or the first of DefaultConfigPaths that exists
 3. Environment variables

Environment variables use SECTION_FIELD names that map onto the nested
configuration, for example SERVER_PORT -> server.port and
ANALYTICS_SEGMENT_RULES -> analytics.segment_rules. A handful of short
aliases are kept for container deployments:

	HTTP_PORT        server.port
	DUCKDB_PATH      database.path
	JWT_SECRET       auth.jwt_secret
	AUTH_MODE        auth.mode
	CORS_ORIGINS     security.cors_origins (comma separated)
	LOG_LEVEL        logging.level
	LOG_FORMAT       logging.format
	LOG_CALLER       logging.caller
	MYSQL_DSN        importer.source_dsn
	ENVIRONMENT      server.environment

Example config.yaml:

	server:
	  port: 8640
	database:
	  path: /data/salonpulse.duckdb
	auth:
	  mode: jwt
	  jwt_secret: change-me-to-at-least-32-characters
	analytics:
	  segment_rules: decision_list
	  count_strategy: sampled
	  sample_limit: 100000
	insights:
	  fetch_timeout: 10s
	  cache_ttl: 5m

Load validates the result; an invalid configuration is never returned.
*/
package config
