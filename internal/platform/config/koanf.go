package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Load layers defaults, the YAML file named by CONFIG_PATH (if set), and
// environment variables, then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

var envMappings = map[string]string{
	"http_addr":        "server.addr",
	"shutdown_timeout": "server.shutdown_timeout",

	"postgres_dsn":               "postgres.dsn",
	"postgres_max_open_conns":    "postgres.max_open_conns",
	"postgres_max_idle_conns":    "postgres.max_idle_conns",
	"postgres_conn_max_lifetime": "postgres.conn_max_lifetime",
	"postgres_ensure_schema":     "postgres.ensure_schema",

	"warehouse_driver": "warehouse.driver",

	"snowflake_account":   "snowflake.account",
	"snowflake_user":      "snowflake.user",
	"snowflake_password":  "snowflake.password",
	"snowflake_database":  "snowflake.database",
	"snowflake_schema":    "snowflake.schema",
	"snowflake_warehouse": "snowflake.warehouse",
	"snowflake_role":      "snowflake.role",
	"snowflake_table":     "snowflake.table",
	"snowflake_timeout":   "snowflake.timeout",

	"redis_enabled":   "redis.enabled",
	"redis_addr":      "redis.addr",
	"redis_password":  "redis.password",
	"redis_db":        "redis.db",
	"redis_cache_ttl": "redis.ttl",

	"breaker_max_requests":      "breaker.max_requests",
	"breaker_interval":          "breaker.interval",
	"breaker_timeout":           "breaker.timeout",
	"breaker_failure_threshold": "breaker.failure_threshold",
	"source_max_retries":        "breaker.max_retries",
	"source_retry_initial":      "breaker.initial_interval",
	"source_retry_max":          "breaker.max_interval",

	"report_default_count": "report.default_count",
	"report_max_count":     "report.max_count",
	"report_workers":       "report.workers",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps known environment variables (POSTGRES_DSN,
// REDIS_ADDR, ...) to koanf paths. Anything unmapped returns "" and is
// ignored, so unrelated process environment never leaks into the config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
