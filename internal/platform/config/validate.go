package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var ErrInvalidConfig = errors.New("invalid config")

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	add := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Server.Addr == "" {
		add("server.addr is required")
	}
	if c.Postgres.DSN == "" {
		add("postgres.dsn is required (POSTGRES_DSN)")
	}

	switch strings.ToLower(c.Warehouse.Driver) {
	case DriverPostgres:
	case DriverSnowflake:
		if c.Snowflake.Account == "" {
			add("snowflake.account is required when warehouse.driver is snowflake")
		}
		if c.Snowflake.User == "" {
			add("snowflake.user is required when warehouse.driver is snowflake")
		}
		if c.Snowflake.Database == "" {
			add("snowflake.database is required when warehouse.driver is snowflake")
		}
	default:
		add("unknown warehouse.driver %q", c.Warehouse.Driver)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		add("redis.addr is required when redis is enabled")
	}
	if c.Redis.TTL < 0 {
		add("redis.ttl must not be negative")
	}

	if c.Report.DefaultCount <= 0 {
		add("report.default_count must be positive, got %d", c.Report.DefaultCount)
	}
	if c.Report.MaxCount <= 0 {
		add("report.max_count must be positive, got %d", c.Report.MaxCount)
	} else if c.Report.DefaultCount > c.Report.MaxCount {
		add("report.default_count %d exceeds report.max_count %d", c.Report.DefaultCount, c.Report.MaxCount)
	}
	if c.Report.Workers <= 0 {
		add("report.workers must be positive, got %d", c.Report.Workers)
	}

	if c.Breaker.FailureThreshold == 0 {
		add("breaker.failure_threshold must be positive")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		add("unknown logging.format %q", c.Logging.Format)
	}

	return result.ErrorOrNil()
}
