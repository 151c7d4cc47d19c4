// Package config loads service configuration from struct defaults, an
// optional YAML file, and the environment, in that order of precedence.
package config

import (
	"time"
)

// ConfigPathEnvVar names the environment variable pointing at the YAML file.
const ConfigPathEnvVar = "CONFIG_PATH"

const (
	DriverPostgres  = "postgres"
	DriverSnowflake = "snowflake"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Postgres  PostgresConfig  `koanf:"postgres"`
	Warehouse WarehouseConfig `koanf:"warehouse"`
	Snowflake SnowflakeConfig `koanf:"snowflake"`
	Redis     RedisConfig     `koanf:"redis"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Report    ReportConfig    `koanf:"report"`
	Logging   LoggingConfig   `koanf:"logging"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type PostgresConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	EnsureSchema    bool          `koanf:"ensure_schema"`
}

// WarehouseConfig selects where reports read raw events from.
type WarehouseConfig struct {
	Driver string `koanf:"driver"` // postgres or snowflake
}

type SnowflakeConfig struct {
	Account   string        `koanf:"account"`
	User      string        `koanf:"user"`
	Password  string        `koanf:"password"`
	Database  string        `koanf:"database"`
	Schema    string        `koanf:"schema"`
	Warehouse string        `koanf:"warehouse"`
	Role      string        `koanf:"role"`
	Table     string        `koanf:"table"`
	Timeout   time.Duration `koanf:"timeout"`
}

type RedisConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

type BreakerConfig struct {
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
	MaxRetries       uint64        `koanf:"max_retries"`
	InitialInterval  time.Duration `koanf:"initial_interval"`
	MaxInterval      time.Duration `koanf:"max_interval"`
}

type ReportConfig struct {
	DefaultCount int `koanf:"default_count"`
	MaxCount     int `koanf:"max_count"`
	Workers      int `koanf:"workers"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Postgres: PostgresConfig{
			MaxOpenConns:    20,
			MaxIdleConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Warehouse: WarehouseConfig{
			Driver: DriverPostgres,
		},
		Snowflake: SnowflakeConfig{
			Table:   "RAW_EVENTS",
			Timeout: 30 * time.Second,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  600 * time.Second,
		},
		Breaker: BreakerConfig{
			MaxRequests:      3,
			Interval:         30 * time.Second,
			Timeout:          10 * time.Second,
			FailureThreshold: 5,
			MaxRetries:       2,
			InitialInterval:  200 * time.Millisecond,
			MaxInterval:      2 * time.Second,
		},
		Report: ReportConfig{
			DefaultCount: 12,
			MaxCount:     366,
			Workers:      4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
