package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the search service.
// Environment variables are parsed from the SEARCH_SERVICE_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Database driver: postgres or sqlite
	DBDriver    string `envconfig:"DB_DRIVER" default:"postgres"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"searchrail.db"`

	// Ordering conflicts under concurrency are retried this many times
	// before the request fails with 409.
	MaxConflictRetries int `envconfig:"MAX_CONFLICT_RETRIES" default:"5"`

	// Health probing
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
	BootstrapTimeoutSeconds   int `envconfig:"BOOTSTRAP_TIMEOUT_SECONDS" default:"30"`

	// DevMode enables the mock authorizer that accepts sk_local_* keys.
	DevMode bool `envconfig:"DEV_MODE" default:"false"`
}

// Validate checks driver selection and the matching connection settings.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("SEARCH_SERVICE_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SEARCH_SERVICE_SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.MaxConflictRetries < 1 {
		return fmt.Errorf("MAX_CONFLICT_RETRIES must be at least 1")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Example: SEARCH_SERVICE_HTTP_PORT, SEARCH_SERVICE_DB_DRIVER.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("SEARCH_SERVICE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Int("max_conflict_retries", cfg.MaxConflictRetries).
		Bool("dev_mode", cfg.DevMode).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config backed by a throwaway sqlite file.
func NewForTesting(sqlitePath string) *Config {
	return &Config{
		Environment:        EnvTesting,
		HTTPPort:           8080,
		DBDriver:           "sqlite",
		SQLitePath:         sqlitePath,
		MaxConflictRetries: 5,

		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
		BootstrapTimeoutSeconds:   5,

		DevMode: true,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
