// Package config loads and validates the service's immutable settings
// from environment variables using a koanf env provider plus validator
// struct tags, covering server, database, auth and ingestion/retention
// knobs.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Config is the fully validated, immutable configuration for one process.
type Config struct {
	Primary  Primary        `koanf:"primary" validate:"required"`
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Auth     AuthConfig     `koanf:"auth" validate:"required"`
	Limits   LimitsConfig   `koanf:"limits" validate:"required"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string `koanf:"port" validate:"required"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"required"`
	WriteTimeout int    `koanf:"write_timeout" validate:"required"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MinConns        int    `koanf:"min_conns" validate:"required"`
	MaxConns        int    `koanf:"max_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
	LookupTimeoutMS int    `koanf:"lookup_timeout_ms" validate:"required"`
}

// AuthConfig holds the two shared secrets. Both must be at least 32 characters;
// HMACSecret signs the ingest body, AdminToken gates admin mode routes.
type AuthConfig struct {
	HMACSecret string `koanf:"hmac_secret" validate:"required,min=32"`
	AdminToken string `koanf:"admin_token" validate:"required,min=32"`
}

// LimitsConfig holds the hard caps the ingestion and rate-limit paths
// enforce.
type LimitsConfig struct {
	DefaultRetentionDays int `koanf:"default_retention_days" validate:"required,min=1"`
	MaxPayloadBytes      int `koanf:"max_payload_bytes" validate:"required,min=1"`
	MaxEventsPerPost     int `koanf:"max_events_per_post" validate:"required,min=1"`
	RateLimitPerMinute   int `koanf:"rate_limit_per_minute" validate:"required,min=1"`
	RateLimitPerIP       int `koanf:"rate_limit_per_ip" validate:"required,min=1"`
}

// Defaults returns the operational defaults for every setting, applied
// before validation so operators only need to set values they want to
// override.
func Defaults() *Config {
	return &Config{
		Primary: Primary{Env: "production"},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10,
			WriteTimeout: 10,
			IdleTimeout:  60,
		},
		Database: DatabaseConfig{
			SSLMode:         "disable",
			MinConns:        2,
			MaxConns:        10,
			ConnMaxLifetime: 3600,
			ConnMaxIdleTime: 300,
			LookupTimeoutMS: 10_000,
		},
		Limits: LimitsConfig{
			DefaultRetentionDays: 3,
			MaxPayloadBytes:      524_288,
			MaxEventsPerPost:     250,
			RateLimitPerMinute:   5000,
			RateLimitPerIP:       100,
		},
	}
}

// Load reads AKAVELOG_-prefixed environment variables over the defaults
// and validates the result, failing loudly if any required value is
// absent or malformed.
func Load() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := Defaults()

	k := koanf.New(".")
	err := k.Load(env.Provider("AKAVELOG_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "AKAVELOG_"))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		logger.Error().Err(err).Msg("invalid configuration")
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad is used from main: it loads the config or exits the process.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		logger.Fatal().Err(err).Msg("could not load configuration")
	}
	return cfg
}

// DSN builds a libpq-style connection string for pgxpool.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}
