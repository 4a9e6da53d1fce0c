package config

import (
	"fmt"
	"strconv"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	// MaxBodyBytes caps upload sizes.
	MaxBodyBytes int64 `envconfig:"MAX_BODY_BYTES" default:"104857600"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// StorageConfig holds storage layer and in-memory provider configuration.
type StorageConfig struct {
	InitialQuotaMB float64 `envconfig:"STORAGE_INITIAL_QUOTA_MB" default:"0"`
	CapacityMB     int64   `envconfig:"STORAGE_CAPACITY_MB" default:"100"`
	DefaultQuotaMB int64   `envconfig:"STORAGE_DEFAULT_QUOTA_MB" default:"10"`
	Origin         string  `envconfig:"STORAGE_ORIGIN" default:"http://localhost"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// TelemetryConfig holds OpenTelemetry trace export configuration.
type TelemetryConfig struct {
	Enabled     bool   `envconfig:"OTEL_ENABLED" default:"false"`
	Endpoint    string `envconfig:"OTEL_ENDPOINT"`
	ServiceName string `envconfig:"OTEL_SERVICE_NAME" default:"persistfs"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if _, err := strconv.ParseUint(c.Server.Port, 10, 16); err != nil {
		return fmt.Errorf("invalid port %q: %w", c.Server.Port, err)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body size must be positive, got %d", c.Server.MaxBodyBytes)
	}
	if c.Storage.InitialQuotaMB < 0 {
		return fmt.Errorf("initial quota must not be negative, got %v", c.Storage.InitialQuotaMB)
	}
	if c.Storage.CapacityMB <= 0 {
		return fmt.Errorf("storage capacity must be positive, got %d", c.Storage.CapacityMB)
	}
	if c.Storage.DefaultQuotaMB < 0 {
		return fmt.Errorf("default quota must not be negative, got %d", c.Storage.DefaultQuotaMB)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit needs positive rps and burst, got %d/%d",
			c.RateLimit.RequestsPerSecond, c.RateLimit.Burst)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8000",
			Host:         "0.0.0.0",
			MaxBodyBytes: 100 * 1024 * 1024,
		},
		Storage: StorageConfig{
			InitialQuotaMB: 0,
			CapacityMB:     100,
			DefaultQuotaMB: 10,
			Origin:         "http://localhost",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "persistfs",
		},
	}
}
