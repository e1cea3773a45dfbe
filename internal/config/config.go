// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration for both the system API and
// the company consumer. It is loaded once at startup via Load() and is
// immutable afterwards, safe for concurrent reads.
//
// Loading order (Koanf v2):
//  1. Defaults: built-in sensible defaults for all settings
//  2. Config file: optional YAML file (config.yaml) for persistent settings
//  3. Environment variables: override any setting
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	NATS     NATSConfig     `koanf:"nats"`
	Sync     SyncConfig     `koanf:"sync"`
	Seed     SeedConfig     `koanf:"seed"`
	Company  CompanyConfig  `koanf:"company"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment variables:
//   - HTTP_PORT: listen port (default: 3000)
//   - HTTP_HOST: bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: read/write timeout (default: 30s)
//   - CORS_ORIGINS: comma-separated allowed origins (default: *)
//   - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: request rate limit
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds DuckDB settings.
//
// Environment variables:
//   - DUCKDB_PATH: database file path; empty string means in-memory
//   - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = use runtime.NumCPU()
}

// NATSConfig holds broker transport settings shared by the publisher and
// the consumer. The embedded server is intended for development and
// single-node deployments.
//
// Environment variables:
//   - NATS_URL: broker URL (default: nats://127.0.0.1:4222)
//   - NATS_EMBEDDED: run an in-process JetStream server (default: false)
//   - NATS_TOPIC: relation event subject (default: relations.events)
type NATSConfig struct {
	URL            string        `koanf:"url"`
	EmbeddedServer bool          `koanf:"embedded_server"`
	StoreDir       string        `koanf:"store_dir"`
	Topic          string        `koanf:"topic"`
	DurableName    string        `koanf:"durable_name"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`

	// Router settings (Watermill middleware)
	RouterRetryCount           int           `koanf:"router_retry_count"`
	RouterRetryInitialInterval time.Duration `koanf:"router_retry_initial_interval"`
	RouterCloseTimeout         time.Duration `koanf:"router_close_timeout"`
}

// SyncConfig holds reconciliation puller settings for the company side.
//
// Environment variables:
//   - SYNC_ENABLED: run the reconciliation puller (default: true)
//   - SYNC_INTERVAL: time between pulls (default: 1m)
//   - SYNC_API_URL: base URL of the authoritative relations API
type SyncConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
	APIURL   string        `koanf:"api_url"`
	Timeout  time.Duration `koanf:"timeout"`
}

// SeedConfig holds the idempotent seeder settings for the company side.
//
// Environment variables:
//   - SEED_ENABLED: run the periodic seeder (default: true)
//   - SEED_INTERVAL: time between seeder runs (default: 1m)
//   - SEED_FILE: optional CSV file (name,kvkNumber) with the baseline dataset
type SeedConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
	File     string        `koanf:"file"`
}

// CompanyConfig identifies the consuming company. The name doubles as the
// owner partition in the local store and as the broker consumer group, so
// multiple instances of the same company share one subscription.
//
// Environment variables:
//   - COMPANY: company name (required for cmd/company)
type CompanyConfig struct {
	Name string `koanf:"name"`
}

// LoggingConfig holds log output settings.
//
// Environment variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that would prevent startup.
// Required fields that only one binary needs (company name, sync API URL)
// are validated by that binary, not here.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.NATS.URL == "" {
		return fmt.Errorf("nats.url must not be empty")
	}
	if c.NATS.Topic == "" {
		return fmt.Errorf("nats.topic must not be empty")
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("sync.interval must be positive, got %v", c.Sync.Interval)
	}
	if c.Seed.Interval <= 0 {
		return fmt.Errorf("seed.interval must be positive, got %v", c.Seed.Interval)
	}
	if c.Server.RateLimitReqs < 0 {
		return fmt.Errorf("server.rate_limit_reqs must not be negative, got %d", c.Server.RateLimitReqs)
	}
	return nil
}

// ValidateCompany checks the fields only the company binary requires.
func (c *Config) ValidateCompany() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Company.Name == "" {
		return fmt.Errorf("company.name is required (set COMPANY)")
	}
	if c.Sync.Enabled && c.Sync.APIURL == "" {
		return fmt.Errorf("sync.api_url is required when sync is enabled (set SYNC_API_URL)")
	}
	return nil
}
