// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.Server.Port)
	}
	if cfg.NATS.Topic != "relations.events" {
		t.Errorf("expected default topic relations.events, got %q", cfg.NATS.Topic)
	}
	if cfg.Sync.Interval != time.Minute {
		t.Errorf("expected default sync interval 1m, got %v", cfg.Sync.Interval)
	}
	if !cfg.Seed.Enabled {
		t.Error("expected seeder enabled by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("COMPANY", "Coca")
	t.Setenv("NATS_TOPIC", "relations.test")
	t.Setenv("SYNC_API_URL", "http://system:3000")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Company.Name != "Coca" {
		t.Errorf("expected company Coca, got %q", cfg.Company.Name)
	}
	if cfg.NATS.Topic != "relations.test" {
		t.Errorf("expected topic relations.test, got %q", cfg.NATS.Topic)
	}
	if cfg.Sync.APIURL != "http://system:3000" {
		t.Errorf("expected sync API URL, got %q", cfg.Sync.APIURL)
	}
	want := []string{"http://a.example", "http://b.example"}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != want[0] || cfg.Server.CORSOrigins[1] != want[1] {
		t.Errorf("expected origins %v, got %v", want, cfg.Server.CORSOrigins)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 4100\ncompany:\n  name: Cola\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 4100 {
		t.Errorf("expected port 4100 from file, got %d", cfg.Server.Port)
	}
	if cfg.Company.Name != "Cola" {
		t.Errorf("expected company Cola from file, got %q", cfg.Company.Name)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 4100\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("expected env to win over file, got %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"negative timeout", func(c *Config) { c.Server.Timeout = -time.Second }, true},
		{"empty nats url", func(c *Config) { c.NATS.URL = "" }, true},
		{"empty topic", func(c *Config) { c.NATS.Topic = "" }, true},
		{"zero sync interval", func(c *Config) { c.Sync.Interval = 0 }, true},
		{"zero seed interval", func(c *Config) { c.Seed.Interval = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCompany(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.ValidateCompany(); err == nil {
		t.Error("expected error for missing company name")
	}

	cfg.Company.Name = "Coca"
	if err := cfg.ValidateCompany(); err == nil {
		t.Error("expected error for missing sync API URL with sync enabled")
	}

	cfg.Sync.APIURL = "http://system:3000"
	if err := cfg.ValidateCompany(); err != nil {
		t.Errorf("expected valid company config, got %v", err)
	}

	// Sync disabled removes the API URL requirement
	cfg.Sync.APIURL = ""
	cfg.Sync.Enabled = false
	if err := cfg.ValidateCompany(); err != nil {
		t.Errorf("expected valid config with sync disabled, got %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"NATS_URL", "nats.url"},
		{"COMPANY", "company.name"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"RANDOM_VAR", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
