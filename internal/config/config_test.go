package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsAndTemplateCreation(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Monitor.IntervalMinutes != 15 {
		t.Errorf("interval = %d, want 15", cfg.Monitor.IntervalMinutes)
	}
	if cfg.Monitor.Concurrency != 4 {
		t.Errorf("concurrency = %d, want 4", cfg.Monitor.Concurrency)
	}
	if cfg.Quote.BaseURL != "https://finnhub.io/api/v1" {
		t.Errorf("base url = %q, want finnhub default", cfg.Quote.BaseURL)
	}
	if !cfg.Notifications.Enabled || cfg.Notifications.Level != "all" {
		t.Errorf("notifications = %+v, want enabled at level all", cfg.Notifications)
	}

	// A missing config file leaves a template behind for the user.
	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("expected template config.toml to be created: %v", err)
	}
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[monitor]
interval_minutes = 5
concurrency = 2

[quote]
api_key = "file-key"

[notifications]
level = "alerts_only"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Monitor.IntervalMinutes != 5 || cfg.Monitor.Concurrency != 2 {
		t.Errorf("monitor = %+v, want values from file", cfg.Monitor)
	}
	if cfg.Quote.APIKey != "file-key" {
		t.Errorf("api key = %q, want file-key", cfg.Quote.APIKey)
	}
	if cfg.Notifications.Level != "alerts_only" {
		t.Errorf("level = %q, want alerts_only", cfg.Notifications.Level)
	}
	// Unset keys keep their defaults.
	if cfg.Quote.TimeoutSeconds != 10 {
		t.Errorf("timeout = %d, want default 10", cfg.Quote.TimeoutSeconds)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STOCKPULSE_API_KEY", "env-key")
	t.Setenv("STOCKPULSE_QUOTE_URL", "http://localhost:9999")
	t.Setenv("STOCKPULSE_DB_PATH", "/tmp/env.db")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Quote.APIKey != "env-key" {
		t.Errorf("api key = %q, want env-key", cfg.Quote.APIKey)
	}
	if cfg.Quote.BaseURL != "http://localhost:9999" {
		t.Errorf("base url = %q, want env override", cfg.Quote.BaseURL)
	}
	if cfg.Store.Path != "/tmp/env.db" {
		t.Errorf("store path = %q, want env override", cfg.Store.Path)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Monitor: MonitorConfig{IntervalMinutes: 15, StartupDelaySeconds: 30, Concurrency: 4},
			Quote:   QuoteConfig{BaseURL: "https://finnhub.io/api/v1", TimeoutSeconds: 10},
			Notifications: NotificationConfig{
				Enabled: true,
				Level:   "all",
			},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero interval", func(c *Config) { c.Monitor.IntervalMinutes = 0 }},
		{"zero concurrency", func(c *Config) { c.Monitor.Concurrency = 0 }},
		{"missing base url", func(c *Config) { c.Quote.BaseURL = "" }},
		{"zero timeout", func(c *Config) { c.Quote.TimeoutSeconds = 0 }},
		{"bad notification level", func(c *Config) { c.Notifications.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestMonitorConfig_Durations(t *testing.T) {
	m := MonitorConfig{IntervalMinutes: 15, StartupDelaySeconds: 30}
	if m.Interval().Minutes() != 15 {
		t.Errorf("interval = %v, want 15m", m.Interval())
	}
	if m.StartupDelay().Seconds() != 30 {
		t.Errorf("startup delay = %v, want 30s", m.StartupDelay())
	}
}
