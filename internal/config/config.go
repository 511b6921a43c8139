// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Monitor       MonitorConfig      `mapstructure:"monitor"`
	Quote         QuoteConfig        `mapstructure:"quote"`
	Store         StoreConfig        `mapstructure:"store"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// MonitorConfig holds alert-monitor scheduling configuration.
type MonitorConfig struct {
	IntervalMinutes     int `mapstructure:"interval_minutes"`
	StartupDelaySeconds int `mapstructure:"startup_delay_seconds"`
	Concurrency         int `mapstructure:"concurrency"`
}

// Interval returns the monitor cadence as a duration.
func (m MonitorConfig) Interval() time.Duration {
	return time.Duration(m.IntervalMinutes) * time.Minute
}

// StartupDelay returns the initial delay before the first cycle.
func (m MonitorConfig) StartupDelay() time.Duration {
	return time.Duration(m.StartupDelaySeconds) * time.Second
}

// QuoteConfig holds quote-provider configuration.
type QuoteConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout returns the HTTP timeout for quote requests.
func (q QuoteConfig) Timeout() time.Duration {
	return time.Duration(q.TimeoutSeconds) * time.Second
}

// StoreConfig holds alert-store configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Level   string        `mapstructure:"level"` // all, alerts_only, errors_only
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/stockpulse"
	}
	return filepath.Join(home, ".config", "stockpulse")
}

// DefaultStorePath returns the default database path.
func DefaultStorePath() string {
	return filepath.Join(DefaultConfigDir(), "stockpulse.db")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		// Config file not found, create template and continue with defaults
		if err := createTemplateConfig(configDir); err != nil {
			return nil, fmt.Errorf("creating config template: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	// The template ships with an empty store path meaning "use the default".
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("monitor.interval_minutes", 15)
	v.SetDefault("monitor.startup_delay_seconds", 30)
	v.SetDefault("monitor.concurrency", 4)
	v.SetDefault("quote.base_url", "https://finnhub.io/api/v1")
	v.SetDefault("quote.timeout_seconds", 10)
	v.SetDefault("store.path", DefaultStorePath())
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.level", "all")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STOCKPULSE_API_KEY"); v != "" {
		cfg.Quote.APIKey = v
	}
	if v := os.Getenv("STOCKPULSE_QUOTE_URL"); v != "" {
		cfg.Quote.BaseURL = v
	}
	if v := os.Getenv("STOCKPULSE_DB_PATH"); v != "" {
		cfg.Store.Path = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Monitor.IntervalMinutes <= 0 {
		return fmt.Errorf("monitor interval_minutes must be positive")
	}
	if c.Monitor.Concurrency <= 0 {
		return fmt.Errorf("monitor concurrency must be positive")
	}
	if c.Quote.BaseURL == "" {
		return fmt.Errorf("quote base_url must be set")
	}
	if c.Quote.TimeoutSeconds <= 0 {
		return fmt.Errorf("quote timeout_seconds must be positive")
	}
	switch c.Notifications.Level {
	case "", "all", "alerts_only", "errors_only":
	default:
		return fmt.Errorf("invalid notification level: %s", c.Notifications.Level)
	}
	return nil
}
