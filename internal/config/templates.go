package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Stock Pulse Configuration

[monitor]
# How often the alert monitor runs, in minutes
interval_minutes = 15
# Delay before the first cycle after startup, in seconds
startup_delay_seconds = 30
# Maximum concurrent quote fetches per cycle
concurrency = 4

[quote]
# Quote provider base URL (Finnhub-compatible API)
base_url = "https://finnhub.io/api/v1"
# API key (can also be set via STOCKPULSE_API_KEY)
api_key = ""
# HTTP timeout in seconds
timeout_seconds = 10

[store]
# SQLite database path (empty = default under the config directory)
path = ""

[notifications]
# Enable notifications
enabled = true
# Notification level: all, alerts_only, errors_only
level = "all"

[notifications.webhook]
enabled = false
url = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
console = true
file = true
`

// createTemplateConfig writes a template config file so the user has
// something to edit on first run.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0600)
}
