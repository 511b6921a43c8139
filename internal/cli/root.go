// Package cli provides the command-line interface for the application.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stockpulse/internal/config"
	"stockpulse/internal/monitor"
	"stockpulse/internal/notify"
	"stockpulse/internal/quote"
	"stockpulse/internal/recommend"
	"stockpulse/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.AlertStore
	Quotes   quote.Source
	Notifier notify.Notifier
	Engine   *recommend.Engine
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
		Engine: recommend.NewEngine(),
	}

	alertStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Store.Path).Msg("Failed to open alert store")
	} else {
		app.Store = alertStore
	}

	app.Quotes = quote.NewClient(quote.ClientConfig{
		BaseURL: cfg.Quote.BaseURL,
		APIKey:  cfg.Quote.APIKey,
		Timeout: cfg.Quote.Timeout(),
	})

	if cfg.Notifications.Enabled {
		app.Notifier = notify.NewMultiNotifier(cfg.Notifications)
	}

	rootCmd := &cobra.Command{
		Use:     "stockpulse",
		Short:   "Price-alert monitoring and buy-price recommendations",
		Version: Version,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Store != nil {
				app.Store.Close()
			}
		},
	}

	rootCmd.AddCommand(newAlertCmd(app))
	rootCmd.AddCommand(newRecommendCmd(app))
	rootCmd.AddCommand(newMonitorCmd(app))

	return rootCmd
}

// newMonitor builds a monitor from the app's dependencies.
func (app *App) newMonitor() *monitor.Monitor {
	return monitor.New(app.Store, app.Quotes, app.Notifier, app.Logger, app.Config.Monitor.Concurrency)
}

// newScheduler builds the periodic scheduler around a fresh monitor.
func (app *App) newScheduler() *monitor.Scheduler {
	return monitor.NewScheduler(app.newMonitor(), app.Config.Monitor, app.Logger)
}
