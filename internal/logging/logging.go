// Package logging provides structured logging functionality.
package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "stockpulse", "logs", "stockpulse.log"),
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     30,
	}
}

// NewLogger creates a new logger with default configuration.
func NewLogger() zerolog.Logger {
	return NewLoggerWithConfig(DefaultLogConfig())
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
			FormatLevel: func(i interface{}) string {
				if ll, ok := i.(string); ok {
					switch ll {
					case "debug":
						return "\033[36mDBG\033[0m"
					case "info":
						return "\033[32mINF\033[0m"
					case "warn":
						return "\033[33mWRN\033[0m"
					case "error":
						return "\033[31mERR\033[0m"
					default:
						return ll
					}
				}
				return "???"
			},
		}
		writers = append(writers, consoleWriter)
	}

	// File writer with rotation
	if cfg.File {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			fileWriter := &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			}
			writers = append(writers, fileWriter)
		}
	}

	var writer io.Writer
	if len(writers) == 0 {
		writer = os.Stdout
	} else if len(writers) == 1 {
		writer = writers[0]
	} else {
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	logger := zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Logger()

	return logger
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetDebugLevel sets the global log level to debug.
func SetDebugLevel() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// ContextKey is the type for context keys.
type ContextKey string

const (
	// LoggerKey is the context key for the logger.
	LoggerKey ContextKey = "logger"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// WithTicker adds a ticker symbol to the logger context.
func WithTicker(logger zerolog.Logger, ticker string) zerolog.Logger {
	return logger.With().Str("ticker", ticker).Logger()
}

// LogAlertTriggered logs an alert trigger.
func LogAlertTriggered(logger zerolog.Logger, alertID int64, ticker, direction string, targetPrice, currentPrice float64) {
	logger.Info().
		Str("event", "alert_triggered").
		Int64("alert_id", alertID).
		Str("ticker", ticker).
		Str("direction", direction).
		Float64("target_price", targetPrice).
		Float64("current_price", currentPrice).
		Msg("Alert triggered")
}

// LogCycle logs the result of a monitor cycle.
func LogCycle(logger zerolog.Logger, evaluated, triggered, fetchFailed int, duration time.Duration) {
	logger.Info().
		Str("event", "monitor_cycle").
		Int("evaluated", evaluated).
		Int("triggered", triggered).
		Int("fetch_failed", fetchFailed).
		Dur("duration", duration).
		Msg("Monitor cycle completed")
}

// LogRecommendation logs a buy recommendation.
func LogRecommendation(logger zerolog.Logger, ticker, strategy string, targetPrice, confidence float64) {
	logger.Info().
		Str("event", "recommendation").
		Str("ticker", ticker).
		Str("strategy", strategy).
		Float64("target_price", targetPrice).
		Float64("confidence", confidence).
		Msg("Buy recommendation generated")
}

// LogQuoteFetch logs a quote API call.
func LogQuoteFetch(logger zerolog.Logger, ticker string, duration time.Duration, err error) {
	event := logger.Debug().
		Str("event", "quote_fetch").
		Str("ticker", ticker).
		Dur("duration", duration)

	if err != nil {
		event.Err(err).Msg("Quote fetch failed")
	} else {
		event.Msg("Quote fetch completed")
	}
}
