// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"stockpulse/internal/models"
)

// AlertStore defines the interface for alert and price-history persistence.
//
// GetActiveAlerts is a point-in-time snapshot read: alerts created after the
// read are not visible to the caller until the next read.
type AlertStore interface {
	// Alerts
	SaveAlert(ctx context.Context, alert *models.PriceAlert) (int64, error)
	GetAlert(ctx context.Context, id int64) (*models.PriceAlert, error)
	GetActiveAlerts(ctx context.Context) ([]models.PriceAlert, error)
	GetTriggeredAlerts(ctx context.Context) ([]models.PriceAlert, error)
	DeleteAlert(ctx context.Context, id int64) error

	// MarkTriggered atomically transitions an active alert to triggered.
	// It returns true only when this call performed the transition; marking
	// an already-triggered alert is a no-op and returns false.
	MarkTriggered(ctx context.Context, id int64, triggeredAt time.Time) (bool, error)

	// ResetAlert re-arms a triggered alert (user action).
	ResetAlert(ctx context.Context, id int64) error

	// Price history cache
	SaveCandles(ctx context.Context, ticker string, candles []models.Candle) error
	GetCandles(ctx context.Context, ticker string, from, to time.Time) ([]models.Candle, error)

	// Lifecycle
	Close() error
}
