// Package quote provides market-quote fetching against a Finnhub-compatible API.
package quote

import (
	"context"
	"time"

	"stockpulse/internal/models"
)

// Source defines the interface for fetching market data.
//
// GetQuote failures are reported through the typed taxonomy in
// internal/errors (ErrQuoteNetwork, ErrSymbolNotFound, ErrRateLimited,
// ErrQuoteUnknown), matchable with errors.Is. The source is stateless and
// safe for concurrent use.
type Source interface {
	GetQuote(ctx context.Context, ticker string) (*models.Quote, error)
	GetCandles(ctx context.Context, ticker string, from, to time.Time) ([]models.Candle, error)
}
