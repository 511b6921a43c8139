// Package monitor evaluates active price alerts against live quotes and
// triggers each alert exactly once.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"stockpulse/internal/errors"
	"stockpulse/internal/logging"
	"stockpulse/internal/models"
	"stockpulse/internal/notify"
	"stockpulse/internal/quote"
	"stockpulse/internal/store"
)

// CycleResult reports what a single monitor cycle did.
type CycleResult struct {
	Evaluated   int
	Triggered   int
	FetchFailed int
}

// Monitor runs periodic alert-evaluation cycles. The scheduler guarantees
// at most one cycle in flight; within a cycle, per-alert quote fetches run
// concurrently while alert-state writes are linearized by the store.
type Monitor struct {
	store       store.AlertStore
	quotes      quote.Source
	notifier    notify.Notifier
	logger      zerolog.Logger
	concurrency int
}

// New creates a monitor with explicit dependencies. concurrency bounds the
// number of simultaneous quote fetches per cycle.
func New(alertStore store.AlertStore, quotes quote.Source, notifier notify.Notifier, logger zerolog.Logger, concurrency int) *Monitor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Monitor{
		store:       alertStore,
		quotes:      quotes,
		notifier:    notifier,
		logger:      logger,
		concurrency: concurrency,
	}
}

// RunCycle reads a snapshot of active alerts, evaluates each against a
// freshly fetched price, and transitions triggered alerts exactly once.
//
// A failed quote fetch skips that alert for this cycle; a failed store
// read fails the whole cycle and is retryable by the scheduler. An empty
// active set is vacuous success.
func (m *Monitor) RunCycle(ctx context.Context) (CycleResult, error) {
	start := time.Now()

	alerts, err := m.store.GetActiveAlerts(ctx)
	if err != nil {
		return CycleResult{}, errors.Wrap(err, "reading active alerts")
	}

	if len(alerts) == 0 {
		return CycleResult{}, nil
	}

	var (
		result CycleResult
		mu     sync.Mutex
		wg     sync.WaitGroup
		sem    = make(chan struct{}, m.concurrency)
	)

	for i := range alerts {
		alert := alerts[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			triggered, fetchFailed := m.evaluate(ctx, &alert)

			mu.Lock()
			if triggered {
				result.Triggered++
			}
			if fetchFailed {
				result.FetchFailed++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	result.Evaluated = len(alerts)
	logging.LogCycle(m.logger, result.Evaluated, result.Triggered, result.FetchFailed, time.Since(start))
	return result, nil
}

// evaluate checks one alert against the current price. It reports whether
// the alert transitioned to triggered and whether the quote fetch failed.
func (m *Monitor) evaluate(ctx context.Context, alert *models.PriceAlert) (triggered, fetchFailed bool) {
	logger := logging.WithTicker(m.logger, alert.Ticker)

	q, err := m.quotes.GetQuote(ctx, alert.Ticker)
	if err != nil {
		// A single symbol's failure never aborts the cycle; the alert
		// rolls over to the next cycle.
		logger.Warn().Err(err).Int64("alert_id", alert.ID).Msg("Quote fetch failed, skipping alert")
		return false, true
	}

	if !alert.ShouldTrigger(q.Current) {
		return false, false
	}

	transitioned, err := m.store.MarkTriggered(ctx, alert.ID, time.Now())
	if err != nil {
		// The alert stays active and is re-evaluated next cycle; the
		// predicate is idempotent, so a target already passed stays passed.
		logger.Error().Err(err).Int64("alert_id", alert.ID).Msg("Failed to mark alert triggered")
		return false, false
	}
	if !transitioned {
		// Already triggered elsewhere; one-shot semantics mean no second
		// notification.
		return false, false
	}

	logging.LogAlertTriggered(logger, alert.ID, alert.Ticker, string(alert.Direction), alert.TargetPrice, q.Current)

	// Notification is a best-effort side channel, never part of the
	// triggering transaction.
	if m.notifier != nil {
		if err := m.notifier.SendAlert(ctx, alert, q.Current); err != nil {
			logger.Warn().Err(err).Int64("alert_id", alert.ID).Msg("Notification delivery failed")
		}
	}

	return true, false
}
