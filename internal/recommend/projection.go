package recommend

import (
	"stockpulse/internal/models"
)

// Forward-projection parameters. The sequence is illustrative output, kept
// clearly separate from the tiered recommendation.
const (
	projectionHorizon   = 30
	projectionBound     = 0.05 // symmetric +/-5% bounds per point
	shortTermStepJitter = 0.02 // bounded +/-2% perturbation per short-term step
	trendWindow         = 30
)

// project produces a fixed-horizon sequence of projected prices with
// symmetric bounds. Short-term projections apply a small random
// perturbation per step from the engine's injected source; long-term
// projections extrapolate the trailing-window percentage trend linearly
// and are fully deterministic.
func (e *Engine) project(history []models.Candle, strategy models.Strategy) []models.PricePrediction {
	if len(history) == 0 {
		return nil
	}

	last := history[len(history)-1]
	currentPrice := last.Close
	currentTime := last.Timestamp

	var trend float64
	if strategy == models.StrategyLongTerm {
		trend = trailingTrend(closePrices(history), trendWindow)
	}

	predictions := make([]models.PricePrediction, 0, projectionHorizon)
	for i := 1; i <= projectionHorizon; i++ {
		var price float64
		if strategy == models.StrategyShortTerm {
			jitter := (e.rand.Float64()*2 - 1) * shortTermStepJitter
			price = currentPrice * (1 + jitter)
		} else {
			price = currentPrice * (1 + trend*float64(i)/100.0)
		}
		// A steep downtrend can extrapolate through zero; prices floor there.
		if price < 0 {
			price = 0
		}

		predictions = append(predictions, models.PricePrediction{
			Date:       currentTime.AddDate(0, 0, i),
			Price:      price,
			UpperBound: price * (1 + projectionBound),
			LowerBound: price * (1 - projectionBound),
		})
	}

	return predictions
}

// trailingTrend returns the percentage change across the last window
// closes (0 when fewer than two points exist).
func trailingTrend(closes []float64, window int) float64 {
	if len(closes) > window {
		closes = closes[len(closes)-window:]
	}
	if len(closes) < 2 || closes[0] == 0 {
		return 0
	}
	return (closes[len(closes)-1] - closes[0]) / closes[0] * 100
}
