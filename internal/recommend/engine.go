// Package recommend derives tiered buy-price recommendations from a
// price-history series.
package recommend

import (
	"fmt"
	"math/rand"
	"time"

	"stockpulse/internal/models"
)

// Tier discounts applied beneath the strategy target. The moderate tier is
// the target itself; aggressive digs below it, conservative sits halfway
// back toward the current price.
const aggressiveTierFactor = 0.97

// Confidence heuristic constants, kept exactly as the reference analytics
// use them: volatility multiplier 10, bounds [0.3, 0.9], neutral 0.5 when
// fewer than two points exist.
const (
	volatilityMultiplier = 10.0
	confidenceFloor      = 0.3
	confidenceCeiling    = 0.9
	confidenceNeutral    = 0.5
)

// Engine computes buy recommendations. It performs no I/O and is safe for
// concurrent use. The random source only feeds the short-term forward
// projection; every other output is a deterministic function of the input.
type Engine struct {
	rand *rand.Rand
}

// NewEngine creates an engine with a time-seeded random source.
func NewEngine() *Engine {
	return NewEngineWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewEngineWithRand creates an engine with the given random source, for
// reproducible short-term projections.
func NewEngineWithRand(r *rand.Rand) *Engine {
	return &Engine{rand: r}
}

// Recommend maps a closing-price series to three buy-price tiers plus a
// confidence score for the given strategy horizon.
//
// An empty history is a valid input, not a failure: the result degrades to
// zero-valued tiers with confidence 0 and an insufficient-data rationale.
func (e *Engine) Recommend(ticker string, history []models.Candle, strategy models.Strategy) models.BuyRecommendation {
	if len(history) == 0 {
		return degradedRecommendation(ticker, strategy)
	}

	closes := closePrices(history)
	currentPrice := closes[len(closes)-1]

	var target float64
	var rationale string
	if strategy == models.StrategyShortTerm {
		target, rationale = shortTermTarget(closes, currentPrice)
	} else {
		target, rationale = longTermTarget(closes, currentPrice)
	}

	rec := models.BuyRecommendation{
		Ticker:       ticker,
		Strategy:     strategy,
		CurrentPrice: currentPrice,
		Confidence:   confidence(closes),
		GeneratedAt:  time.Now(),
		Projections:  e.project(history, strategy),
	}
	rec.Aggressive, rec.Moderate, rec.Conservative = tiers(currentPrice, target, rationale)
	return rec
}

// shortTermTarget compares the 5-period and 20-period moving averages.
func shortTermTarget(closes []float64, currentPrice float64) (float64, string) {
	ma5 := movingAverage(closes, 5)
	ma20 := movingAverage(closes, 20)

	if ma5 > ma20 {
		return currentPrice * 0.97, "5-day average above 20-day average: short-term uptrend, buy on a shallow dip"
	}
	return currentPrice * 0.95, "5-day average at or below 20-day average: no short-term momentum, wait for a deeper dip"
}

// longTermTarget compares the 50-period and 200-period moving averages.
func longTermTarget(closes []float64, currentPrice float64) (float64, string) {
	ma50 := movingAverage(closes, 50)
	ma200 := movingAverage(closes, 200)

	if ma50 > ma200 {
		// Golden cross: accumulate near the 200-day average.
		target := ma200
		if cap := currentPrice * 0.95; cap < target {
			target = cap
		}
		return target, "50-day average above 200-day average (golden cross): accumulate near the 200-day line"
	}
	return currentPrice * 0.90, "50-day average at or below 200-day average: downtrend or sideways, demand a wide margin"
}

// tiers derives the three consistently-ordered buy levels beneath the
// strategy target. Every branch above yields target < currentPrice, so the
// ordering aggressive <= moderate <= conservative <= current holds.
func tiers(currentPrice, target float64, signal string) (aggressive, moderate, conservative models.PriceTier) {
	conservativePrice := target + (currentPrice-target)/2
	if conservativePrice > currentPrice {
		conservativePrice = currentPrice
	}

	aggressive = models.PriceTier{
		Price:           target * aggressiveTierFactor,
		DiscountPercent: discountPercent(currentPrice, target*aggressiveTierFactor),
		Rationale:       fmt.Sprintf("Deepest entry below the strategy target. %s.", signal),
	}
	moderate = models.PriceTier{
		Price:           target,
		DiscountPercent: discountPercent(currentPrice, target),
		Rationale:       fmt.Sprintf("Strategy target. %s.", signal),
	}
	conservative = models.PriceTier{
		Price:           conservativePrice,
		DiscountPercent: discountPercent(currentPrice, conservativePrice),
		Rationale:       fmt.Sprintf("Shallow entry halfway between target and current price. %s.", signal),
	}
	return aggressive, moderate, conservative
}

func discountPercent(currentPrice, tierPrice float64) float64 {
	if currentPrice == 0 {
		return 0
	}
	return (currentPrice - tierPrice) / currentPrice * 100
}

// confidence derives a [0.3, 0.9] score from historical volatility: the
// mean absolute day-over-day return, scaled and inverted. Fewer than two
// points yields a fixed neutral confidence.
func confidence(closes []float64) float64 {
	if len(closes) < 2 {
		return confidenceNeutral
	}

	var total float64
	var count int
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		r := (closes[i] - closes[i-1]) / closes[i-1]
		if r < 0 {
			r = -r
		}
		total += r
		count++
	}
	if count == 0 {
		return confidenceNeutral
	}

	volatility := total / float64(count)
	c := 1.0 - volatility*volatilityMultiplier
	if c < confidenceFloor {
		return confidenceFloor
	}
	if c > confidenceCeiling {
		return confidenceCeiling
	}
	return c
}

// movingAverage computes the simple moving average over the last period
// closes. Series shorter than the period degrade to the mean of all
// available points rather than failing.
func movingAverage(closes []float64, period int) float64 {
	if len(closes) < period {
		return mean(closes)
	}
	return mean(closes[len(closes)-period:])
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func closePrices(candles []models.Candle) []float64 {
	prices := make([]float64, len(candles))
	for i, c := range candles {
		prices[i] = c.Close
	}
	return prices
}

func degradedRecommendation(ticker string, strategy models.Strategy) models.BuyRecommendation {
	const rationale = "Insufficient price history to derive a target."
	zeroTier := models.PriceTier{Rationale: rationale}
	return models.BuyRecommendation{
		Ticker:       ticker,
		Strategy:     strategy,
		Aggressive:   zeroTier,
		Moderate:     zeroTier,
		Conservative: zeroTier,
		Confidence:   0,
		GeneratedAt:  time.Now(),
	}
}
