package models

import "time"

// PriceTier represents one buy-price level within a recommendation.
type PriceTier struct {
	Price           float64
	DiscountPercent float64 // discount relative to the current price
	Rationale       string
}

// PricePrediction represents a single projected price point with
// symmetric bounds. Illustrative output, not a forecast guarantee.
type PricePrediction struct {
	Date       time.Time
	Price      float64
	UpperBound float64
	LowerBound float64
}

// BuyRecommendation represents a tiered set of target buy prices derived
// from a price-history series. Purely derived, never persisted.
type BuyRecommendation struct {
	Ticker       string
	Strategy     Strategy
	CurrentPrice float64

	Aggressive   PriceTier
	Moderate     PriceTier
	Conservative PriceTier

	// Confidence lies in [0.3, 0.9] for any non-empty history and is
	// exactly 0 for the degraded empty-history result.
	Confidence  float64
	GeneratedAt time.Time

	Projections []PricePrediction
}

// Degraded reports whether the recommendation is the degraded
// empty-history result.
func (r *BuyRecommendation) Degraded() bool {
	return r.Confidence == 0 && r.Moderate.Price == 0
}
