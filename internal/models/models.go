// Package models provides domain models for the investment tracker core.
package models

import (
	"time"
)

// Candle represents OHLCV data for a time period.
// Series are ordered ascending by timestamp.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Quote represents the latest traded price for a symbol.
type Quote struct {
	Symbol        string
	Current       float64
	Open          float64
	High          float64
	Low           float64
	PrevClose     float64
	Change        float64
	ChangePercent float64
	Timestamp     time.Time
}

// Strategy represents the investment horizon for a buy recommendation.
type Strategy string

const (
	StrategyShortTerm Strategy = "short_term"
	StrategyLongTerm  Strategy = "long_term"
)

// ParseStrategy converts a user-supplied string into a Strategy.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(s) {
	case StrategyShortTerm, StrategyLongTerm:
		return Strategy(s), true
	}
	return "", false
}
