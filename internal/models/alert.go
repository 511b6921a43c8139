package models

import "time"

// AlertDirection represents which way the price must move to trigger an alert.
type AlertDirection string

const (
	// DirectionAbove triggers when price rises to or above the target.
	DirectionAbove AlertDirection = "above"
	// DirectionBelow triggers when price falls to or below the target.
	DirectionBelow AlertDirection = "below"
)

// ParseDirection converts a user-supplied string into an AlertDirection.
func ParseDirection(s string) (AlertDirection, bool) {
	switch AlertDirection(s) {
	case DirectionAbove, DirectionBelow:
		return AlertDirection(s), true
	}
	return "", false
}

// PriceAlert represents a user-defined one-shot price alert.
//
// TriggeredAt is non-nil iff Triggered is true. Once triggered, the alert
// is never re-evaluated by the monitor until the user resets or deletes it.
type PriceAlert struct {
	ID             int64
	Ticker         string
	DisplayName    string
	TargetPrice    float64
	ReferencePrice float64 // price at creation time, informational only
	Direction      AlertDirection
	Triggered      bool
	CreatedAt      time.Time
	TriggeredAt    *time.Time
}

// ShouldTrigger reports whether the given current price satisfies the
// alert condition. Comparisons are non-strict: equality triggers.
func (a *PriceAlert) ShouldTrigger(currentPrice float64) bool {
	if a.Direction == DirectionAbove {
		return currentPrice >= a.TargetPrice
	}
	return currentPrice <= a.TargetPrice
}
