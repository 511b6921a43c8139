package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"stockpulse/internal/models"
)

// Property: For any valid alert, saving and retrieving it preserves the
// fields that drive trigger evaluation, and the first MarkTriggered is the
// only call that reports a transition.
func TestProperty_AlertRoundTripAndOneShotTransition(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "alerts_property.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	tickers := []string{"AAPL", "TSLA", "SPY", "QQQ", "MSFT", "AMZN", "GOOG", "NVDA"}

	properties.Property("alert round-trip preserves trigger fields", prop.ForAll(
		func(tickerIdx int, target float64, above bool) bool {
			ctx := context.Background()

			direction := models.DirectionBelow
			if above {
				direction = models.DirectionAbove
			}
			alert := &models.PriceAlert{
				Ticker:      tickers[tickerIdx%len(tickers)],
				DisplayName: "roundtrip",
				TargetPrice: target,
				Direction:   direction,
				CreatedAt:   time.Now().UTC(),
			}

			id, err := store.SaveAlert(ctx, alert)
			if err != nil {
				t.Logf("SaveAlert: %v", err)
				return false
			}

			got, err := store.GetAlert(ctx, id)
			if err != nil {
				t.Logf("GetAlert: %v", err)
				return false
			}
			return got.Ticker == alert.Ticker &&
				got.TargetPrice == alert.TargetPrice &&
				got.Direction == alert.Direction &&
				!got.Triggered
		},
		gen.IntRange(0, len(tickers)-1),
		gen.Float64Range(0.01, 100000.0),
		gen.Bool(),
	))

	properties.Property("only the first MarkTriggered transitions", prop.ForAll(
		func(target float64, repeats int) bool {
			ctx := context.Background()

			id, err := store.SaveAlert(ctx, &models.PriceAlert{
				Ticker:      "ONESHOT",
				DisplayName: "oneshot",
				TargetPrice: target,
				Direction:   models.DirectionAbove,
				CreatedAt:   time.Now().UTC(),
			})
			if err != nil {
				t.Logf("SaveAlert: %v", err)
				return false
			}

			transitions := 0
			for i := 0; i < repeats; i++ {
				transitioned, err := store.MarkTriggered(ctx, id, time.Now().UTC())
				if err != nil {
					t.Logf("MarkTriggered: %v", err)
					return false
				}
				if transitioned {
					transitions++
				}
			}
			return transitions == 1
		},
		gen.Float64Range(0.01, 100000.0),
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t)
}
