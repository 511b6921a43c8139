package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stockpulse/internal/errors"
	"stockpulse/internal/logging"
	"stockpulse/internal/models"
)

func newRecommendCmd(app *App) *cobra.Command {
	var strategyFlag string
	var lookbackDays int
	var showProjection bool

	cmd := &cobra.Command{
		Use:   "recommend TICKER",
		Short: "Derive tiered buy-price recommendations from price history",
		Example: `  stockpulse recommend AAPL
  stockpulse recommend SPY --strategy short_term --projection`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticker := args[0]

			strategy, ok := models.ParseStrategy(strategyFlag)
			if !ok {
				return errors.NewValidationError("strategy", strategyFlag, "must be 'short_term' or 'long_term'")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			history, err := app.loadHistory(ctx, ticker, lookbackDays)
			if err != nil {
				return err
			}

			rec := app.Engine.Recommend(ticker, history, strategy)
			logging.LogRecommendation(app.Logger, ticker, string(strategy), rec.Moderate.Price, rec.Confidence)

			printRecommendation(&rec)
			if showProjection {
				printProjection(&rec)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyFlag, "strategy", string(models.StrategyLongTerm), "Strategy horizon: short_term or long_term")
	cmd.Flags().IntVar(&lookbackDays, "lookback", 365, "Days of price history to consider")
	cmd.Flags().BoolVar(&showProjection, "projection", false, "Show the illustrative 30-day forward projection")

	return cmd
}

// loadHistory serves candles from the local cache when possible and falls
// back to the quote API, caching what it fetched.
func (app *App) loadHistory(ctx context.Context, ticker string, lookbackDays int) ([]models.Candle, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -lookbackDays)

	if app.Store != nil {
		cached, err := app.Store.GetCandles(ctx, ticker, from, to)
		if err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	candles, err := app.Quotes.GetCandles(ctx, ticker, from, to)
	if err != nil {
		return nil, err
	}

	if app.Store != nil && len(candles) > 0 {
		if err := app.Store.SaveCandles(ctx, ticker, candles); err != nil {
			app.Logger.Warn().Err(err).Msg("Failed to cache price history")
		}
	}

	return candles, nil
}

func printRecommendation(rec *models.BuyRecommendation) {
	fmt.Printf("%s (%s)\n", rec.Ticker, rec.Strategy)

	if rec.Degraded() {
		fmt.Println("  Insufficient price history; no target derived.")
		return
	}

	fmt.Printf("  Current price: $%.2f\n", rec.CurrentPrice)
	fmt.Printf("  Confidence:    %.0f%%\n\n", rec.Confidence*100)

	printTier("Aggressive", rec.Aggressive)
	printTier("Moderate", rec.Moderate)
	printTier("Conservative", rec.Conservative)
}

func printTier(label string, tier models.PriceTier) {
	fmt.Printf("  %-13s $%10.2f  (-%.1f%%)\n", label, tier.Price, tier.DiscountPercent)
	fmt.Printf("                %s\n", tier.Rationale)
}

func printProjection(rec *models.BuyRecommendation) {
	if len(rec.Projections) == 0 {
		return
	}

	// Illustrative only; kept visually apart from the tiers above.
	fmt.Println("\n  30-day projection (illustrative, not a forecast):")
	for _, p := range rec.Projections {
		fmt.Printf("    %s  $%.2f  [%.2f - %.2f]\n",
			p.Date.Format("02-Jan"), p.Price, p.LowerBound, p.UpperBound)
	}
}
