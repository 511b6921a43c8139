package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"stockpulse/internal/errors"
	"stockpulse/internal/models"
)

func newAlertCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Manage price alerts",
	}

	cmd.AddCommand(newAlertAddCmd(app))
	cmd.AddCommand(newAlertListCmd(app))
	cmd.AddCommand(newAlertDeleteCmd(app))
	cmd.AddCommand(newAlertResetCmd(app))

	return cmd
}

func newAlertAddCmd(app *App) *cobra.Command {
	var direction string
	var name string

	cmd := &cobra.Command{
		Use:   "add TICKER TARGET_PRICE",
		Short: "Create a one-shot price alert",
		Example: `  stockpulse alert add AAPL 200 --direction above
  stockpulse alert add TSLA 150 --direction below --name "Tesla"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("alert store not available")
			}

			ticker := args[0]
			targetPrice, err := strconv.ParseFloat(args[1], 64)
			if err != nil || targetPrice <= 0 {
				return errors.NewValidationError("target_price", args[1], "must be a positive number")
			}

			dir, ok := models.ParseDirection(direction)
			if !ok {
				return errors.NewValidationError("direction", direction, "must be 'above' or 'below'")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			// Reference price is informational; alert creation survives a
			// quote outage.
			var referencePrice float64
			if q, err := app.Quotes.GetQuote(ctx, ticker); err == nil {
				referencePrice = q.Current
			} else {
				app.Logger.Warn().Err(err).Msg("Could not fetch reference price")
			}

			if name == "" {
				name = ticker
			}

			alert := &models.PriceAlert{
				Ticker:         ticker,
				DisplayName:    name,
				TargetPrice:    targetPrice,
				ReferencePrice: referencePrice,
				Direction:      dir,
				CreatedAt:      time.Now(),
			}

			id, err := app.Store.SaveAlert(ctx, alert)
			if err != nil {
				return err
			}

			fmt.Printf("Alert %d created: %s %s $%.2f\n", id, ticker, dir, targetPrice)
			return nil
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "above", "Trigger direction: above or below")
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to ticker)")

	return cmd
}

func newAlertListCmd(app *App) *cobra.Command {
	var showTriggered bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List price alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("alert store not available")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			var alerts []models.PriceAlert
			var err error
			if showTriggered {
				alerts, err = app.Store.GetTriggeredAlerts(ctx)
			} else {
				alerts, err = app.Store.GetActiveAlerts(ctx)
			}
			if err != nil {
				return err
			}

			if len(alerts) == 0 {
				fmt.Println("No alerts")
				return nil
			}

			for _, a := range alerts {
				status := "active"
				if a.Triggered && a.TriggeredAt != nil {
					status = "triggered " + a.TriggeredAt.Format("02-Jan-2006 15:04")
				}
				fmt.Printf("%4d  %-8s %-6s $%10.2f  ref $%.2f  [%s]\n",
					a.ID, a.Ticker, a.Direction, a.TargetPrice, a.ReferencePrice, status)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTriggered, "triggered", false, "Show triggered alerts instead of active ones")

	return cmd
}

func newAlertDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a price alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("alert store not available")
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.NewValidationError("id", args[0], "must be an integer")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			if err := app.Store.DeleteAlert(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Alert %d deleted\n", id)
			return nil
		},
	}
}

func newAlertResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset ID",
		Short: "Re-arm a triggered alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("alert store not available")
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.NewValidationError("id", args[0], "must be an integer")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			if err := app.Store.ResetAlert(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Alert %d re-armed\n", id)
			return nil
		},
	}
}
