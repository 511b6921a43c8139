package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newMonitorCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run the price-alert monitor",
	}

	cmd.AddCommand(newMonitorRunCmd(app))
	cmd.AddCommand(newMonitorStartCmd(app))

	return cmd
}

func newMonitorRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute a single monitor cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("alert store not available")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			result, err := app.newMonitor().RunCycle(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Cycle complete: evaluated=%d triggered=%d fetch_failed=%d\n",
				result.Evaluated, result.Triggered, result.FetchFailed)
			return nil
		},
	}
}

func newMonitorStartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the monitor on its schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("alert store not available")
			}

			scheduler := app.newScheduler()
			if err := scheduler.Start(); err != nil {
				return err
			}

			fmt.Printf("Monitoring every %s (Ctrl+C to stop)\n", app.Config.Monitor.Interval())

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			scheduler.Stop()
			return nil
		},
	}
}
