// Command groundtemp bundles the one-shot tools of the frost depth toolkit:
// cross-section coordinates, forecast collection, station history, CSV
// preparation, and frost analysis of ground temperature simulations.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/frost-depth-toolkit/internal/config"
	"github.com/couchcryptid/frost-depth-toolkit/internal/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "groundtemp:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return newRootCmd(os.Stderr).ExecuteContext(ctx)
}

// app carries what every subcommand needs once flags and environment are read.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	a := &app{}
	var logLevel, logFormat string

	root := &cobra.Command{
		Use:   "groundtemp",
		Short: "Ground temperature and frost depth tools",
		Long: `Tools for studying frost penetration around buried water pipes.

Subcommands:
  coords       - Cross-section coordinates for the heat simulation model
  forecast     - Download and archive the yr.no hourly forecast
  history      - Daily mean temperatures from frost.met.no
  merge        - Merge yearly temperature exports
  process      - Convert a seklima export to a numbered daily series
  frost        - Frost depth analysis of simulation results
  temperature  - Plot a daily temperature series with trend

Logging and service settings are read from the environment and an optional
.env file; see LOG_LEVEL, LOG_FORMAT, FORECAST_*, and FROST_*.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("log-format") || os.Getenv("LOG_FORMAT") == "" {
				cfg.LogFormat = logFormat
			}
			a.cfg = cfg
			a.logger = observability.NewLogger(logOut, cfg.LogLevel, cfg.LogFormat)
			a.metrics = observability.NewMetricsWith(prometheus.NewRegistry())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: json or text")

	root.AddCommand(
		newCoordsCmd(a),
		newForecastCmd(a),
		newHistoryCmd(a),
		newMergeCmd(a),
		newProcessCmd(a),
		newFrostCmd(a),
		newTemperatureCmd(a),
	)
	return root
}
