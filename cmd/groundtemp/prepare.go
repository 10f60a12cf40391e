package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/frost-depth-toolkit/internal/chart"
	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
	"github.com/couchcryptid/frost-depth-toolkit/internal/tabular"
)

func newMergeCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "merge FILE...",
		Short: "Merge yearly temperature exports",
		Long: `Concatenate comma separated exports with a "date" column, sort by date,
drop duplicate rows, and renumber the dates from 1. The result is written
with ";" separators and decimal commas. Missing files are skipped with a
warning.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var buf bytes.Buffer
			res, err := tabular.Merge(args, &buf, a.logger)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merge complete! %d rows from %d files written to %s\n",
				res.Rows, len(res.Merged), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "Øygarden_temperature_2015_2025.csv", "output file")
	return cmd
}

func newProcessCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "process FILE",
		Short: "Convert a seklima export to a numbered daily series",
		Long: `Read a semicolon separated seklima.met.no export and write
"date;temperature" rows numbered from 1, skipping notes, blank rows, and the
"Data er gyldig" footer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read export: %w", err)
			}
			text, enc, err := tabular.DecodeText(data)
			if err != nil {
				return fmt.Errorf("read export %s: %w", args[0], err)
			}
			a.logger.Debug("export decoded", "file", args[0], "encoding", enc)

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			days, err := tabular.ProcessSeklima(strings.NewReader(text), f)
			if err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Processing complete. Created %s with %d days of temperature data.\n", out, days)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "flesland_daily_average_temperature_from_1995.csv", "output file")
	return cmd
}

func newTemperatureCmd(a *app) *cobra.Command {
	var out, title, start string

	cmd := &cobra.Command{
		Use:   "temperature FILE",
		Short: "Plot a daily temperature series with trend",
		Long: `Plot a "date;temperature" series (day numbers from --start, decimal
commas) with a 365-day trend and yearly averages.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			origin, err := parseStart(start)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read series: %w", err)
			}
			text, _, err := tabular.DecodeText(data)
			if err != nil {
				return fmt.Errorf("read series %s: %w", args[0], err)
			}
			series, err := tabular.ReadDailySeries(strings.NewReader(text), origin)
			if err != nil {
				return fmt.Errorf("read series %s: %w", args[0], err)
			}

			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create plot dir: %w", err)
				}
			}
			if err := chart.Temperature(title, series, out); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Yearly average temperatures:")
			for _, y := range chart.YearlyAverages(series) {
				fmt.Fprintf(w, "  %d: %.2f °C\n", y.Year, y.Mean)
			}
			a.logger.Info("temperature plot written", "file", out, "days", len(series))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "temperatur_plot_flesland.png", "output PNG")
	cmd.Flags().StringVar(&title, "title", "Temperaturvariasjon i Flesland (1995-2024)", "plot title")
	cmd.Flags().StringVar(&start, "start", domain.DefaultSimulationStart.Format("2006-01-02"), "date of day 1 (YYYY-MM-DD)")
	return cmd
}

func parseStart(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --start %q: %w", s, err)
	}
	return t, nil
}
