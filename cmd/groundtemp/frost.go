package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/frost-depth-toolkit/internal/chart"
	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
	"github.com/couchcryptid/frost-depth-toolkit/internal/tabular"
)

type frostOptions struct {
	skipRows  int
	start     string
	pipeDepth float64
	outDir    string
	plots     bool
	html      bool
}

func newFrostCmd(a *app) *cobra.Command {
	opts := frostOptions{}

	cmd := &cobra.Command{
		Use:   "frost FILE...",
		Short: "Frost depth analysis of simulation results",
		Long: `Read temperature-versus-depth exports of the heat simulation, find the
frost front of every time step, and report statistics and the days on which
frost reaches deeper than the water pipe.

Exports are semicolon separated with decimal commas. By default the first
two rows are skipped and columns are numbered days; --skip-rows 0 reads the
first row as time labels ("12 days", "2,5 yrs").`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrost(cmd, a, opts, args)
		},
	}

	cmd.Flags().IntVar(&opts.skipRows, "skip-rows", 2, "leading rows to skip; 0 reads a header row")
	cmd.Flags().StringVar(&opts.start, "start", domain.DefaultSimulationStart.Format("2006-01-02"), "simulation start date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&opts.pipeDepth, "pipe-depth", 0.47, "depth of the top of the water pipe in meters")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "frost_analysis", "directory for plots")
	cmd.Flags().BoolVar(&opts.plots, "plots", true, "write PNG plots")
	cmd.Flags().BoolVar(&opts.html, "html", false, "also write an interactive HTML chart")
	return cmd
}

func runFrost(cmd *cobra.Command, a *app, opts frostOptions, paths []string) error {
	if opts.skipRows < 0 {
		return fmt.Errorf("invalid --skip-rows %d", opts.skipRows)
	}
	start, err := parseStart(opts.start)
	if err != nil {
		return err
	}
	readOpts := tabular.ProfileOptions{SkipRows: opts.skipRows, Start: start}

	series := make([]chart.FrostSeries, 0, len(paths))
	for _, path := range paths {
		profile, enc, err := tabular.ReadProfileFile(path, readOpts)
		if err != nil {
			return err
		}
		a.logger.Info("profile read",
			"file", path,
			"encoding", enc,
			"depths", len(profile.Depths),
			"columns", len(profile.Columns),
		)

		points, err := domain.ExtractFrostPoints(profile)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		series = append(series, chart.FrostSeries{Name: profile.Name, Points: points})
	}

	out := cmd.OutOrStdout()
	for _, s := range series {
		printFrostStats(out, s)
	}
	printCriticalDays(out, series, opts.pipeDepth)

	if opts.plots || opts.html {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return fmt.Errorf("create plot dir: %w", err)
		}
	}
	if opts.plots {
		if err := frostPlots(a, opts, series); err != nil {
			return err
		}
	}
	if opts.html {
		path := filepath.Join(opts.outDir, "frost_depth.html")
		if err := writeHTML(path, series, opts.pipeDepth); err != nil {
			return err
		}
		a.logger.Info("frost chart written", "file", path)
	}
	return nil
}

func printFrostStats(w io.Writer, s chart.FrostSeries) {
	stats := domain.ComputeFrostStats(s.Points)

	fmt.Fprintf(w, "\n%s\n", s.Name)
	if stats.Count == 0 {
		fmt.Fprintln(w, "No frost penetration detected in the data.")
		return
	}
	fmt.Fprintln(w, "Frost Penetration Statistics:")
	fmt.Fprintf(w, "Maximum frost depth: %.2f m\n", stats.Max)
	fmt.Fprintf(w, "Average frost depth: %.2f m\n", stats.Mean)
	fmt.Fprintf(w, "Number of days with frost penetration: %d\n", stats.Count)

	if len(stats.YearlyMax) > 1 {
		fmt.Fprintln(w, "Yearly Maximum Frost Depths:")
		for _, y := range stats.YearlyMax {
			fmt.Fprintf(w, "  %d: %.2f m\n", y.Year, y.Depth)
		}
	}
}

func printCriticalDays(w io.Writer, series []chart.FrostSeries, pipeDepth float64) {
	fmt.Fprintf(w, "\nDays when frost depth exceeds water pipe depth (%gm):\n", pipeDepth)
	for _, s := range series {
		days := domain.CriticalDays(s.Points, pipeDepth)
		if len(days) == 0 {
			fmt.Fprintf(w, "%s: No days with frost depth exceeding water pipe depth\n", s.Name)
			continue
		}
		labels := make([]string, len(days))
		for i, d := range days {
			labels[i] = fmt.Sprint(d)
		}
		fmt.Fprintf(w, "%s: Days %s (total: %d days)\n", s.Name, strings.Join(labels, ", "), len(days))
	}
}

func frostPlots(a *app, opts frostOptions, series []chart.FrostSeries) error {
	for _, s := range series {
		for _, pl := range []struct {
			suffix string
			draw   func(chart.FrostSeries, string) error
		}{
			{"_frost_penetration_depth.png", chart.FrostDepth},
			{"_seasonal_frost_patterns.png", chart.SeasonalFrost},
		} {
			path := filepath.Join(opts.outDir, s.Name+pl.suffix)
			err := pl.draw(s, path)
			if errors.Is(err, chart.ErrNoData) {
				a.logger.Warn("no frost to plot", "profile", s.Name, "file", path)
				continue
			}
			if err != nil {
				return fmt.Errorf("plot %s: %w", path, err)
			}
			a.logger.Info("frost plot written", "file", path)
		}
	}

	path := filepath.Join(opts.outDir, "frost_depth_profiles.png")
	if err := chart.FrostProfiles(series, opts.pipeDepth, path); err != nil {
		return fmt.Errorf("plot %s: %w", path, err)
	}
	a.logger.Info("frost profiles written", "file", path, "profiles", len(series))
	return nil
}

func writeHTML(path string, series []chart.FrostSeries, pipeDepth float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := chart.FrostDepthHTML(f, series, pipeDepth); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
