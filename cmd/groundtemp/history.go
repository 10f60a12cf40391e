package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/couchcryptid/frost-depth-toolkit/internal/adapter/frostapi"
	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
	"github.com/couchcryptid/frost-depth-toolkit/internal/tabular"
)

func newHistoryCmd(a *app) *cobra.Command {
	var municipality, elements, start, end, outDir, baseURL string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Daily mean temperatures from frost.met.no",
		Long: `Find the first frost.met.no station in a municipality, fetch its
observations for a date range, and write the daily means (UTC dates, one
decimal) to <Place>_temperature_<start>_to_<end>.csv.

Requires FROST_CLIENT_ID.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.FrostClientID == "" {
				return errors.New("FROST_CLIENT_ID is required")
			}
			from, err := time.Parse(time.DateOnly, start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			to, err := time.Parse(time.DateOnly, end)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			if to.Before(from) {
				return fmt.Errorf("--end %s is before --start %s", end, start)
			}

			client := frostapi.NewClient(a.cfg.FrostClientID, a.cfg.ForecastTimeout, a.logger, a.metrics)
			if baseURL != "" {
				client.WithBaseURL(baseURL)
			}
			finder := frostapi.NewCachedSourceFinder(client, a.cfg.FrostCacheSize, a.metrics)

			src, err := finder.FindSource(cmd.Context(), municipality)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found source ID: %s\n", src.ID)

			obs, err := client.Observations(cmd.Context(), src.ID, elements, from, to)
			if err != nil {
				return err
			}
			means := domain.DailyMeans(obs)

			place := cases.Title(language.Norwegian).String(municipality)
			path := filepath.Join(outDir, fmt.Sprintf("%s_temperature_%s_to_%s.csv", place, start, end))
			if err := writeDailyMeans(path, means); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d daily means saved to %s\n", len(means), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&municipality, "municipality", "ØYGARDEN", "municipality of the station")
	cmd.Flags().StringVar(&elements, "elements", "air_temperature", "frost.met.no element ids")
	cmd.Flags().StringVar(&start, "start", "2014-01-01", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "2014-12-31", "last date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "output directory")
	cmd.Flags().StringVar(&baseURL, "base-url", frostapi.DefaultBaseURL, "frost.met.no API root")
	return cmd
}

func writeDailyMeans(path string, means []domain.DailyMean) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := tabular.WriteDailyMeans(f, means); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
