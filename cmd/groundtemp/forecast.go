package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/frost-depth-toolkit/internal/adapter/csvstore"
	kafkaadapter "github.com/couchcryptid/frost-depth-toolkit/internal/adapter/kafka"
	"github.com/couchcryptid/frost-depth-toolkit/internal/adapter/yr"
	"github.com/couchcryptid/frost-depth-toolkit/internal/chart"
	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
	"github.com/couchcryptid/frost-depth-toolkit/internal/pipeline"
)

func newForecastCmd(a *app) *cobra.Command {
	var url, dir, name string
	var plots, publish bool

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Download and archive the yr.no hourly forecast",
		Long: `Download the hourly forecast once, keep a snapshot of the document,
append its periods to <name>_Hourly_Data.csv and rebuild
<name>_Hourly_Data_Clean.csv with the latest forecast of every period.

Defaults come from FORECAST_URL, FORECAST_DIR, and FORECAST_NAME. With
--publish the periods are also sent to FORECAST_KAFKA_TOPIC.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if url == "" {
				url = a.cfg.ForecastURL
			}
			if dir == "" {
				dir = a.cfg.ForecastDir
			}
			if name == "" {
				name = a.cfg.ForecastName
			}

			store := csvstore.New(dir, name, a.logger)
			loaders := []pipeline.Loader{store}
			if publish {
				if !a.cfg.KafkaEnabled() {
					return fmt.Errorf("--publish needs FORECAST_KAFKA_BROKERS")
				}
				writer := kafkaadapter.NewWriter(a.cfg, a.logger)
				defer writer.Close()
				loaders = append(loaders, writer)
			}

			p := pipeline.New(
				yr.NewClient(url, name, a.cfg.ForecastTimeout, a.logger),
				pipeline.NewTransformer(a.logger),
				loaders,
				a.logger,
				a.metrics,
				a.cfg.ForecastInterval,
			)
			f, err := p.RunOnce(cmd.Context())
			if err != nil {
				return err
			}

			clean, err := store.Clean()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Forecast %s: %d periods downloaded, %d periods archived in %s\n",
				f.LastUpdate, len(f.Entries), len(clean), store.CleanPath())

			if plots {
				return forecastPlots(a, dir, f.UpdateStamp(), name, clean)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "forecast document URL (default FORECAST_URL)")
	cmd.Flags().StringVar(&dir, "dir", "", "archive directory (default FORECAST_DIR)")
	cmd.Flags().StringVar(&name, "name", "", "location name used in file names (default FORECAST_NAME)")
	cmd.Flags().BoolVar(&plots, "plots", false, "plot the archived forecast")
	cmd.Flags().BoolVar(&publish, "publish", false, "also publish periods to Kafka")
	return cmd
}

func forecastPlots(a *app, dir, stamp, name string, entries []domain.ForecastEntry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}
	title := fmt.Sprintf("%s, forecast %s", name, stamp)

	plots := []struct {
		file string
		draw func(path string) error
	}{
		{"Histogram_" + stamp + ".png", func(path string) error {
			return chart.PrecipitationHistogram(entries, path)
		}},
		{"Latest_Prcp_Forecast_" + stamp + ".png", func(path string) error {
			return chart.PrecipitationBars(entries, title, path)
		}},
		{"Latest_Temp_Forecast_" + stamp + ".png", func(path string) error {
			return chart.TemperatureBars(entries, title, path)
		}},
	}
	for _, pl := range plots {
		path := filepath.Join(dir, pl.file)
		if err := pl.draw(path); err != nil {
			return fmt.Errorf("plot %s: %w", pl.file, err)
		}
		a.logger.Info("forecast plot written", "file", path)
	}
	return nil
}
