package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/frost-depth-toolkit/internal/chart"
	"github.com/couchcryptid/frost-depth-toolkit/internal/geometry"
)

// dimensionsFile is the --dimensions JSON layout. Each section overlays its
// defaults; omitted sections and keys keep the reference values.
type dimensionsFile struct {
	Channel *geometry.ChannelDimensions `json:"channel"`
	Trench  *geometry.TrenchDimensions  `json:"trench"`
}

func newCoordsCmd(a *app) *cobra.Command {
	var dimensionsPath, xlsxPath, plotDir string

	cmd := &cobra.Command{
		Use:   "coords channel|trench...",
		Short: "Print cross-section coordinates",
		Long: `Compute the numbered points of the simulation cross-sections.

  channel  - concrete channel below a road (22 points)
  trench   - insulated pipe trench (18 points)

Dimensions default to the reference model and can be overridden with a JSON
file such as {"channel": {"channel_width": 1.0}, "trench": {"top_width": 2.5}}.`,
		Args:      cobra.MatchAll(cobra.MinimumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"channel", "trench"},
		RunE: func(cmd *cobra.Command, args []string) error {
			channel := geometry.DefaultChannelDimensions()
			trench := geometry.DefaultTrenchDimensions()
			if dimensionsPath != "" {
				dims := dimensionsFile{Channel: &channel, Trench: &trench}
				if err := geometry.LoadDimensions(dimensionsPath, &dims); err != nil {
					return err
				}
			}

			sections := make([]geometry.Section, 0, len(args))
			for _, kind := range args {
				var (
					s   geometry.Section
					err error
				)
				switch kind {
				case "channel":
					s, err = geometry.Channel(channel)
				case "trench":
					s, err = geometry.Trench(trench)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", kind, err)
				}
				sections = append(sections, s)
			}

			out := cmd.OutOrStdout()
			for i, s := range sections {
				if len(sections) > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "%s:\n", s.Name)
				}
				if err := s.WriteTable(out); err != nil {
					return err
				}
			}

			if xlsxPath != "" {
				if err := writeWorkbook(xlsxPath, sections); err != nil {
					return err
				}
				a.logger.Info("coordinates workbook written", "file", xlsxPath)
			}

			if plotDir != "" {
				if err := os.MkdirAll(plotDir, 0o755); err != nil {
					return fmt.Errorf("create plot dir: %w", err)
				}
				for _, s := range sections {
					path := filepath.Join(plotDir, s.Name+"_section.png")
					if err := chart.Section(s, path); err != nil {
						return fmt.Errorf("plot %s: %w", s.Name, err)
					}
					a.logger.Info("section plot written", "file", path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dimensionsPath, "dimensions", "", "JSON file overriding default dimensions")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the coordinates to this Excel workbook")
	cmd.Flags().StringVar(&plotDir, "plot-dir", "", "directory for section outline plots")
	return cmd
}

func writeWorkbook(path string, sections []geometry.Section) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := geometry.WriteWorkbook(f, sections...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
