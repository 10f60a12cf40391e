package chart

import (
	"fmt"
	"image/color"
	"slices"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/frost-depth-toolkit/internal/geometry"
)

var (
	outlineColor = color.RGBA{B: 0xcc, A: 0xff}
	pointColor   = color.RGBA{R: 0xdd, A: 0xff}
)

// Section draws a cross-section: its outlines, every point, and a "P<n>"
// label next to each point that is not hidden.
func Section(s geometry.Section, path string) error {
	if len(s.Points) == 0 {
		return ErrNoData
	}
	p := newPlot(fmt.Sprintf("%s cross-section", s.Name), "Width (m)", "Height (m)")

	for _, outline := range s.Outlines {
		xys := make(plotter.XYs, 0, len(outline))
		for _, label := range outline {
			pt, ok := s.Point(label)
			if !ok {
				return fmt.Errorf("outline references unknown point %d", label)
			}
			xys = append(xys, plotter.XY{X: pt.X, Y: pt.Y})
		}
		if err := addLine(p, xys, outlineColor, vg.Points(1.5), ""); err != nil {
			return err
		}
	}

	all := make(plotter.XYs, len(s.Points))
	labelled := plotter.XYLabels{}
	for i, pt := range s.Points {
		all[i] = plotter.XY{X: pt.X, Y: pt.Y}
		if slices.Contains(s.Hidden, pt.Label) {
			continue
		}
		labelled.XYs = append(labelled.XYs, plotter.XY{X: pt.X, Y: pt.Y})
		labelled.Labels = append(labelled.Labels, fmt.Sprintf("P%d", pt.Label))
	}
	if err := addScatter(p, all, pointColor, ""); err != nil {
		return err
	}

	labels, err := plotter.NewLabels(labelled)
	if err != nil {
		return fmt.Errorf("build point labels: %w", err)
	}
	labels.Offset = vg.Point{X: vg.Points(5), Y: vg.Points(5)}
	p.Add(labels)

	return save(p, defaultWidth, 8*vg.Inch, path)
}
