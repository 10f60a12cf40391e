// Package chart renders the PNG plots and HTML charts produced by the CLI.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("nothing to plot")

const (
	defaultWidth  = 12 * vg.Inch
	defaultHeight = 7 * vg.Inch
)

var (
	trendColor = color.RGBA{R: 0xff, G: 0x57, B: 0x33, A: 0xff}
	pipeColor  = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	dataColor  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	yearColor  = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
)

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

// invertY draws depth downward.
func invertY(p *plot.Plot) {
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
}

func timeAxis(p *plot.Plot, format string) {
	p.X.Tick.Marker = plot.TimeTicks{Format: format}
}

func unix(t time.Time) float64 {
	return float64(t.Unix())
}

// finite drops points that plotter would reject.
func finite(xys plotter.XYs) plotter.XYs {
	out := make(plotter.XYs, 0, len(xys))
	for _, xy := range xys {
		if math.IsNaN(xy.X) || math.IsNaN(xy.Y) || math.IsInf(xy.X, 0) || math.IsInf(xy.Y, 0) {
			continue
		}
		out = append(out, xy)
	}
	return out
}

func addLine(p *plot.Plot, xys plotter.XYs, c color.Color, width vg.Length, legend string) error {
	xys = finite(xys)
	if len(xys) == 0 {
		return nil
	}
	l, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("build line %q: %w", legend, err)
	}
	l.Color = c
	l.Width = width
	p.Add(l)
	if legend != "" {
		p.Legend.Add(legend, l)
	}
	return nil
}

func addScatter(p *plot.Plot, xys plotter.XYs, c color.Color, legend string) error {
	xys = finite(xys)
	if len(xys) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("build scatter %q: %w", legend, err)
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = vg.Points(2.5)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(s)
	if legend != "" {
		p.Legend.Add(legend, s)
	}
	return nil
}

// addHLine draws a dashed horizontal reference line across the data range.
func addHLine(p *plot.Plot, y float64, c color.Color, legend string) {
	f := plotter.NewFunction(func(float64) float64 { return y })
	f.Color = c
	f.Width = vg.Points(1.5)
	f.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	p.Add(f)
	if legend != "" {
		p.Legend.Add(legend, f)
	}
}

func legendTopRight(p *plot.Plot) {
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
}

func palette(i int) color.Color {
	return plotutil.Color(i)
}

func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}
