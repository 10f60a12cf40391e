package chart

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
	"github.com/couchcryptid/frost-depth-toolkit/internal/smoothing"
)

// minTrendPoints is the smallest series that gets a Savitzky–Golay trend line.
const minTrendPoints = 11

// FrostSeries is the frost front of one simulated profile over time.
type FrostSeries struct {
	Name   string
	Points []domain.FrostPoint
}

// FrostDepth plots the frost front over time for the frozen columns of s,
// with a smoothed trend when the series is long enough.
func FrostDepth(s FrostSeries, path string) error {
	frozen := domain.FrozenPoints(s.Points)
	if len(frozen) == 0 {
		return ErrNoData
	}
	stats := domain.ComputeFrostStats(frozen)

	p := newPlot("Frost Penetration Depth over Time", "Date", "Depth (m)")
	p.Title.Text += fmt.Sprintf("\nmax %.2f m, mean %.2f m", stats.Max, stats.Mean)
	invertY(p)
	timeAxis(p, "2006-01")

	xys := make(plotter.XYs, len(frozen))
	depths := make([]float64, len(frozen))
	for i, fp := range frozen {
		xys[i] = plotter.XY{X: unix(fp.Label.Date), Y: fp.Depth}
		depths[i] = fp.Depth
	}
	if err := addScatter(p, xys, dataColor, "Frost depth"); err != nil {
		return err
	}

	if len(frozen) >= minTrendPoints {
		if trend, err := smoothing.SavitzkyGolay(depths, smoothing.TrendWindow(len(depths)), 3); err == nil {
			line := make(plotter.XYs, len(trend))
			for i := range trend {
				line[i] = plotter.XY{X: xys[i].X, Y: trend[i]}
			}
			if err := addLine(p, line, trendColor, vg.Points(2), "Trend"); err != nil {
				return err
			}
		}
	}
	legendTopRight(p)

	return save(p, defaultWidth, 8*vg.Inch, path)
}

var (
	monthStarts = []float64{1, 32, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335}
	monthNames  = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// SeasonalFrost plots frost depth against day of year, one colour per year.
func SeasonalFrost(s FrostSeries, path string) error {
	frozen := domain.FrozenPoints(s.Points)
	if len(frozen) == 0 {
		return ErrNoData
	}

	byYear := make(map[int]plotter.XYs)
	for _, fp := range frozen {
		y := fp.Label.Date.Year()
		byYear[y] = append(byYear[y], plotter.XY{X: float64(fp.Label.Date.YearDay()), Y: fp.Depth})
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	p := newPlot("Seasonal Frost Penetration Patterns by Year", "Day of Year", "Depth (m)")
	invertY(p)
	ticks := make([]plot.Tick, len(monthStarts))
	for i, d := range monthStarts {
		ticks[i] = plot.Tick{Value: d, Label: monthNames[i]}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Min, p.X.Max = 1, 366

	for i, y := range years {
		if err := addScatter(p, byYear[y], palette(i), fmt.Sprint(y)); err != nil {
			return err
		}
	}
	legendTopRight(p)

	return save(p, defaultWidth, 8*vg.Inch, path)
}

// FrostProfiles stacks one panel per profile showing frost depth by column
// (day) with the pipe depth as a dashed reference line. Unfrozen columns
// leave gaps in the line.
func FrostProfiles(series []FrostSeries, pipeDepth float64, path string) error {
	if len(series) == 0 {
		return ErrNoData
	}

	maxDepth := pipeDepth
	for _, s := range series {
		for _, fp := range s.Points {
			if fp.Frozen {
				maxDepth = math.Max(maxDepth, fp.Depth)
			}
		}
	}

	plots := make([][]*plot.Plot, len(series))
	for i, s := range series {
		xLabel := ""
		if i == len(series)-1 {
			xLabel = "Day"
		}
		p := newPlot(s.Name, xLabel, "Frost depth (m)")
		invertY(p)
		p.Y.Min, p.Y.Max = 0, math.Max(1, maxDepth)

		for _, run := range frozenRuns(s.Points) {
			if err := addLine(p, run, dataColor, vg.Points(2), ""); err != nil {
				return err
			}
		}
		addHLine(p, pipeDepth, pipeColor, "Water pipe")
		legendTopRight(p)
		plots[i] = []*plot.Plot{p}
	}

	img := vgimg.New(defaultWidth, vg.Length(len(series))*3*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: len(series), Cols: 1, PadY: vg.Points(12)}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// frozenRuns splits the series into consecutive frozen stretches, x being
// the 0-based column position.
func frozenRuns(points []domain.FrostPoint) []plotter.XYs {
	var (
		runs []plotter.XYs
		cur  plotter.XYs
	)
	for i, fp := range points {
		if !fp.Frozen {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(i), Y: fp.Depth})
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}
