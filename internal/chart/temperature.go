package chart

import (
	"math"
	"time"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/frost-depth-toolkit/internal/smoothing"
	"github.com/couchcryptid/frost-depth-toolkit/internal/tabular"
)

// TrendWindowDays is the smoothing window of the daily temperature trend.
const TrendWindowDays = 365

// YearAverage is the mean daily temperature of one calendar year.
type YearAverage struct {
	Year int
	Mean float64
}

// YearlyAverages averages the non-missing temperatures of each year.
func YearlyAverages(series []tabular.DailyTemperature) []YearAverage {
	var (
		out   []YearAverage
		sum   float64
		count int
	)
	flush := func(year int) {
		if count > 0 {
			out = append(out, YearAverage{Year: year, Mean: sum / float64(count)})
		}
		sum, count = 0, 0
	}
	for i, d := range series {
		if i > 0 && d.Date.Year() != series[i-1].Date.Year() {
			flush(series[i-1].Date.Year())
		}
		if !math.IsNaN(d.Temperature) {
			sum += d.Temperature
			count++
		}
	}
	if len(series) > 0 {
		flush(series[len(series)-1].Date.Year())
	}
	return out
}

// TemperatureTrend returns the smoothed trend of a daily series: a
// Savitzky–Golay filter over a year, or the centred yearly rolling mean when
// the series is shorter than the window.
func TemperatureTrend(series []tabular.DailyTemperature) []float64 {
	temps := make([]float64, len(series))
	for i, d := range series {
		temps[i] = d.Temperature
	}
	if trend, err := smoothing.SavitzkyGolay(temps, TrendWindowDays, 3); err == nil {
		return trend
	}
	return smoothing.RollingMean(temps, TrendWindowDays, true)
}

// Temperature plots the daily series with its trend and yearly averages.
func Temperature(title string, series []tabular.DailyTemperature, path string) error {
	if len(series) == 0 {
		return ErrNoData
	}

	p := newPlot(title, "Year", "Temperature (°C)")
	timeAxis(p, "2006")

	daily := make(plotter.XYs, len(series))
	trendXYs := make(plotter.XYs, len(series))
	trend := TemperatureTrend(series)
	for i, d := range series {
		daily[i] = plotter.XY{X: unix(d.Date), Y: d.Temperature}
		trendXYs[i] = plotter.XY{X: unix(d.Date), Y: trend[i]}
	}
	if err := addLine(p, daily, dataColor, vg.Points(0.8), "Daily temperature"); err != nil {
		return err
	}
	if err := addLine(p, trendXYs, pipeColor, vg.Points(2.5), "Trend"); err != nil {
		return err
	}

	yearly := YearlyAverages(series)
	yearXYs := make(plotter.XYs, len(yearly))
	for i, y := range yearly {
		yearXYs[i] = plotter.XY{X: unix(time.Date(y.Year, time.January, 1, 0, 0, 0, 0, time.UTC)), Y: y.Mean}
	}
	if len(yearXYs) > 0 {
		line, points, err := plotter.NewLinePoints(finite(yearXYs))
		if err != nil {
			return err
		}
		line.Color = yearColor
		line.Width = vg.Points(2)
		points.GlyphStyle.Shape = draw.RingGlyph{}
		points.GlyphStyle.Color = yearColor
		points.GlyphStyle.Radius = vg.Points(3)
		p.Add(line, points)
		p.Legend.Add("Yearly average", line, points)
	}
	legendTopRight(p)

	return save(p, defaultWidth, defaultHeight, path)
}
