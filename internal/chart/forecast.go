package chart

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
)

// HistogramBins is the bin count of the precipitation histogram.
const HistogramBins = 20

// LatestPeriods is how many trailing periods the forecast bar charts show.
const LatestPeriods = 48

type precipSeries struct {
	name  string
	value func(domain.ForecastEntry) float64
}

var precipKinds = []precipSeries{
	{"Minimum", func(e domain.ForecastEntry) float64 { return e.MinPrecip }},
	{"Average", func(e domain.ForecastEntry) float64 { return e.AvgPrecip }},
	{"Maximum", func(e domain.ForecastEntry) float64 { return e.MaxPrecip }},
}

// PrecipitationHistogram plots the distribution of hourly minimum, average
// and maximum precipitation over every archived period.
func PrecipitationHistogram(entries []domain.ForecastEntry, path string) error {
	if len(entries) == 0 {
		return ErrNoData
	}
	p := newPlot("Hourly precipitation", "Hourly Precipitation [mm]", "Frequency")

	for i, kind := range precipKinds {
		values := make(plotter.Values, len(entries))
		for j, e := range entries {
			values[j] = kind.value(e)
		}
		h, err := plotter.NewHist(values, HistogramBins)
		if err != nil {
			return fmt.Errorf("build %s histogram: %w", kind.name, err)
		}
		h.FillColor = withAlpha(palette(i), 0x99)
		h.LineStyle.Width = vg.Points(0.5)
		p.Add(h)
		p.Legend.Add(kind.name, h)
	}
	legendTopRight(p)

	return save(p, 8*vg.Inch, 5*vg.Inch, path)
}

// PrecipitationBars plots precipitation for the latest forecast periods.
func PrecipitationBars(entries []domain.ForecastEntry, title, path string) error {
	latest := domain.LatestEntries(entries, LatestPeriods)
	if len(latest) == 0 {
		return ErrNoData
	}
	p := newPlot(title, "", "Precipitation [mm]")
	periodAxis(p, latest)

	width := vg.Points(5)
	for i, kind := range precipKinds {
		values := make(plotter.Values, len(latest))
		for j, e := range latest {
			values[j] = kind.value(e)
		}
		b, err := plotter.NewBarChart(values, width)
		if err != nil {
			return fmt.Errorf("build %s bars: %w", kind.name, err)
		}
		b.Color = palette(i)
		b.LineStyle.Width = 0
		b.Offset = vg.Length(i-1) * width
		p.Add(b)
		p.Legend.Add(kind.name, b)
	}
	legendTopRight(p)

	return save(p, 15*vg.Inch, 5*vg.Inch, path)
}

// TemperatureBars plots temperature for the latest forecast periods.
func TemperatureBars(entries []domain.ForecastEntry, title, path string) error {
	latest := domain.LatestEntries(entries, LatestPeriods)
	if len(latest) == 0 {
		return ErrNoData
	}
	p := newPlot(title, "", "Temperature [C]")
	periodAxis(p, latest)

	values := make(plotter.Values, len(latest))
	for i, e := range latest {
		values[i] = e.Temperature
	}
	b, err := plotter.NewBarChart(values, vg.Points(10))
	if err != nil {
		return fmt.Errorf("build temperature bars: %w", err)
	}
	b.Color = palette(0)
	b.LineStyle.Width = 0
	p.Add(b)

	return save(p, 15*vg.Inch, 5*vg.Inch, path)
}

func periodAxis(p *plot.Plot, entries []domain.ForecastEntry) {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.From
	}
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}
