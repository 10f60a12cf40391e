package chart

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
	"github.com/couchcryptid/frost-depth-toolkit/internal/geometry"
	"github.com/couchcryptid/frost-depth-toolkit/internal/tabular"
)

func requireImage(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func sampleSeries(n int) FrostSeries {
	start := domain.DefaultSimulationStart
	points := make([]domain.FrostPoint, n)
	for i := range points {
		label := domain.NewTimeLabel("", i, start.AddDate(0, 0, i*7))
		depth := 0.3 + 0.3*math.Sin(float64(i)/4)
		if depth < 0.1 {
			points[i] = domain.FrostPoint{Label: label, Depth: math.NaN()}
			continue
		}
		points[i] = domain.FrostPoint{Label: label, Depth: depth, Frozen: true}
	}
	return FrostSeries{Name: "Profile 1", Points: points}
}

func TestSection(t *testing.T) {
	s, err := geometry.Trench(geometry.DefaultTrenchDimensions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "trench.png")
	require.NoError(t, Section(s, path))
	requireImage(t, path)

	require.ErrorIs(t, Section(geometry.Section{}, path), ErrNoData)
}

func TestFrostCharts(t *testing.T) {
	dir := t.TempDir()
	series := sampleSeries(120)

	t.Run("depth over time", func(t *testing.T) {
		path := filepath.Join(dir, "frost.png")
		require.NoError(t, FrostDepth(series, path))
		requireImage(t, path)
	})

	t.Run("seasonal", func(t *testing.T) {
		path := filepath.Join(dir, "seasonal.png")
		require.NoError(t, SeasonalFrost(series, path))
		requireImage(t, path)
	})

	t.Run("stacked profiles", func(t *testing.T) {
		path := filepath.Join(dir, "profiles.png")
		other := sampleSeries(60)
		other.Name = "Profile 2"
		require.NoError(t, FrostProfiles([]FrostSeries{series, other}, 0.47, path))
		requireImage(t, path)
	})

	t.Run("no frost", func(t *testing.T) {
		empty := FrostSeries{Points: []domain.FrostPoint{{Depth: math.NaN()}}}
		require.ErrorIs(t, FrostDepth(empty, filepath.Join(dir, "x.png")), ErrNoData)
		require.ErrorIs(t, SeasonalFrost(empty, filepath.Join(dir, "y.png")), ErrNoData)
		require.ErrorIs(t, FrostProfiles(nil, 0.47, filepath.Join(dir, "z.png")), ErrNoData)
	})
}

func TestFrozenRuns(t *testing.T) {
	points := []domain.FrostPoint{
		{Depth: 0.1, Frozen: true},
		{Depth: 0.2, Frozen: true},
		{Depth: math.NaN()},
		{Depth: 0.4, Frozen: true},
	}
	runs := frozenRuns(points)
	require.Len(t, runs, 2)
	assert.Len(t, runs[0], 2)
	assert.Equal(t, 3.0, runs[1][0].X)
}

func TestFrostDepthHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FrostDepthHTML(&buf, []FrostSeries{sampleSeries(20)}, 0.47))
	assert.Contains(t, buf.String(), "Frost penetration depth")
	assert.Contains(t, buf.String(), "Profile 1")

	require.ErrorIs(t, FrostDepthHTML(&buf, nil, 0.47), ErrNoData)
}

func dailySeries(days int) []tabular.DailyTemperature {
	start := time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]tabular.DailyTemperature, days)
	for i := range out {
		out[i] = tabular.DailyTemperature{
			Day:         i + 1,
			Date:        start.AddDate(0, 0, i),
			Temperature: 8 - 7*math.Cos(2*math.Pi*float64(i)/365),
		}
	}
	return out
}

func TestYearlyAverages(t *testing.T) {
	series := []tabular.DailyTemperature{
		{Date: time.Date(2000, 12, 30, 0, 0, 0, 0, time.UTC), Temperature: 1},
		{Date: time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC), Temperature: 3},
		{Date: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), Temperature: math.NaN()},
		{Date: time.Date(2001, 1, 2, 0, 0, 0, 0, time.UTC), Temperature: -4},
	}
	assert.Equal(t, []YearAverage{{Year: 2000, Mean: 2}, {Year: 2001, Mean: -4}}, YearlyAverages(series))
}

func TestTemperatureTrend(t *testing.T) {
	short := dailySeries(100)
	trend := TemperatureTrend(short)
	for _, v := range trend {
		assert.True(t, math.IsNaN(v), "shorter than a year falls back to the rolling mean")
	}

	long := dailySeries(3 * 365)
	for i := range long {
		long[i].Temperature = 5 + 0.001*float64(i)
	}
	trend = TemperatureTrend(long)
	require.Len(t, trend, len(long))
	for _, i := range []int{0, 100, len(long) / 2, len(long) - 1} {
		assert.InDelta(t, long[i].Temperature, trend[i], 1e-6, "day %d", i)
	}
}

func TestTemperature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temperature.png")
	require.NoError(t, Temperature("Flesland", dailySeries(2*365), path))
	requireImage(t, path)

	require.ErrorIs(t, Temperature("x", nil, path), ErrNoData)
}

func TestForecastCharts(t *testing.T) {
	dir := t.TempDir()
	entries := make([]domain.ForecastEntry, 60)
	for i := range entries {
		entries[i] = domain.ForecastEntry{
			From:        time.Date(2024, 1, 1, i, 0, 0, 0, time.UTC).Format("2006-01-02T15:04:05"),
			MinPrecip:   0.1 * float64(i%3),
			AvgPrecip:   0.2 * float64(i%4),
			MaxPrecip:   0.5 * float64(i%5),
			Temperature: float64(i%10) - 5,
		}
	}

	for name, render := range map[string]func(string) error{
		"histogram.png":     func(p string) error { return PrecipitationHistogram(entries, p) },
		"precipitation.png": func(p string) error { return PrecipitationBars(entries, "Latest precipitation", p) },
		"temperature.png":   func(p string) error { return TemperatureBars(entries, "Latest temperature", p) },
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, render(path))
			requireImage(t, path)
		})
	}

	require.ErrorIs(t, PrecipitationHistogram(nil, filepath.Join(dir, "none.png")), ErrNoData)
	require.ErrorIs(t, TemperatureBars(nil, "", filepath.Join(dir, "none.png")), ErrNoData)
}
