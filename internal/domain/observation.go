package domain

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Observation is a single station reading.
type Observation struct {
	SourceID      string
	ReferenceTime time.Time
	Value         float64
}

// DailyMean is the average of one calendar day's readings.
type DailyMean struct {
	Date        string // YYYY-MM-DD, UTC
	Temperature float64
}

// DailyMeans groups observations by UTC calendar date and averages each
// group, rounded to one decimal. Days are returned in ascending order.
func DailyMeans(obs []Observation) []DailyMean {
	byDay := make(map[string][]float64)
	for _, o := range obs {
		if math.IsNaN(o.Value) {
			continue
		}
		day := o.ReferenceTime.UTC().Format(time.DateOnly)
		byDay[day] = append(byDay[day], o.Value)
	}

	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	out := make([]DailyMean, len(days))
	for i, d := range days {
		out[i] = DailyMean{Date: d, Temperature: roundTo(stat.Mean(byDay[d], nil), 1)}
	}
	return out
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}
