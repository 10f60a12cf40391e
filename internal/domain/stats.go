package domain

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// YearMax is the deepest frost front observed during one calendar year.
type YearMax struct {
	Year  int
	Depth float64
}

// FrostStats summarises the frozen columns of a profile.
type FrostStats struct {
	Count     int
	Max       float64
	Mean      float64
	YearlyMax []YearMax
}

// FrozenPoints returns only the points with a frost front, in input order.
func FrozenPoints(points []FrostPoint) []FrostPoint {
	out := make([]FrostPoint, 0, len(points))
	for _, p := range points {
		if p.Frozen && !math.IsNaN(p.Depth) {
			out = append(out, p)
		}
	}
	return out
}

// ComputeFrostStats aggregates frost depths. Unfrozen points are ignored; with
// none frozen, Count is zero and Max and Mean are NaN.
func ComputeFrostStats(points []FrostPoint) FrostStats {
	frozen := FrozenPoints(points)
	if len(frozen) == 0 {
		return FrostStats{Max: math.NaN(), Mean: math.NaN()}
	}

	depths := make([]float64, len(frozen))
	byYear := make(map[int]float64)
	for i, p := range frozen {
		depths[i] = p.Depth
		y := p.Label.Date.Year()
		if cur, ok := byYear[y]; !ok || p.Depth > cur {
			byYear[y] = p.Depth
		}
	}

	yearly := make([]YearMax, 0, len(byYear))
	for y, d := range byYear {
		yearly = append(yearly, YearMax{Year: y, Depth: d})
	}
	sort.Slice(yearly, func(i, j int) bool { return yearly[i].Year < yearly[j].Year })

	return FrostStats{
		Count:     len(frozen),
		Max:       floats.Max(depths),
		Mean:      stat.Mean(depths, nil),
		YearlyMax: yearly,
	}
}

// CriticalDays returns the 1-based column positions whose frost front lies
// strictly deeper than threshold, such as the top of a buried water pipe.
func CriticalDays(points []FrostPoint, threshold float64) []int {
	var days []int
	for i, p := range points {
		if p.Frozen && p.Depth > threshold {
			days = append(days, i+1)
		}
	}
	return days
}
