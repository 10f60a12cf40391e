package domain

import (
	"math"
	"time"
)

// TimeLabel identifies one temperature column of a simulation export.
type TimeLabel struct {
	Raw  string    `json:"raw"`  // header text as exported, e.g. "12 days" or "Day 3"
	Days float64   `json:"days"` // elapsed days since the simulation start
	Date time.Time `json:"date"` // start date plus the whole elapsed days
}

// TemperatureColumn holds one temperature per depth of the profile's axis.
// Missing samples are NaN; infinities are treated the same way.
type TemperatureColumn struct {
	Label TimeLabel
	Temps []float64
}

// Profile is a temperature-depth grid: a shared depth axis (meters, strictly
// increasing from the surface downward) and one column per time step.
type Profile struct {
	Name    string
	Depths  []float64
	Columns []TemperatureColumn
}

// FrostPoint is the frost front of a single column. Frozen is false when the
// column has no freezing temperature, in which case Depth is NaN.
type FrostPoint struct {
	Label  TimeLabel `json:"label"`
	Depth  float64   `json:"depth"`
	Frozen bool      `json:"frozen"`
}

// Missing reports whether v carries no usable temperature: NaN, or an
// infinity that no crossing can be interpolated from.
func Missing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
