package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyProfile is returned when a depth axis has no samples.
	ErrEmptyProfile = errors.New("empty profile")

	// ErrLengthMismatch is returned when a temperature column and its depth
	// axis differ in length.
	ErrLengthMismatch = errors.New("depth and temperature lengths differ")

	// ErrDepthOrder is returned when the depth axis is not strictly
	// increasing or contains a non-finite depth.
	ErrDepthOrder = errors.New("depths must be finite and strictly increasing")

	// ErrDegenerateCrossing is returned when the bracketing samples of a
	// zero crossing have equal temperatures. It cannot happen for valid
	// input and exists as an interpolation guard.
	ErrDegenerateCrossing = errors.New("bracketing temperatures are equal")
)

// FreezingPoint is the temperature (°C) that separates frozen from unfrozen soil.
const FreezingPoint = 0.0

// ComputeFrostDepth returns the depth at which the temperature profile crosses
// 0 °C, found by linear interpolation between the deepest frozen sample and
// the unfrozen sample directly below it.
//
// frozen is false when no present sample is below freezing. When every present
// sample is at or below freezing the deepest depth of the axis is reported;
// the real front may lie below the sampled range. If the deepest frozen sample
// is the last one on the axis, its depth is reported as is.
//
// NaN temperatures are skipped by the crossing search but never replaced by a
// more distant neighbour: a frozen sample followed by a missing one does not
// bracket a crossing.
func ComputeFrostDepth(depths, temps []float64) (depth float64, frozen bool, err error) {
	if err := ValidateDepthAxis(depths); err != nil {
		return math.NaN(), false, err
	}
	if len(temps) != len(depths) {
		return math.NaN(), false, fmt.Errorf("%w: %d depths, %d temperatures", ErrLengthMismatch, len(depths), len(temps))
	}

	anyBelow, allAtOrBelow, present := false, true, 0
	for _, t := range temps {
		if Missing(t) {
			continue
		}
		present++
		if t < FreezingPoint {
			anyBelow = true
		}
		if t > FreezingPoint {
			allAtOrBelow = false
		}
	}

	if present == 0 || !anyBelow {
		return math.NaN(), false, nil
	}
	last := len(depths) - 1
	if allAtOrBelow {
		return depths[last], true, nil
	}

	for i := last; i >= 0; i-- {
		t := temps[i]
		if Missing(t) || t > FreezingPoint {
			continue
		}
		if i == last {
			return depths[i], true, nil
		}
		next := temps[i+1]
		if Missing(next) || next <= FreezingPoint {
			continue
		}
		if next == t {
			return math.NaN(), false, ErrDegenerateCrossing
		}
		return depths[i] + (FreezingPoint-t)*(depths[i+1]-depths[i])/(next-t), true, nil
	}

	return math.NaN(), false, nil
}

// ValidateDepthAxis checks that depths is non-empty, finite and strictly increasing.
func ValidateDepthAxis(depths []float64) error {
	if len(depths) == 0 {
		return ErrEmptyProfile
	}
	for i, d := range depths {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return fmt.Errorf("%w: depth[%d] is %v", ErrDepthOrder, i, d)
		}
		if i > 0 && d <= depths[i-1] {
			return fmt.Errorf("%w: depth[%d]=%g after %g", ErrDepthOrder, i, d, depths[i-1])
		}
	}
	return nil
}

// ExtractFrostPoints computes one FrostPoint per column of the profile, in
// column order. The first invalid column aborts the extraction.
func ExtractFrostPoints(p Profile) ([]FrostPoint, error) {
	if err := ValidateDepthAxis(p.Depths); err != nil {
		return nil, err
	}

	points := make([]FrostPoint, 0, len(p.Columns))
	for i, col := range p.Columns {
		depth, frozen, err := ComputeFrostDepth(p.Depths, col.Temps)
		if err != nil {
			return nil, fmt.Errorf("column %d (%s): %w", i+1, col.Label.Raw, err)
		}
		points = append(points, FrostPoint{Label: col.Label, Depth: depth, Frozen: frozen})
	}
	return points, nil
}
