// Package geometry computes the 2D cross-section coordinates used to build
// the heat-transfer models: a concrete channel under a road and an insulated
// pipe trench. Coordinates are in meters with point 1 at the origin and y
// increasing upward toward the road surface.
package geometry

import (
	"errors"
	"fmt"
	"io"
)

// ErrInvalidDimensions is returned when a set of dimensions cannot describe a
// buildable cross-section.
var ErrInvalidDimensions = errors.New("invalid dimensions")

// Point is a numbered vertex of a cross-section.
type Point struct {
	Label int     `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Section is a computed cross-section. Outlines lists the polylines, by point
// label, that draw the structure; Hidden lists labels not annotated on plots.
type Section struct {
	Name     string
	Points   []Point
	Outlines [][]int
	Hidden   []int
}

// Point returns the point with the given 1-based label.
func (s Section) Point(label int) (Point, bool) {
	if label < 1 || label > len(s.Points) {
		return Point{}, false
	}
	return s.Points[label-1], true
}

// WriteTable prints one "Point N: (x, y)" line per point, two decimals.
func (s Section) WriteTable(w io.Writer) error {
	for _, p := range s.Points {
		if _, err := fmt.Fprintf(w, "Point %d: (%.2f, %.2f)\n", p.Label, p.X, p.Y); err != nil {
			return fmt.Errorf("write point %d: %w", p.Label, err)
		}
	}
	return nil
}

func newSection(name string, xy [][2]float64) Section {
	pts := make([]Point, len(xy))
	for i, c := range xy {
		pts[i] = Point{Label: i + 1, X: c[0], Y: c[1]}
	}
	return Section{Name: name, Points: pts}
}

type dimension struct {
	name  string
	value float64
}

func requirePositive(dims []dimension) error {
	for _, d := range dims {
		if !(d.value > 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidDimensions, d.name, d.value)
		}
	}
	return nil
}
