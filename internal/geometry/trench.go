package geometry

import "fmt"

// TrenchDimensions describes an insulated pipe trench, in meters.
type TrenchDimensions struct {
	Width                 float64 `json:"width"`
	Height                float64 `json:"height"`
	AsphaltThickness      float64 `json:"asphalt_thickness"`
	TrenchDepth           float64 `json:"trench_depth"`
	TopWidth              float64 `json:"top_width"`
	BottomWidth           float64 `json:"bottom_width"`
	CushionThickness      float64 `json:"cushion_thickness"`
	InsulationThickness   float64 `json:"insulation_thickness"`
	InsulationWidth       float64 `json:"insulation_width"`
	PipeDepth             float64 `json:"pipe_depth"` // informational, not used by the layout
	PipeDiameter          float64 `json:"pipe_diameter"`
	InsulationPipeSpacing float64 `json:"insulation_pipe_spacing"`
}

// DefaultTrenchDimensions returns the dimensions of the reference trench.
func DefaultTrenchDimensions() TrenchDimensions {
	return TrenchDimensions{
		Width:                 10,
		Height:                4,
		AsphaltThickness:      0.14,
		TrenchDepth:           1.5,
		TopWidth:              3,
		BottomWidth:           1.5,
		CushionThickness:      0.1,
		InsulationThickness:   0.05,
		InsulationWidth:       0.8,
		PipeDepth:             1.2,
		PipeDiameter:          0.25,
		InsulationPipeSpacing: 0.1,
	}
}

// Validate rejects non-positive dimensions and trenches that do not fit the model.
func (d TrenchDimensions) Validate() error {
	if err := requirePositive([]dimension{
		{"width", d.Width},
		{"height", d.Height},
		{"asphalt_thickness", d.AsphaltThickness},
		{"trench_depth", d.TrenchDepth},
		{"top_width", d.TopWidth},
		{"bottom_width", d.BottomWidth},
		{"cushion_thickness", d.CushionThickness},
		{"insulation_thickness", d.InsulationThickness},
		{"insulation_width", d.InsulationWidth},
		{"pipe_diameter", d.PipeDiameter},
		{"insulation_pipe_spacing", d.InsulationPipeSpacing},
	}); err != nil {
		return err
	}
	switch {
	case d.BottomWidth > d.TopWidth:
		return fmt.Errorf("%w: bottom width %g exceeds top width %g", ErrInvalidDimensions, d.BottomWidth, d.TopWidth)
	case d.TopWidth > d.Width:
		return fmt.Errorf("%w: top width %g exceeds model width %g", ErrInvalidDimensions, d.TopWidth, d.Width)
	case d.TrenchDepth >= d.Height:
		return fmt.Errorf("%w: trench depth %g reaches model height %g", ErrInvalidDimensions, d.TrenchDepth, d.Height)
	case d.InsulationWidth > d.BottomWidth:
		return fmt.Errorf("%w: insulation width %g exceeds bottom width %g", ErrInvalidDimensions, d.InsulationWidth, d.BottomWidth)
	}
	return nil
}

// Trench computes the 18 points of the trench cross-section:
//
//	1-6    model frame and asphalt layer
//	7-10   trench walls
//	11-16  insulation board (15 and 16 are its inner top corners)
//	17-18  pipe centre and pipe bottom
func Trench(d TrenchDimensions) (Section, error) {
	if err := d.Validate(); err != nil {
		return Section{}, err
	}

	w, h := d.Width, d.Height
	x7, y7 := (w-d.TopWidth)/2, h
	x8, y8 := (w-d.BottomWidth)/2, h-d.TrenchDepth
	x11 := (w - d.InsulationWidth) / 2
	y11 := h - d.TrenchDepth + d.CushionThickness + d.PipeDiameter + d.InsulationPipeSpacing
	x12, y12 := (w+d.InsulationWidth)/2, y11
	y17 := y8 + d.CushionThickness + d.PipeDiameter/2

	s := newSection("trench", [][2]float64{
		{0, 0},
		{w, 0},
		{w, h},
		{0, h},
		{0, h - d.AsphaltThickness},
		{w, h - d.AsphaltThickness},
		{x7, y7},
		{x8, y8},
		{x8 + d.BottomWidth, h - d.TrenchDepth},
		{x7 + d.TopWidth, h},
		{x11, y11},
		{x12, y12},
		{x12, y12 + d.InsulationThickness},
		{x11, y11 + d.InsulationThickness},
		{x11 + d.InsulationThickness, y11 + d.InsulationThickness},
		{x12 - d.InsulationThickness, y12 + d.InsulationThickness},
		{w / 2, y17},
		{w / 2, y17 - d.PipeDiameter/2},
	})
	s.Outlines = [][]int{
		{1, 2, 3, 4, 1},
		{5, 6},
		{7, 8, 9, 10},
		{11, 12, 13, 14, 11},
	}
	s.Hidden = []int{15, 16}
	return s, nil
}
