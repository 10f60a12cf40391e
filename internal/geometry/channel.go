package geometry

import "fmt"

// ChannelDimensions describes a concrete channel buried below a road, in meters.
type ChannelDimensions struct {
	AsphaltWidth      float64 `json:"asphalt_width"`
	SideDistance      float64 `json:"side_distance"`
	AsphaltThickness  float64 `json:"asphalt_thickness"`
	BaseThickness     float64 `json:"base_thickness"`
	ChannelWidth      float64 `json:"channel_width"`
	ChannelHeight     float64 `json:"channel_height"`
	WallThickness     float64 `json:"wall_thickness"`
	CushionThickness  float64 `json:"cushion_thickness"`
	DepthBelowChannel float64 `json:"depth_below_channel"`
	PipeDiameter      float64 `json:"pipe_diameter"`
}

// DefaultChannelDimensions returns the dimensions of the reference road section.
func DefaultChannelDimensions() ChannelDimensions {
	return ChannelDimensions{
		AsphaltWidth:      4,
		SideDistance:      3,
		AsphaltThickness:  0.14,
		BaseThickness:     0.1,
		ChannelWidth:      0.8,
		ChannelHeight:     0.65,
		WallThickness:     0.1,
		CushionThickness:  0.07,
		DepthBelowChannel: 3,
		PipeDiameter:      0.25,
	}
}

// Validate rejects non-positive dimensions and walls that leave no interior.
func (d ChannelDimensions) Validate() error {
	if err := requirePositive([]dimension{
		{"asphalt_width", d.AsphaltWidth},
		{"side_distance", d.SideDistance},
		{"asphalt_thickness", d.AsphaltThickness},
		{"base_thickness", d.BaseThickness},
		{"channel_width", d.ChannelWidth},
		{"channel_height", d.ChannelHeight},
		{"wall_thickness", d.WallThickness},
		{"cushion_thickness", d.CushionThickness},
		{"depth_below_channel", d.DepthBelowChannel},
		{"pipe_diameter", d.PipeDiameter},
	}); err != nil {
		return err
	}
	if 2*d.WallThickness >= d.ChannelWidth {
		return fmt.Errorf("%w: walls (2 x %g) leave no room in channel width %g", ErrInvalidDimensions, d.WallThickness, d.ChannelWidth)
	}
	if 2*d.WallThickness >= d.ChannelHeight {
		return fmt.Errorf("%w: walls (2 x %g) leave no room in channel height %g", ErrInvalidDimensions, d.WallThickness, d.ChannelHeight)
	}
	return nil
}

// Channel computes the 22 points of the channel cross-section:
//
//	1-10   ground and road outline, asphalt layer
//	11-14  outer concrete channel
//	15-18  inner channel
//	19-20  top of the cushion
//	21-22  pipe centre and pipe bottom
func Channel(d ChannelDimensions) (Section, error) {
	if err := d.Validate(); err != nil {
		return Section{}, err
	}

	x1, y1 := 0.0, 0.0
	x2, y2 := 2*d.SideDistance+d.AsphaltWidth, y1
	x3 := x2
	y3 := d.DepthBelowChannel + d.ChannelHeight + d.BaseThickness + 0.5*d.AsphaltThickness
	x4, y4 := x3-d.SideDistance, y3
	x5, y5 := x4, y3+0.5*d.AsphaltThickness
	x6, y6 := x5-d.AsphaltWidth, y5
	x7, y7 := x6, y4
	x8, y8 := x1, y7
	x9, y9 := x7, y6-d.AsphaltThickness
	x10, y10 := x4, y5-d.AsphaltThickness

	x11 := x1 + (2*d.SideDistance+d.AsphaltWidth)/2 - d.ChannelWidth/2
	y11 := y1 + d.DepthBelowChannel
	x12, y12 := x11+d.ChannelWidth, y11
	x13, y13 := x12, y12+d.ChannelHeight
	x14, y14 := x11, y13

	x15, y15 := x11+d.WallThickness, y11+d.WallThickness
	x16, y16 := x15+(d.ChannelWidth-2*d.WallThickness), y15
	x17, y17 := x16, y16+(d.ChannelHeight-2*d.WallThickness)
	x18, y18 := x15, y17

	x19, y19 := x15, y15+d.CushionThickness
	x20, y20 := x16, y19

	x21, y21 := (x15+x16)/2, y20+d.PipeDiameter/2
	x22, y22 := x21, y21-d.PipeDiameter/2

	s := newSection("channel", [][2]float64{
		{x1, y1}, {x2, y2}, {x3, y3}, {x4, y4}, {x5, y5}, {x6, y6}, {x7, y7}, {x8, y8},
		{x9, y9}, {x10, y10}, {x11, y11}, {x12, y12}, {x13, y13}, {x14, y14},
		{x15, y15}, {x16, y16}, {x17, y17}, {x18, y18}, {x19, y19}, {x20, y20},
		{x21, y21}, {x22, y22},
	})
	s.Outlines = [][]int{
		{1, 2, 3, 4, 5, 6, 7, 8, 1},
		{9, 10},
		{11, 12, 13, 14, 11},
		{15, 16, 17, 18, 15},
		{19, 20},
	}
	return s, nil
}
