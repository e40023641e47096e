package mathutil

import "math"

const (
	// TwoPi is a full turn in radians.
	TwoPi = 2 * math.Pi

	// OneDegree is the rotation step of the inscribed-polygon wedge search.
	OneDegree = math.Pi / 180
)
