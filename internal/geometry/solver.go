package geometry

import (
	"fmt"
	"math"

	"holopyramid/internal/mathutil"
)

// Search parameters of the inscribed-polygon hill climb. Changing any of them
// changes which local optimum is found, and with it the rendered layout.
const (
	RadiusIterations = 300
	InitialStep      = 8.0
	StepDecay        = 0.99
	RotationStep     = mathutil.OneDegree
)

// Polygon is a regular polygon found by the solver. Points are in solver space
// (generated around the origin at the winning rotation); Offset recenters them.
type Polygon struct {
	Sides  int     `json:"sides"`
	Points []Point `json:"points"`
	Offset Offset  `json:"offset"`
	Angle  float64 `json:"angle"`
}

// Centered returns a copy of the points translated by -Offset.
func (p Polygon) Centered() []Point {
	return CenterPointsBy(p.Points, p.Offset).Points
}

// SideLength returns the distance between the first two vertices.
func (p Polygon) SideLength() float64 {
	if len(p.Points) < 2 {
		return 0
	}
	return SideLength(p.Points[0], p.Points[1])
}

func validatePolygonArgs(canvasSize float64, sides int) error {
	if sides < 3 {
		return fmt.Errorf("geometry: side count %d (need >= 3): %w", sides, ErrInvalidArgument)
	}
	if !(canvasSize > 0) || math.IsInf(canvasSize, 0) {
		return fmt.Errorf("geometry: canvas size %g: %w", canvasSize, ErrInvalidArgument)
	}
	return nil
}

// MaxInscribedPolygon searches for the largest regular polygon with the given
// side count that fits inside a square canvas of canvasSize once centered.
//
// Rotations in [0, 2π/sides) are tried in 1° steps. For each rotation the
// radius is hill-climbed for RadiusIterations rounds; the step only decays
// while growing. The final round's candidate is recorded whether or not it fit,
// and the winner is the rotation with the longest side (earliest on ties). The
// search is a heuristic, deterministic for fixed inputs.
func MaxInscribedPolygon(canvasSize float64, sides int) (Polygon, error) {
	if err := validatePolygonArgs(canvasSize, sides); err != nil {
		return Polygon{}, err
	}

	half := canvasSize / 2
	wedge := mathutil.TwoPi / float64(sides)

	var (
		best     Polygon
		bestSide = -1.0
	)

	for rotation := 0.0; rotation < wedge; rotation += RotationStep {
		points, offset, err := climbRadius(half, sides, rotation)
		if err != nil {
			return Polygon{}, err
		}

		side := SideLength(points[0], points[1])
		if side > bestSide {
			bestSide = side
			best = Polygon{
				Sides:  sides,
				Points: points,
				Offset: offset,
				Angle:  rotation,
			}
		}
	}

	return best, nil
}

// climbRadius runs the radius search for one rotation and returns the point
// set generated in the final round, which may overshoot [-half, half]² by
// less than one step.
func climbRadius(half float64, sides int, rotation float64) ([]Point, Offset, error) {
	radius := half
	step := InitialStep

	var (
		points []Point
		offset Offset
	)

	for i := 0; i < RadiusIterations; i++ {
		var err error
		points, err = EvenlySpacedPointsOnCircle(radius, Origin, sides, rotation)
		if err != nil {
			return nil, Offset{}, err
		}
		centered := CenterPoints(points)
		offset = centered.Offset

		if tooBig(centered.Points, half) {
			radius -= step
			continue
		}

		radius += step
		step *= StepDecay
	}

	return points, offset, nil
}

func tooBig(points []Point, half float64) bool {
	for _, p := range points {
		if math.Abs(p.X) > half || math.Abs(p.Y) > half {
			return true
		}
	}
	return false
}
