// Package geometry holds the pure point math and the inscribed-polygon search
// that lay out the facets of a hologram pyramid display.
package geometry

import (
	"fmt"
	"math"

	"github.com/jbeda/geom"

	"holopyramid/internal/mathutil"
)

// Point is a 2D coordinate, usually relative to the canvas center.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Offset is the translation that moves a point set's bounding-box center to the origin.
type Offset struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Origin is the canvas-centered origin.
var Origin = Point{}

func (p Point) coord() geom.Coord {
	return geom.Coord{X: p.X, Y: p.Y}
}

// Add returns p shifted by o.
func (p Point) Add(o Offset) Point {
	return Point{X: p.X + o.DX, Y: p.Y + o.DY}
}

// Sub returns p shifted by -o.
func (p Point) Sub(o Offset) Point {
	return Point{X: p.X - o.DX, Y: p.Y - o.DY}
}

// PointOnCircle returns center + radius·(cos angle, sin angle).
func PointOnCircle(radius, angle float64, center Point) Point {
	return Point{
		X: center.X + radius*math.Cos(angle),
		Y: center.Y + radius*math.Sin(angle),
	}
}

// EvenlySpacedPointsOnCircle returns count points at offsetAngle + i·2π/count.
func EvenlySpacedPointsOnCircle(radius float64, center Point, count int, offsetAngle float64) ([]Point, error) {
	if count <= 0 {
		return nil, fmt.Errorf("geometry: point count %d: %w", count, ErrInvalidArgument)
	}

	step := mathutil.TwoPi / float64(count)
	points := make([]Point, count)
	for i := range points {
		points[i] = PointOnCircle(radius, offsetAngle+float64(i)*step, center)
	}
	return points, nil
}

// DistanceBetweenParallelLines returns the perpendicular distance from p3 to the
// infinite line through p1 and p2.
func DistanceBetweenParallelLines(p1, p2, p3 Point) (float64, error) {
	a := p2.Y - p1.Y
	b := p1.X - p2.X
	denom := math.Sqrt(a*a + b*b)
	if denom == 0 {
		return 0, fmt.Errorf("geometry: line through coincident points (%g, %g): %w", p1.X, p1.Y, ErrGeometry)
	}
	num := math.Abs(a*p3.X + b*p3.Y + (p2.X*p1.Y - p1.X*p2.Y))
	return num / denom, nil
}

// IncircleRadius returns the inradius of a regular polygon with the given circumradius.
func IncircleRadius(circumradius float64, sides int) float64 {
	return circumradius * math.Cos(math.Pi/float64(sides))
}

// SideLength is the Euclidean distance between two vertices.
func SideLength(p, q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}
