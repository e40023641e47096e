// Package facet derives the per-facet clip and image transforms of a
// hologram pyramid layout from the inner and outer polygon geometry.
package facet

import (
	"fmt"
	"math"
	"slices"

	"holopyramid/internal/geometry"
	"holopyramid/internal/mathutil"
)

// PolygonSource supplies solved outer polygons. *geometry.PolygonCache satisfies it.
type PolygonSource interface {
	Get(canvasSize float64, sides int) (geometry.Polygon, error)
}

// PolygonInfo is the solver metadata the transforms depend on.
type PolygonInfo struct {
	Rotation float64         `json:"rotation"`
	Offset   geometry.Offset `json:"offset"`
	Sides    int             `json:"sides"`
}

// Bundle is everything needed before any facet transform can be built.
// Inner and outer edge points are centered by the same (outer) offset.
type Bundle struct {
	CanvasSize                 float64          `json:"canvasSize"`
	InnerPolygonSize           float64          `json:"innerPolygonSize"`
	Angle                      float64          `json:"angle"`
	PolygonInfo                PolygonInfo      `json:"polygonInfo"`
	InnerEdgePoints            []geometry.Point `json:"innerEdgePoints"`
	OuterEdgePoints            []geometry.Point `json:"outerEdgePoints"`
	InnerPolygonIncircleRadius float64          `json:"innerPolygonIncircleRadius"`
}

// Key identifies the geometry inputs a bundle was computed from.
type Key struct {
	CanvasSize       float64
	Sides            int
	InnerPolygonSize float64
}

func (b Bundle) Key() Key {
	return Key{CanvasSize: b.CanvasSize, Sides: b.PolygonInfo.Sides, InnerPolygonSize: b.InnerPolygonSize}
}

// Sides returns the facet count.
func (b Bundle) Sides() int {
	return b.PolygonInfo.Sides
}

// ComputeFacetGeometry solves (or fetches) the outer polygon and builds the
// matching inner polygon for a display of the given size.
func ComputeFacetGeometry(src PolygonSource, canvasSize float64, sides int, innerPolygonSize float64) (Bundle, error) {
	if math.IsNaN(innerPolygonSize) || math.IsInf(innerPolygonSize, 0) || innerPolygonSize < 0 {
		return Bundle{}, fmt.Errorf("facet: inner polygon size %g: %w", innerPolygonSize, geometry.ErrInvalidArgument)
	}

	outer, err := src.Get(canvasSize, sides)
	if err != nil {
		return Bundle{}, err
	}

	angle := mathutil.TwoPi / float64(sides)

	inner := make([]geometry.Point, sides)
	for i := range inner {
		inner[i] = geometry.PointOnCircle(innerPolygonSize, float64(i)*angle-outer.Angle, geometry.Origin)
	}
	inner = geometry.CenterPointsBy(inner, outer.Offset).Points

	// The inner pass winds the opposite way; reverse and move the last point
	// to the front so inner[i] and outer[i] bound the same facet.
	slices.Reverse(inner)
	inner = append([]geometry.Point{inner[len(inner)-1]}, inner[:len(inner)-1]...)

	return Bundle{
		CanvasSize:       canvasSize,
		InnerPolygonSize: innerPolygonSize,
		Angle:            angle,
		PolygonInfo: PolygonInfo{
			Rotation: outer.Angle,
			Offset:   outer.Offset,
			Sides:    sides,
		},
		InnerEdgePoints:            inner,
		OuterEdgePoints:            outer.Centered(),
		InnerPolygonIncircleRadius: geometry.IncircleRadius(innerPolygonSize/2, sides),
	}, nil
}
