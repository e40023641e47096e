// Package template computes and draws the cutting template for one mirror
// panel of the physical pyramid: an isosceles trapezoid whose parallel sides
// match the inner and outer polygon edges of the display.
package template

import (
	"fmt"
	"math"

	"holopyramid/internal/geometry"
	"holopyramid/internal/mathutil"
)

// ScreenDPI is the CSS reference resolution template lengths are measured in.
const ScreenDPI = 96.0

// Dimensions of one mirror panel, in screen pixels at ScreenDPI.
type Dimensions struct {
	Sides        int     `json:"sides"`
	SlopeDeg     float64 `json:"slopeDeg"`
	Inside       float64 `json:"inside"`
	Outside      float64 `json:"outside"`
	SideA        float64 `json:"sideA"` // short (inner) parallel side
	SideB        float64 `json:"sideB"` // long (outer) parallel side
	SideDistance float64 `json:"sideDistance"`
	TiltedHeight float64 `json:"tiltedHeight"`
}

// Compute derives the panel for a pyramid with the given side count, mirror
// slope in degrees, and inner and outer polygon sizes (diameters).
func Compute(sides int, slopeDeg, inside, outside float64) (Dimensions, error) {
	if sides < 3 {
		return Dimensions{}, fmt.Errorf("template: side count %d: %w", sides, geometry.ErrInvalidArgument)
	}
	if !(slopeDeg > -90 && slopeDeg < 90) {
		return Dimensions{}, fmt.Errorf("template: slope %g°: %w", slopeDeg, geometry.ErrInvalidArgument)
	}
	if !(inside > 0) || !(outside > 0) || math.IsInf(inside, 0) || math.IsInf(outside, 0) {
		return Dimensions{}, fmt.Errorf("template: sizes %g/%g: %w", inside, outside, geometry.ErrInvalidArgument)
	}

	inner, err := geometry.EvenlySpacedPointsOnCircle(inside/2, geometry.Origin, sides, 0)
	if err != nil {
		return Dimensions{}, err
	}
	outer, err := geometry.EvenlySpacedPointsOnCircle(outside/2, geometry.Origin, sides, 0)
	if err != nil {
		return Dimensions{}, err
	}

	dist, err := geometry.DistanceBetweenParallelLines(inner[0], inner[1], outer[0])
	if err != nil {
		return Dimensions{}, fmt.Errorf("template: inner edge: %w", err)
	}

	return Dimensions{
		Sides:        sides,
		SlopeDeg:     slopeDeg,
		Inside:       inside,
		Outside:      outside,
		SideA:        geometry.SideLength(inner[0], inner[1]),
		SideB:        geometry.SideLength(outer[0], outer[1]),
		SideDistance: dist,
		TiltedHeight: dist / math.Sin(mathutil.Deg2Rad(90-slopeDeg)),
	}, nil
}

// Scaled converts the panel from ScreenDPI to dpi.
func (d Dimensions) Scaled(dpi float64) Dimensions {
	f := dpi / ScreenDPI
	d.SideA *= f
	d.SideB *= f
	d.SideDistance *= f
	d.TiltedHeight *= f
	return d
}

// Trapezoid returns the panel outline with a 1px margin, long side on top.
func (d Dimensions) Trapezoid() []geometry.Point {
	inset := (d.SideB - d.SideA) / 2
	return []geometry.Point{
		{X: 1, Y: 1},
		{X: d.SideB + 1, Y: 1},
		{X: d.SideA + inset + 1, Y: d.TiltedHeight + 1},
		{X: inset + 1, Y: d.TiltedHeight + 1},
	}
}

// ImageSize is the pixel size of the rendered template.
func (d Dimensions) ImageSize() (int, int) {
	return int(d.SideB + 3), int(d.TiltedHeight + 3)
}

// Label is a short human-readable summary of the panel.
func (d Dimensions) Label() string {
	return fmt.Sprintf("%d sides  %.0f/%.0f px  slope %g°", d.Sides, d.SideA, d.SideB, d.SlopeDeg)
}
