package geometry

import "github.com/jbeda/geom"

// CenteredPoints is a translated copy of a point set plus the offset that was removed.
type CenteredPoints struct {
	Points []Point `json:"points"`
	Offset Offset  `json:"offset"`
}

// Bounds returns the axis-aligned bounding box of points.
// An empty slice yields the zero rectangle.
func Bounds(points []Point) geom.Rect {
	if len(points) == 0 {
		return geom.Rect{}
	}
	r := geom.Rect{Min: points[0].coord(), Max: points[0].coord()}
	for _, p := range points[1:] {
		r.ExpandToContainCoord(p.coord())
	}
	return r
}

// BoundsCenter returns the offset from the origin to the bounding-box center.
func BoundsCenter(points []Point) Offset {
	r := Bounds(points)
	return Offset{
		DX: (r.Min.X + r.Max.X) / 2,
		DY: (r.Min.Y + r.Max.Y) / 2,
	}
}

// CenterPoints translates a copy of points so their bounding box is centered at the origin.
func CenterPoints(points []Point) CenteredPoints {
	return CenterPointsBy(points, BoundsCenter(points))
}

// CenterPointsBy translates a copy of points by -offset. The input is never modified.
func CenterPointsBy(points []Point, offset Offset) CenteredPoints {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = p.Sub(offset)
	}
	return CenteredPoints{Points: out, Offset: offset}
}
