package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"holopyramid/internal/geometry"
	"holopyramid/internal/mathutil"
)

// LineWidth is the stroke width of outlines in logical pixels.
const LineWidth = 1.0

func (c *Canvas) rasterizer() *vector.Rasterizer {
	b := c.img.Bounds()
	return vector.NewRasterizer(b.Dx(), b.Dy())
}

// addPolygon appends a closed subpath of points mapped through m.
func addPolygon(z *vector.Rasterizer, points []geometry.Point, m mathutil.Affine) {
	for i, p := range points {
		x, y := m.Apply(p.X, p.Y)
		if i == 0 {
			z.MoveTo(float32(x), float32(y))
			continue
		}
		z.LineTo(float32(x), float32(y))
	}
	z.ClosePath()
}

// FillPolygon fills the polygon given in m's local space.
func (c *Canvas) FillPolygon(points []geometry.Point, m mathutil.Affine, col color.Color) {
	if len(points) < 3 {
		return
	}
	z := c.rasterizer()
	z.DrawOp = draw.Over
	addPolygon(z, points, c.device(m))
	z.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

// ConnectPointsWithStraightLines strokes the polyline through points, closing
// it back to the first point when closed is set.
func (c *Canvas) ConnectPointsWithStraightLines(points []geometry.Point, m mathutil.Affine, col color.Color, closed bool) {
	if len(points) < 2 {
		return
	}
	dev := c.device(m)
	half := LineWidth * float64(c.supersample) / 2

	z := c.rasterizer()
	z.DrawOp = draw.Over
	segments := len(points) - 1
	if closed {
		segments = len(points)
	}
	drawn := false
	for i := 0; i < segments; i++ {
		ax, ay := dev.Apply(points[i].X, points[i].Y)
		q := points[(i+1)%len(points)]
		bx, by := dev.Apply(q.X, q.Y)

		dx, dy := bx-ax, by-ay
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half

		// Each segment is a thin quad; the rasterizer clamps overlapping coverage.
		z.MoveTo(float32(ax+nx), float32(ay+ny))
		z.LineTo(float32(bx+nx), float32(by+ny))
		z.LineTo(float32(bx-nx), float32(by-ny))
		z.LineTo(float32(ax-nx), float32(ay-ny))
		z.ClosePath()
		drawn = true
	}
	if drawn {
		z.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
	}
}

// Clip is a clip path expressed in the local space of Transform.
type Clip struct {
	Path      []geometry.Point
	Transform mathutil.Affine
}

// Mask rasterises the clip path to an alpha coverage mask the size of the
// backing image. A nil return means "no clipping".
func (c *Canvas) Mask(clip *Clip) *image.Alpha {
	if clip == nil {
		return nil
	}
	b := c.img.Bounds()
	mask := image.NewAlpha(b)
	if len(clip.Path) < 3 {
		// Degenerate paths clip everything away, as in Canvas2D.
		return mask
	}
	z := c.rasterizer()
	z.DrawOp = draw.Src
	addPolygon(z, clip.Path, c.device(clip.Transform))
	z.Draw(mask, b, image.Opaque, image.Point{})
	return mask
}
