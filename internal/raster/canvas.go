// Package raster is the immediate-mode drawing surface the hologram frames are
// composed on. It mirrors the subset of Canvas2D the facet renderer needs:
// filled and stroked polygons, clip paths and affine image draws.
package raster

import (
	"image"
	"image/color"
	"image/draw"

	"holopyramid/internal/mathutil"
)

// Canvas is an RGBA surface addressed in logical pixels. With a supersample
// factor above 1 the backing image is larger and every transform is
// pre-scaled, so callers always work in logical units.
type Canvas struct {
	img           *image.NRGBA
	width, height int
	supersample   int
	root          mathutil.Affine
}

// NewCanvas allocates a size×size logical canvas backed by size·supersample pixels.
func NewCanvas(size, supersample int) *Canvas {
	return NewRectCanvas(size, size, supersample)
}

// NewRectCanvas allocates a w×h logical canvas.
func NewRectCanvas(w, h, supersample int) *Canvas {
	if supersample < 1 {
		supersample = 1
	}
	return &Canvas{
		img:         image.NewNRGBA(image.Rect(0, 0, w*supersample, h*supersample)),
		width:       w,
		height:      h,
		supersample: supersample,
		root:        mathutil.Scaling(float64(supersample), float64(supersample)),
	}
}

// Size returns the logical width, which is the edge length of a square canvas.
func (c *Canvas) Size() int { return c.width }

// Height returns the logical height.
func (c *Canvas) Height() int { return c.height }

// Supersample returns the backing-pixel scale factor.
func (c *Canvas) Supersample() int { return c.supersample }

// Image returns the backing image, at supersampled resolution.
func (c *Canvas) Image() *image.NRGBA { return c.img }

// Fill paints every pixel with col.
func (c *Canvas) Fill(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// device maps a logical transform to backing pixels.
func (c *Canvas) device(m mathutil.Affine) mathutil.Affine {
	return c.root.Mul(m)
}
