package raster

import (
	"image"

	"golang.org/x/image/draw"

	"holopyramid/internal/mathutil"
)

// DrawImage draws src stretched to w×h logical pixels with its center at the
// origin of m, i.e. the rectangle (-w/2, -h/2, w, h), restricted to clip.
func (c *Canvas) DrawImage(src image.Image, m mathutil.Affine, w, h float64, clip *Clip) {
	sb := src.Bounds()
	if sb.Empty() || !(w > 0) || !(h > 0) {
		return
	}

	// source pixels -> local rect -> logical canvas -> backing pixels
	s2d := c.device(m).
		Translate(-w/2, -h/2).
		Scale(w/float64(sb.Dx()), h/float64(sb.Dy())).
		Translate(-float64(sb.Min.X), -float64(sb.Min.Y))
	if !s2d.IsFinite() {
		return
	}
	if _, ok := s2d.Invert(); !ok {
		return
	}

	var opts *draw.Options
	if mask := c.Mask(clip); mask != nil {
		opts = &draw.Options{DstMask: mask}
	}
	draw.BiLinear.Transform(c.img, s2d.Aff3(), src, sb, draw.Over, opts)
}
