package postprocess

import (
	"image"
	"math"
)

// ScaledSize returns the pixel size of a w×h image at percent scale, never below 1×1.
func ScaledSize(w, h int, percent float64) (int, int) {
	f := percent / 100
	sw := int(math.Round(float64(w) * f))
	sh := int(math.Round(float64(h) * f))
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}
	return sw, sh
}

// ScaleImage returns img resized to percent of its size. 100 returns img itself.
// Non-positive or non-finite percentages yield nil.
func ScaleImage(img *image.NRGBA, percent float64) *image.NRGBA {
	if percent == 100 {
		return img
	}
	if !(percent > 0) || math.IsInf(percent, 0) {
		return nil
	}
	b := img.Bounds()
	if b.Empty() {
		return img
	}
	w, h := ScaledSize(b.Dx(), b.Dy(), percent)
	return resample(img, w, h)
}
