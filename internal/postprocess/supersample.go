// Package postprocess holds the whole-image filters applied around facet
// drawing: source pre-scaling, brightness, and supersample reduction.
package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample reduces a supersampled frame to targetSize×targetSize with
// premultiplied-alpha CatmullRom filtering, which avoids dark fringes where
// transparent pixels meet opaque ones.
func Downsample(img *image.NRGBA, targetSize int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= targetSize && b.Dy() <= targetSize {
		return img
	}
	return resample(img, targetSize, targetSize)
}

// resample scales img to w×h in premultiplied space.
func resample(img *image.NRGBA, w, h int) *image.NRGBA {
	premul := premultiply(img)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, premul.Bounds(), draw.Src, nil)
	return unpremultiply(dst)
}

func premultiply(img *image.NRGBA) *image.RGBA {
	b := img.Bounds()
	premul := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := premul.PixOffset(x, y)
			a := float64(img.Pix[si+3]) / 255.0
			premul.Pix[di] = uint8(float64(img.Pix[si])*a + 0.5)
			premul.Pix[di+1] = uint8(float64(img.Pix[si+1])*a + 0.5)
			premul.Pix[di+2] = uint8(float64(img.Pix[si+2])*a + 0.5)
			premul.Pix[di+3] = img.Pix[si+3]
		}
	}
	return premul
}

func unpremultiply(src *image.RGBA) *image.NRGBA {
	b := src.Bounds()
	result := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := src.PixOffset(x, y)
			di := result.PixOffset(x, y)
			a := float64(src.Pix[si+3])
			if a > 1 {
				inv := 255.0 / a
				result.Pix[di] = clamp8(float64(src.Pix[si]) * inv)
				result.Pix[di+1] = clamp8(float64(src.Pix[si+1]) * inv)
				result.Pix[di+2] = clamp8(float64(src.Pix[si+2]) * inv)
			}
			result.Pix[di+3] = src.Pix[si+3]
		}
	}
	return result
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
