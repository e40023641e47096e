package postprocess

import "image"

// Brightness multiplies every color channel by percent/100 and clamps,
// matching the CSS brightness() filter. Alpha is untouched. 100 returns img itself.
func Brightness(img *image.NRGBA, percent float64) *image.NRGBA {
	if percent == 100 {
		return img
	}
	if percent < 0 {
		percent = 0
	}
	f := percent / 100

	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := img.PixOffset(b.Min.X, y)
		di := out.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			out.Pix[di] = clamp8(float64(img.Pix[si]) * f)
			out.Pix[di+1] = clamp8(float64(img.Pix[si+1]) * f)
			out.Pix[di+2] = clamp8(float64(img.Pix[si+2]) * f)
			out.Pix[di+3] = img.Pix[si+3]
			si += 4
			di += 4
		}
	}
	return out
}
