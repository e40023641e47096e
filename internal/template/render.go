package template

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golang/freetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"holopyramid/internal/mathutil"
	"holopyramid/internal/raster"
)

// MaxPixels bounds the rendered template area.
const MaxPixels = 64 << 20

const labelSize = 12.0

// Render draws the panel at dpi: white background, black trapezoid. With
// labelled set, the panel summary is written inside the trapezoid when it fits.
func Render(d Dimensions, dpi float64, labelled bool) (*image.NRGBA, error) {
	if !(dpi > 0) {
		return nil, fmt.Errorf("template: dpi %g must be positive", dpi)
	}
	s := d.Scaled(dpi)
	w, h := s.ImageSize()
	if w < 3 || h < 3 || w*h > MaxPixels {
		return nil, fmt.Errorf("template: image size %dx%d out of range", w, h)
	}

	c := raster.NewRectCanvas(w, h, 1)
	c.Fill(color.White)
	c.FillPolygon(s.Trapezoid(), mathutil.Identity(), color.Black)

	if labelled {
		if err := drawLabel(c.Image(), s); err != nil {
			return nil, err
		}
	}
	return c.Image(), nil
}

func drawLabel(dst *image.NRGBA, d Dimensions) error {
	f, err := freetype.ParseFont(gomono.TTF)
	if err != nil {
		return fmt.Errorf("template: parse font: %w", err)
	}

	fc := freetype.NewContext()
	fc.SetDPI(72)
	fc.SetFont(f)
	fc.SetFontSize(labelSize)
	fc.SetHinting(font.HintingFull)
	fc.SetClip(dst.Bounds())
	fc.SetDst(dst)
	fc.SetSrc(image.White)

	text := d.Label()
	// gomono advances are 0.6em.
	textW := float64(len(text)) * labelSize * 0.6
	if textW > d.SideA-4 || d.TiltedHeight < 2*labelSize {
		return nil
	}
	x := 1 + d.SideB/2 - textW/2
	y := 1 + labelSize + 4
	if _, err := fc.DrawString(text, freetype.Pt(int(x), int(y))); err != nil {
		return fmt.Errorf("template: draw label: %w", err)
	}
	return nil
}
