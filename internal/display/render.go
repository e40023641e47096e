package display

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"holopyramid/internal/mathutil"
	"holopyramid/internal/postprocess"
	"holopyramid/internal/raster"
)

var (
	Background   = color.NRGBA{0, 0, 0, 255}
	InnerOutline = color.NRGBA{0, 0, 255, 255}
	OuterOutline = color.NRGBA{255, 0, 0, 255}
)

// Render draws one frame. On a geometry error the frame is left blank (no
// facets), the error is logged and also returned.
func (d *Display) Render() (*image.NRGBA, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	size := int(math.Round(d.key.CanvasSize))
	if d.geomErr != nil {
		d.logger.Error("geometry unavailable, drawing no facets",
			"canvasSize", d.key.CanvasSize, "sides", d.key.Sides,
			"innerPolygonSize", d.key.InnerPolygonSize, "error", d.geomErr)
		if size < 1 {
			size = 1
		}
		blank := raster.NewCanvas(size, 1)
		blank.Fill(Background)
		return blank.Image(), fmt.Errorf("display: render: %w", d.geomErr)
	}

	c := raster.NewCanvas(size, d.supersample)
	c.Fill(Background)

	center := mathutil.Translation(d.key.CanvasSize/2, d.key.CanvasSize/2)
	c.ConnectPointsWithStraightLines(d.bundle.InnerEdgePoints, center, InnerOutline, true)
	c.ConnectPointsWithStraightLines(d.bundle.OuterEdgePoints, center, OuterOutline, true)

	for _, f := range d.facets() {
		img := d.prepare(f.source, f.settings)
		if img == nil {
			continue
		}
		b := img.Bounds()
		clip := &raster.Clip{Path: f.transforms.ClipPath, Transform: f.transforms.Clip}
		c.DrawImage(img, f.transforms.Draw(f.settings), float64(b.Dx()), float64(b.Dy()), clip)
	}

	return postprocess.Downsample(c.Image(), size), nil
}
