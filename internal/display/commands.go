package display

import (
	"fmt"

	"holopyramid/internal/geometry"
	"holopyramid/internal/mathutil"
	"holopyramid/internal/postprocess"
)

// PathCommand is one path segment: ["M", x, y], ["L", x, y] or ["Z"].
type PathCommand []any

// DrawCommand is a single Canvas2D operation for a frontend to replay in order.
type DrawCommand struct {
	Op           string        `json:"op"` // "path", "save", "clip", "image", "restore"
	Transform    []float64     `json:"transform,omitempty"`
	Path         []PathCommand `json:"path,omitempty"`
	Fill         string        `json:"fill,omitempty"`
	Stroke       string        `json:"stroke,omitempty"`
	StrokeWidth  float64       `json:"strokeWidth,omitempty"`
	Filter       string        `json:"filter,omitempty"`
	ImageAssetID string        `json:"imageAssetId,omitempty"`
	ImageWidth   float64       `json:"imageWidth,omitempty"`
	ImageHeight  float64       `json:"imageHeight,omitempty"`
	Facet        *int          `json:"facet,omitempty"`
}

func pathOf(points []geometry.Point) []PathCommand {
	path := make([]PathCommand, 0, len(points)+1)
	for i, p := range points {
		op := "L"
		if i == 0 {
			op = "M"
		}
		path = append(path, PathCommand{op, p.X, p.Y})
	}
	return append(path, PathCommand{"Z"})
}

// DrawCommands returns the same pass as Render as a command list. Images are
// referenced by source ID and sized by their scaling factor; the frontend
// applies the brightness filter.
func (d *Display) DrawCommands() ([]DrawCommand, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.geomErr != nil {
		d.logger.Error("geometry unavailable, emitting no facets", "error", d.geomErr)
		return nil, fmt.Errorf("display: draw commands: %w", d.geomErr)
	}

	cs := d.key.CanvasSize
	center := mathutil.Translation(cs/2, cs/2).Slice()
	cmds := []DrawCommand{
		{
			Op:        "path",
			Transform: mathutil.Identity().Slice(),
			Path:      pathOf([]geometry.Point{{X: 0, Y: 0}, {X: cs, Y: 0}, {X: cs, Y: cs}, {X: 0, Y: cs}}),
			Fill:      "black",
		},
		{Op: "path", Transform: center, Path: pathOf(d.bundle.InnerEdgePoints), Stroke: "blue", StrokeWidth: 1},
		{Op: "path", Transform: center, Path: pathOf(d.bundle.OuterEdgePoints), Stroke: "red", StrokeWidth: 1},
	}

	for _, f := range d.facets() {
		src := d.sources[f.source]
		var w, h float64
		if src.Image != nil {
			b := src.Image.Bounds()
			sw, sh := postprocess.ScaledSize(b.Dx(), b.Dy(), f.settings.ScalingFactor)
			w, h = float64(sw), float64(sh)
		}
		idx := f.index
		cmds = append(cmds,
			DrawCommand{Op: "save", Facet: &idx},
			DrawCommand{Op: "clip", Transform: f.transforms.Clip.Slice(), Path: pathOf(f.transforms.ClipPath), Facet: &idx},
			DrawCommand{
				Op:           "image",
				Transform:    f.transforms.Draw(f.settings).Slice(),
				Filter:       fmt.Sprintf("brightness(%g%%)", f.settings.Brightness),
				ImageAssetID: src.ID,
				ImageWidth:   w,
				ImageHeight:  h,
				Facet:        &idx,
			},
			DrawCommand{Op: "restore", Facet: &idx},
		)
	}
	return cmds, nil
}
