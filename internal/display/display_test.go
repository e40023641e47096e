package display

import (
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"testing"

	"holopyramid/internal/facet"
	"holopyramid/internal/geometry"
)

var quiet = WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func square() facet.Key {
	return facet.Key{CanvasSize: 400, Sides: 4, InnerPolygonSize: 50}
}

func TestRenderOutlines(t *testing.T) {
	d := New(geometry.NewPolygonCache(), square(), quiet)
	img, err := d.Render()
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 400 {
		t.Fatalf("frame size %v", b)
	}
	if got := img.NRGBAAt(100, 200); got != Background {
		t.Errorf("empty area = %v", got)
	}


	// The inner square has circumradius 50, so its right edge is near x = 235.
	foundBlue := false
	for x := 232; x < 239; x++ {
		if c := img.NRGBAAt(x, 200); c.B > 128 && c.R == 0 {
			foundBlue = true
		}
	}
	if !foundBlue {
		t.Error("inner outline not drawn")
	}
}

func TestRenderOuterOutlineNearEdge(t *testing.T) {
	// At 300px the solved square stays just inside the canvas, so its top
	// edge lands in the first rows.
	d := New(geometry.NewPolygonCache(), facet.Key{CanvasSize: 300, Sides: 4, InnerPolygonSize: 50}, quiet)
	img, err := d.Render()
	if err != nil {
		t.Fatal(err)
	}
	foundRed := false
	for y := 0; y < 4; y++ {
		if c := img.NRGBAAt(150, y); c.R > 128 && c.G == 0 && c.B == 0 {
			foundRed = true
		}
	}
	if !foundRed {
		t.Error("outer outline not drawn near the top edge")
	}
}

func TestRenderDrawsFacetImages(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	d := New(geometry.NewPolygonCache(), square(), quiet)
	d.SetSources([]Source{{ID: "asset_a", Name: "a.png", Image: solid(20, 20, red)}})

	img, err := d.Render()
	if err != nil {
		t.Fatal(err)
	}
	// Facet 0's image is centered incircle + size/4 below the canvas center.
	if got := img.NRGBAAt(200, 317); got != red {
		t.Errorf("facet 0 image center = %v, want %v", got, red)
	}
	if got := img.NRGBAAt(200, 200); got != Background {
		t.Errorf("canvas center = %v, want background", got)
	}
}

func TestRenderSupersampled(t *testing.T) {
	d := New(geometry.NewPolygonCache(), facet.Key{CanvasSize: 120, Sides: 3, InnerPolygonSize: 20}, WithSupersample(2), quiet)
	img, err := d.Render()
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 120 {
		t.Errorf("downsampled frame size %v", b)
	}
}

func TestRenderGeometryFailure(t *testing.T) {
	d := New(nil, facet.Key{CanvasSize: 100, Sides: 2, InnerPolygonSize: 10}, quiet)
	d.SetSources([]Source{{ID: "asset_a", Image: solid(10, 10, color.NRGBA{255, 255, 255, 255})}})

	img, err := d.Render()
	if !errors.Is(err, geometry.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if img == nil || img.Bounds().Dx() != 100 {
		t.Fatalf("no blank frame returned")
	}
	for y := 0; y < 100; y += 7 {
		for x := 0; x < 100; x += 7 {
			if got := img.NRGBAAt(x, y); got != Background {
				t.Fatalf("(%d,%d) = %v on failed geometry", x, y, got)
			}
		}
	}
	if _, err := d.DrawCommands(); !errors.Is(err, geometry.ErrInvalidArgument) {
		t.Errorf("DrawCommands err = %v", err)
	}

	// Recovering the geometry makes the display usable again.
	if err := d.SetSideCount(3); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Render(); err != nil {
		t.Errorf("render after recovery: %v", err)
	}
}

func TestDrawCommands(t *testing.T) {
	d := New(geometry.NewPolygonCache(), square(), quiet)
	d.SetSources([]Source{
		{ID: "asset_a", Image: solid(20, 10, color.NRGBA{A: 255})},
		{ID: "asset_b", Image: solid(8, 8, color.NRGBA{A: 255})},
	})
	d.SetSettings([]facet.Settings{{ScalingFactor: 50, Brightness: 80}})

	cmds, err := d.DrawCommands()
	if err != nil {
		t.Fatal(err)
	}
	if len(cmds) != 3+4*4 {
		t.Fatalf("got %d commands", len(cmds))
	}

	var images []DrawCommand
	for _, c := range cmds {
		if c.Op == "image" {
			images = append(images, c)
		}
	}
	wantIDs := []string{"asset_a", "asset_b", "asset_a", "asset_b"}
	for i, c := range images {
		if c.ImageAssetID != wantIDs[i] {
			t.Errorf("facet %d shows %s, want %s", i, c.ImageAssetID, wantIDs[i])
		}
		if *c.Facet != i {
			t.Errorf("image %d tagged facet %d", i, *c.Facet)
		}
		if len(c.Transform) != 6 {
			t.Errorf("facet %d transform %v", i, c.Transform)
		}
	}
	if images[0].ImageWidth != 10 || images[0].ImageHeight != 5 || images[0].Filter != "brightness(80%)" {
		t.Errorf("scaled image command = %+v", images[0])
	}
	if images[1].ImageWidth != 8 || images[1].Filter != "brightness(100%)" {
		t.Errorf("default image command = %+v", images[1])
	}
	if cmds[3].Op != "save" || cmds[4].Op != "clip" || cmds[6].Op != "restore" {
		t.Errorf("facet sequence = %s %s %s %s", cmds[3].Op, cmds[4].Op, cmds[5].Op, cmds[6].Op)
	}
	if len(cmds[4].Path) != 5 {
		t.Errorf("clip path has %d segments, want 4 + close", len(cmds[4].Path))
	}
}

func TestSettersRebuildOnlyOnGeometryChange(t *testing.T) {
	d := New(geometry.NewPolygonCache(), square(), quiet)
	if d.TransformBuilds() != 4 {
		t.Fatalf("initial builds = %d", d.TransformBuilds())
	}

	d.SetSettings([]facet.Settings{{Position: 40, Rotation: 10}})
	d.SetSources([]Source{{ID: "x", Image: solid(4, 4, color.NRGBA{A: 255})}})
	if _, err := d.Render(); err != nil {
		t.Fatal(err)
	}
	if d.TransformBuilds() != 4 {
		t.Errorf("per-image changes rebuilt bases: %d", d.TransformBuilds())
	}

	if err := d.SetGeometry(square()); err != nil {
		t.Fatal(err)
	}
	if d.TransformBuilds() != 4 {
		t.Errorf("unchanged geometry rebuilt bases: %d", d.TransformBuilds())
	}

	if err := d.SetInnerPolygonSize(70); err != nil {
		t.Fatal(err)
	}
	if d.TransformBuilds() != 8 {
		t.Errorf("builds after inner size change = %d, want 8", d.TransformBuilds())
	}
	b, err := d.Bundle()
	if err != nil {
		t.Fatal(err)
	}
	if b.InnerPolygonSize != 70 {
		t.Errorf("bundle inner size = %v", b.InnerPolygonSize)
	}

	if err := d.SetCanvasSize(300); err != nil {
		t.Fatal(err)
	}
	if d.TransformBuilds() != 12 {
		t.Errorf("builds after resize = %d, want 12", d.TransformBuilds())
	}
}

func TestPrivateCacheDropsOldSize(t *testing.T) {
	d := New(nil, square(), quiet)
	if err := d.SetCanvasSize(200); err != nil {
		t.Fatal(err)
	}
	if n := d.polygons.Len(); n != 1 {
		t.Errorf("private cache holds %d polygons after resize, want 1", n)
	}
}
