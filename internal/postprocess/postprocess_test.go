package postprocess

import (
	"image"
	"image/color"
	"testing"
)

func fill(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestBrightness(t *testing.T) {
	src := fill(2, 2, color.NRGBA{100, 200, 40, 128})

	tests := []struct {
		percent float64
		want    color.NRGBA
	}{
		{50, color.NRGBA{50, 100, 20, 128}},
		{150, color.NRGBA{150, 255, 60, 128}},
		{0, color.NRGBA{0, 0, 0, 128}},
		{-20, color.NRGBA{0, 0, 0, 128}},
	}
	for _, tt := range tests {
		got := Brightness(src, tt.percent).NRGBAAt(1, 1)
		if got != tt.want {
			t.Errorf("brightness %v%%: %v, want %v", tt.percent, got, tt.want)
		}
	}

	if Brightness(src, 100) != src {
		t.Error("100% did not return the input")
	}
	if src.NRGBAAt(0, 0) != (color.NRGBA{100, 200, 40, 128}) {
		t.Error("input modified")
	}
}

func TestScaleImage(t *testing.T) {
	src := fill(40, 20, color.NRGBA{10, 20, 30, 255})

	half := ScaleImage(src, 50)
	if b := half.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("50%% size = %v", b)
	}
	if got := half.NRGBAAt(10, 5); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("uniform color changed: %v", got)
	}

	double := ScaleImage(src, 200)
	if b := double.Bounds(); b.Dx() != 80 || b.Dy() != 40 {
		t.Errorf("200%% size = %v", b)
	}
	if ScaleImage(src, 100) != src {
		t.Error("100% did not return the input")
	}
	if ScaleImage(src, 0) != nil || ScaleImage(src, -5) != nil {
		t.Error("non-positive scale returned an image")
	}
}

func TestScaledSizeFloor(t *testing.T) {
	w, h := ScaledSize(3, 300, 1)
	if w != 1 || h != 3 {
		t.Errorf("ScaledSize = %d×%d, want 1×3", w, h)
	}
}

func TestDownsample(t *testing.T) {
	src := fill(64, 64, color.NRGBA{200, 100, 50, 255})
	out := Downsample(src, 32)
	if b := out.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("size = %v", b)
	}
	if got := out.NRGBAAt(16, 16); got != (color.NRGBA{200, 100, 50, 255}) {
		t.Errorf("uniform color changed: %v", got)
	}
	if Downsample(src, 64) != src {
		t.Error("no-op downsample copied the image")
	}
}

func TestDownsampleKeepsTransparentEdgeColor(t *testing.T) {
	// Left half opaque red, right half fully transparent black.
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			src.SetNRGBA(x, y, color.NRGBA{255, 0, 0, 255})
		}
	}
	out := Downsample(src, 4)
	for x := 0; x < 4; x++ {
		c := out.NRGBAAt(x, 2)
		if c.A > 8 && c.R < 240 {
			t.Errorf("x=%d: edge pixel darkened to %v", x, c)
		}
	}
}
