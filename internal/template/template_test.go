package template

import (
	"errors"
	"math"
	"testing"

	"holopyramid/internal/geometry"
)

func TestComputeSquarePyramid(t *testing.T) {
	d, err := Compute(4, 45, 50, 400)
	if err != nil {
		t.Fatal(err)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"sideA", d.SideA, 25 * math.Sqrt2},
		{"sideB", d.SideB, 200 * math.Sqrt2},
		{"sideDistance", d.SideDistance, 175 / math.Sqrt2},
		{"tiltedHeight", d.TiltedHeight, 175},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestComputeVerticalMirrorHeightIsDistance(t *testing.T) {
	d, err := Compute(6, 0, 100, 300)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(d.TiltedHeight-d.SideDistance) > 1e-9 {
		t.Errorf("slope 0: height %v != distance %v", d.TiltedHeight, d.SideDistance)
	}
	// Hexagon side equals its circumradius.
	if math.Abs(d.SideA-50) > 1e-9 || math.Abs(d.SideB-150) > 1e-9 {
		t.Errorf("hexagon sides %v/%v", d.SideA, d.SideB)
	}
}

func TestComputeRejects(t *testing.T) {
	tests := []struct {
		name    string
		sides   int
		slope   float64
		in, out float64
		want    error
	}{
		{"two sides", 2, 45, 50, 400, geometry.ErrInvalidArgument},
		{"flat slope", 4, 90, 50, 400, geometry.ErrInvalidArgument},
		{"NaN slope", 4, math.NaN(), 50, 400, geometry.ErrInvalidArgument},
		{"zero outside", 4, 45, 50, 0, geometry.ErrInvalidArgument},
		{"negative inside", 4, 45, -1, 400, geometry.ErrInvalidArgument},
		{"zero inside", 4, 45, 0, 400, geometry.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.sides, tt.slope, tt.in, tt.out)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestScaled(t *testing.T) {
	d, _ := Compute(4, 45, 50, 400)
	s := d.Scaled(192)
	if math.Abs(s.SideB-2*d.SideB) > 1e-9 || math.Abs(s.TiltedHeight-2*d.TiltedHeight) > 1e-9 {
		t.Errorf("scaled = %+v", s)
	}
	if s.Inside != d.Inside || s.Sides != d.Sides {
		t.Error("scaling changed the inputs")
	}
}

func TestRender(t *testing.T) {
	d, err := Compute(4, 45, 50, 400)
	if err != nil {
		t.Fatal(err)
	}
	img, err := Render(d, 96, false)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != 285 || (b.Dy() != 177 && b.Dy() != 178) {
		t.Fatalf("size = %v", b)
	}

	isBlack := func(x, y int) bool {
		c := img.NRGBAAt(x, y)
		return c.R == 0 && c.G == 0 && c.B == 0
	}
	if !isBlack(142, 5) || !isBlack(142, 170) {
		t.Error("trapezoid interior not filled")
	}
	if isBlack(2, 100) || isBlack(280, 100) {
		t.Error("area beside the slanted edges filled")
	}
	if c := img.NRGBAAt(0, 0); c.R != 255 {
		t.Errorf("margin = %v, want white", c)
	}

	big, err := Render(d, 192, false)
	if err != nil {
		t.Fatal(err)
	}
	if big.Bounds().Dx() != int(2*d.SideB+3) {
		t.Errorf("192 dpi width = %d", big.Bounds().Dx())
	}

	if _, err := Render(d, 0, false); err == nil {
		t.Error("zero dpi accepted")
	}
}

func TestRenderLabel(t *testing.T) {
	d, err := Compute(4, 45, 400, 800)
	if err != nil {
		t.Fatal(err)
	}
	plain, err := Render(d, 96, false)
	if err != nil {
		t.Fatal(err)
	}
	labelled, err := Render(d, 96, true)
	if err != nil {
		t.Fatal(err)
	}

	inset := int((d.SideB - d.SideA) / 2)
	lit := 0
	for y := 3; y < 22; y++ {
		for x := inset + 10; x < inset+int(d.SideA)-10; x++ {
			if plain.NRGBAAt(x, y).R != 0 {
				t.Fatalf("unlabelled template has light pixel at (%d,%d)", x, y)
			}
			if labelled.NRGBAAt(x, y).R > 128 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("label not drawn")
	}
}
