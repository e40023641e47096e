package facet

import (
	"errors"
	"math"
	"testing"

	"holopyramid/internal/geometry"
	"holopyramid/internal/mathutil"
)

const eps = 1e-9

func squareBundle(t *testing.T) Bundle {
	t.Helper()
	b, err := ComputeFacetGeometry(geometry.NewPolygonCache(), 400, 4, 50)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestComputeFacetGeometry(t *testing.T) {
	for _, sides := range []int{3, 4, 5, 6, 7} {
		b, err := ComputeFacetGeometry(geometry.NewPolygonCache(), 300, sides, 40)
		if err != nil {
			t.Fatalf("sides=%d: %v", sides, err)
		}
		if len(b.InnerEdgePoints) != sides || len(b.OuterEdgePoints) != sides {
			t.Fatalf("sides=%d: %d inner, %d outer", sides, len(b.InnerEdgePoints), len(b.OuterEdgePoints))
		}
		if math.Abs(b.Angle-2*math.Pi/float64(sides)) > eps {
			t.Errorf("sides=%d: angle %v", sides, b.Angle)
		}
		if want := geometry.IncircleRadius(20, sides); b.InnerPolygonIncircleRadius != want {
			t.Errorf("sides=%d: incircle %v, want %v", sides, b.InnerPolygonIncircleRadius, want)
		}
		// Inner points sit on a circle of radius innerPolygonSize around -offset.
		off := b.PolygonInfo.Offset
		for i, p := range b.InnerEdgePoints {
			if d := math.Hypot(p.X+off.DX, p.Y+off.DY); math.Abs(d-40) > 1e-9 {
				t.Errorf("sides=%d inner %d at radius %v", sides, i, d)
			}
		}
	}
}

func TestInnerPointOrdering(t *testing.T) {
	b := squareBundle(t)
	n := b.Sides()
	rot := b.PolygonInfo.Rotation
	off := b.PolygonInfo.Offset

	// After reverse + rotate, inner[0] is generation index 0 and inner[k] is n-k.
	for k, p := range b.InnerEdgePoints {
		gen := (n - k) % n
		want := geometry.PointOnCircle(50, float64(gen)*b.Angle-rot, geometry.Origin).Sub(off)
		if math.Abs(p.X-want.X) > eps || math.Abs(p.Y-want.Y) > eps {
			t.Errorf("inner[%d] = %+v, want generation point %d %+v", k, p, gen, want)
		}
	}
}

func TestComputeFacetGeometryRejectsInvalid(t *testing.T) {
	cache := geometry.NewPolygonCache()
	tests := []struct {
		name  string
		size  float64
		sides int
		inner float64
	}{
		{"two sides", 400, 2, 50},
		{"zero canvas", 0, 4, 50},
		{"negative inner", 400, 4, -1},
		{"NaN inner", 400, 4, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeFacetGeometry(cache, tt.size, tt.sides, tt.inner)
			if !errors.Is(err, geometry.ErrInvalidArgument) {
				t.Errorf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
	if cache.Len() != 0 {
		t.Errorf("invalid input populated the cache")
	}
}

// The image frames of neighbouring facets differ by exactly one facet angle.
func TestImageTransformsStepByFacetAngle(t *testing.T) {
	b := squareBundle(t)
	s := DefaultSettings()

	var prev Transforms
	for i := 0; i < b.Sides(); i++ {
		tr, err := BuildFacetTransforms(i, b, s)
		if err != nil {
			t.Fatal(err)
		}
		if i > 0 {
			d := mathutil.NormalizeAngle(tr.Image.RotationAngle() - prev.Image.RotationAngle())
			if math.Abs(d-math.Pi/2) > 1e-9 {
				t.Errorf("facet %d: rotation step %v, want π/2", i, d)
			}
			base0, _ := BuildBase(i-1, b)
			base1, _ := BuildBase(i, b)
			if !base1.Image.AlmostEqual(base0.Image.Rotate(b.Angle), 1e-9) {
				t.Errorf("facet %d: base %v != previous ∘ rotate(angle) %v", i, base1.Image, base0.Image.Rotate(b.Angle))
			}
		}
		prev = tr
	}
}

func TestBaseComposition(t *testing.T) {
	b := squareBundle(t)
	off := b.PolygonInfo.Offset
	const i = 2

	base, err := BuildBase(i, b)
	if err != nil {
		t.Fatal(err)
	}

	wantClip := mathutil.Translation(200-off.DX, 200-off.DY).Mul(mathutil.Rotation(i * b.Angle))
	if !base.Clip.AlmostEqual(wantClip, eps) {
		t.Errorf("clip = %v, want %v", base.Clip, wantClip)
	}

	// Undoing the facet rotation leaves the canvas-center translation in place.
	x, y := base.Image.Apply(0, 0)
	if math.Abs(x-(200-off.DX)) > eps || math.Abs(y-(200-off.DY)) > eps {
		t.Errorf("image origin = (%v, %v)", x, y)
	}
	wantAngle := mathutil.NormalizeAngle(math.Pi + (i-0.5)*b.Angle + b.PolygonInfo.Rotation)
	if got := mathutil.NormalizeAngle(base.Image.RotationAngle()); mathutil.AngleDist(got, wantAngle) > 1e-9 {
		t.Errorf("image rotation = %v, want %v", got, wantAngle)
	}
}

func TestImageTransformAppliesPositionAndRotation(t *testing.T) {
	b := squareBundle(t)
	base, err := BuildBase(1, b)
	if err != nil {
		t.Fatal(err)
	}

	s := Settings{ScalingFactor: 100, Brightness: 100, Position: 12, Rotation: 30}
	tr, err := BuildFacetTransforms(1, b, s)
	if err != nil {
		t.Fatal(err)
	}
	want := base.Image.
		Translate(0, -b.InnerPolygonIncircleRadius-100-12).
		Rotate(math.Pi / 6)
	if !tr.Image.AlmostEqual(want, eps) {
		t.Errorf("image = %v, want %v", tr.Image, want)
	}
	if tr.Clip != base.Clip {
		t.Errorf("clip changed by per-image settings")
	}
}

func TestDrawFlips(t *testing.T) {
	tr := Transforms{Image: mathutil.Translation(10, 20)}
	tests := []struct {
		flips  Flips
		x0, y0 float64
	}{
		{Flips{}, 11, 22},
		{Flips{H: true}, 9, 22},
		{Flips{V: true}, 11, 18},
		{Flips{H: true, V: true}, 9, 18},
	}
	for _, tt := range tests {
		x, y := tr.Draw(Settings{Flips: tt.flips}).Apply(1, 2)
		if x != tt.x0 || y != tt.y0 {
			t.Errorf("flips %+v: (1,2) -> (%v, %v), want (%v, %v)", tt.flips, x, y, tt.x0, tt.y0)
		}
	}
}

func segmentsIntersect(p1, p2, q1, q2 geometry.Point) bool {
	cross := func(o, a, b geometry.Point) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)
	return ((d1 > 0) != (d2 > 0)) && ((d3 > 0) != (d4 > 0))
}

func TestClipPathIsSimple(t *testing.T) {
	for _, sides := range []int{3, 4, 5, 6, 8} {
		b, err := ComputeFacetGeometry(geometry.NewPolygonCache(), 400, sides, 50)
		if err != nil {
			t.Fatal(err)
		}
		q, err := ClipPath(b)
		if err != nil {
			t.Fatal(err)
		}
		if len(q) != 4 {
			t.Fatalf("sides=%d: clip path has %d points", sides, len(q))
		}
		if segmentsIntersect(q[0], q[1], q[2], q[3]) || segmentsIntersect(q[1], q[2], q[3], q[0]) {
			t.Errorf("sides=%d: clip quad %v self-intersects", sides, q)
		}
		off := b.PolygonInfo.Offset
		if q[1] != b.OuterEdgePoints[0].Add(off) || q[3] != b.InnerEdgePoints[1].Add(off) {
			t.Errorf("sides=%d: clip path order %v", sides, q)
		}
	}
}

func TestBuildFacetTransformsRejectsBadIndex(t *testing.T) {
	b := squareBundle(t)
	for _, i := range []int{-1, 4, 100} {
		if _, err := BuildFacetTransforms(i, b, DefaultSettings()); !errors.Is(err, geometry.ErrInvalidArgument) {
			t.Errorf("index %d: err = %v", i, err)
		}
	}
	if _, err := BuildFacetTransforms(0, b, Settings{Rotation: math.Inf(1)}); !errors.Is(err, geometry.ErrInvalidArgument) {
		t.Errorf("infinite rotation: err = %v", err)
	}
}

func TestCacheMemoizationBoundary(t *testing.T) {
	polys := geometry.NewPolygonCache()
	b, err := ComputeFacetGeometry(polys, 400, 4, 50)
	if err != nil {
		t.Fatal(err)
	}

	c := NewCache()
	if _, err := c.Transforms(0, DefaultSettings()); !errors.Is(err, geometry.ErrGeometry) {
		t.Fatalf("empty cache: err = %v", err)
	}
	if err := c.Reset(b); err != nil {
		t.Fatal(err)
	}
	if c.Builds() != 4 {
		t.Fatalf("builds = %d, want 4", c.Builds())
	}

	a, err := c.Transforms(0, DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	moved := DefaultSettings()
	moved.Position = 25
	moved.Rotation = 90
	moved.Flips.H = true
	m, err := c.Transforms(0, moved)
	if err != nil {
		t.Fatal(err)
	}
	if a.Clip != m.Clip {
		t.Errorf("clip transform changed with position: %v vs %v", a.Clip, m.Clip)
	}
	if a.Image == m.Image {
		t.Errorf("image transform ignored new position")
	}
	if c.Builds() != 4 {
		t.Errorf("per-image change rebuilt bases: builds = %d", c.Builds())
	}

	// Same geometry key again is a no-op.
	if err := c.Reset(b); err != nil {
		t.Fatal(err)
	}
	if c.Builds() != 4 {
		t.Errorf("identical reset rebuilt bases: builds = %d", c.Builds())
	}

	// Geometry change rebuilds every facet.
	b2, err := ComputeFacetGeometry(polys, 400, 4, 80)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Reset(b2); err != nil {
		t.Fatal(err)
	}
	if c.Builds() != 8 {
		t.Errorf("builds after geometry change = %d, want 8", c.Builds())
	}
	n, err := c.Transforms(0, moved)
	if err != nil {
		t.Fatal(err)
	}
	if n.Image.AlmostEqual(m.Image, eps) {
		t.Errorf("image transform did not pick up the new inner polygon")
	}

	want, err := BuildFacetTransforms(3, b2, moved)
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Transforms(3, moved)
	if err != nil {
		t.Fatal(err)
	}
	if got.Clip != want.Clip || got.Image != want.Image {
		t.Errorf("cached transforms differ from a fresh build")
	}
}

func TestSettingsDefaults(t *testing.T) {
	s := Settings{Rotation: 15}.WithDefaults()
	if s.ScalingFactor != 100 || s.Brightness != 100 || s.Rotation != 15 {
		t.Errorf("WithDefaults = %+v", s)
	}
	if got := SettingsFor(nil, 3); got != DefaultSettings() {
		t.Errorf("SettingsFor missing = %+v", got)
	}
	if got := SettingsFor([]Settings{{ScalingFactor: 50}}, 0); got.ScalingFactor != 50 || got.Brightness != 100 {
		t.Errorf("SettingsFor = %+v", got)
	}
}
