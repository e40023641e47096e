package facet

import (
	"fmt"
	"math"

	"holopyramid/internal/geometry"
	"holopyramid/internal/mathutil"
)

// Base is the geometry-dependent part of a facet's transforms. Clip is the
// canvas-to-facet transform the clip path is expressed in; Image is the
// frame the image is placed in before per-image position and rotation.
type Base struct {
	Clip  mathutil.Affine `json:"clip"`
	Image mathutil.Affine `json:"image"`
}

// Transforms is what a renderer needs for one facet and one image.
type Transforms struct {
	Clip     mathutil.Affine  `json:"clipTransform"`
	Image    mathutil.Affine  `json:"imageTransform"`
	ClipPath []geometry.Point `json:"clipPath"`
}

// Draw returns the transform the image rectangle is drawn with: Image plus the flip.
func (t Transforms) Draw(s Settings) mathutil.Affine {
	sx, sy := 1.0, 1.0
	if s.Flips.H {
		sx = -1
	}
	if s.Flips.V {
		sy = -1
	}
	return t.Image.Scale(sx, sy)
}

func checkIndex(i int, b Bundle) error {
	if i < 0 || i >= b.Sides() {
		return fmt.Errorf("facet: index %d of %d: %w", i, b.Sides(), geometry.ErrInvalidArgument)
	}
	if len(b.InnerEdgePoints) != b.Sides() || len(b.OuterEdgePoints) != b.Sides() {
		return fmt.Errorf("facet: bundle has %d inner and %d outer points for %d sides: %w",
			len(b.InnerEdgePoints), len(b.OuterEdgePoints), b.Sides(), geometry.ErrGeometry)
	}
	return nil
}

// BuildBase composes the clip transform and the image base for facet i.
func BuildBase(i int, b Bundle) (Base, error) {
	if err := checkIndex(i, b); err != nil {
		return Base{}, err
	}

	n := float64(b.Sides())
	fi := float64(i)
	off := b.PolygonInfo.Offset

	clip := mathutil.Translation(b.CanvasSize/2-off.DX, b.CanvasSize/2-off.DY).
		Rotate(fi * b.Angle)

	// The rotation sequence below is empirical; it aligns images for odd and
	// even side counts alike and must stay exactly in this order.
	image := clip.
		Rotate(-fi * b.Angle).
		Rotate(math.Pi).
		Rotate((fi-0.25*(n-2))*b.Angle + b.PolygonInfo.Rotation)

	if !clip.IsFinite() || !image.IsFinite() {
		return Base{}, fmt.Errorf("facet: non-finite transform for facet %d: %w", i, geometry.ErrGeometry)
	}
	return Base{Clip: clip, Image: image}, nil
}

// BuildBases is BuildBase for every facet of b.
func BuildBases(b Bundle) ([]Base, error) {
	bases := make([]Base, b.Sides())
	for i := range bases {
		base, err := BuildBase(i, b)
		if err != nil {
			return nil, err
		}
		bases[i] = base
	}
	return bases, nil
}

// ClipPath returns the facet quadrilateral in clip-transform space. Every
// facet uses the same path; the clip transform rotates it into place.
func ClipPath(b Bundle) ([]geometry.Point, error) {
	if err := checkIndex(0, b); err != nil {
		return nil, err
	}
	off := b.PolygonInfo.Offset
	return []geometry.Point{
		b.InnerEdgePoints[0].Add(off),
		b.OuterEdgePoints[0].Add(off),
		b.OuterEdgePoints[1].Add(off),
		b.InnerEdgePoints[1].Add(off),
	}, nil
}

// Apply places an image with settings s on top of the base.
func (base Base) Apply(b Bundle, clipPath []geometry.Point, s Settings) (Transforms, error) {
	if err := s.Validate(); err != nil {
		return Transforms{}, err
	}
	image := base.Image.
		Translate(0, -b.InnerPolygonIncircleRadius-b.CanvasSize/4-s.Position).
		Rotate(mathutil.Deg2Rad(s.Rotation))
	if !image.IsFinite() {
		return Transforms{}, fmt.Errorf("facet: non-finite image transform: %w", geometry.ErrGeometry)
	}
	return Transforms{
		Clip:     base.Clip,
		Image:    image,
		ClipPath: append([]geometry.Point(nil), clipPath...),
	}, nil
}

// BuildFacetTransforms builds facet i's transforms from scratch. Renderers
// drawing many frames should go through a Cache instead.
func BuildFacetTransforms(i int, b Bundle, s Settings) (Transforms, error) {
	base, err := BuildBase(i, b)
	if err != nil {
		return Transforms{}, err
	}
	path, err := ClipPath(b)
	if err != nil {
		return Transforms{}, err
	}
	return base.Apply(b, path, s)
}
