package mathutil

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Affine is a 2D affine transform in Canvas2D / DOMMatrix order [a, b, c, d, e, f]:
//
//	| a  c  e |
//	| b  d  f |
//	| 0  0  1 |
//
// Value type, so composing transforms never aliases.
type Affine [6]float64

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{1, 0, 0, 1, 0, 0}
}

// Translation returns a pure translation.
func Translation(tx, ty float64) Affine {
	return Affine{1, 0, 0, 1, tx, ty}
}

// Rotation returns a rotation by angle radians (clockwise on a y-down canvas).
func Rotation(angle float64) Affine {
	c, s := math.Cos(angle), math.Sin(angle)
	return Affine{c, s, -s, c, 0, 0}
}

// Scaling returns a non-uniform scale.
func Scaling(sx, sy float64) Affine {
	return Affine{sx, 0, 0, sy, 0, 0}
}

// Mul returns m × o: o is applied first, then m.
func (m Affine) Mul(o Affine) Affine {
	return Affine{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Translate post-multiplies a translation, like ctx.translate.
func (m Affine) Translate(tx, ty float64) Affine {
	return m.Mul(Translation(tx, ty))
}

// Rotate post-multiplies a rotation, like ctx.rotate.
func (m Affine) Rotate(angle float64) Affine {
	return m.Mul(Rotation(angle))
}

// Scale post-multiplies a scale, like ctx.scale.
func (m Affine) Scale(sx, sy float64) Affine {
	return m.Mul(Scaling(sx, sy))
}

// Apply maps (x, y) through the transform.
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func (m Affine) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse transform. ok is false for singular matrices.
func (m Affine) Invert() (Affine, bool) {
	d := m.Determinant()
	if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return Identity(), false
	}
	invD := 1.0 / d
	return Affine{
		m[3] * invD,
		-m[1] * invD,
		-m[2] * invD,
		m[0] * invD,
		(m[2]*m[5] - m[3]*m[4]) * invD,
		(m[1]*m[4] - m[0]*m[5]) * invD,
	}, true
}

// RotationAngle extracts the rotation of the linear part, in (-π, π].
// Meaningful only when the linear part is a rotation, optionally with a uniform scale.
func (m Affine) RotationAngle() float64 {
	return math.Atan2(m[1], m[0])
}

// IsFinite reports whether every component is a finite number.
func (m Affine) IsFinite() bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// AlmostEqual compares component-wise within eps.
func (m Affine) AlmostEqual(o Affine, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}

// Aff3 converts to the row-major layout used by golang.org/x/image/draw.
func (m Affine) Aff3() f64.Aff3 {
	return f64.Aff3{
		m[0], m[2], m[4],
		m[1], m[3], m[5],
	}
}

// Slice returns the components as a slice for JSON payloads.
func (m Affine) Slice() []float64 {
	return []float64{m[0], m[1], m[2], m[3], m[4], m[5]}
}
