package math

import "github.com/chewxy/math32"

/**
 * @brief A 2D affine transform stored as the top two rows of a 3x3 matrix:
 * | A C E |
 * | B D F |
 * | 0 0 1 |
 */
type Mat3 struct {
	A, B, C, D, E, F float32
}

func NewMat3Identity() Mat3 {
	return Mat3{A: 1, D: 1}
}

func NewMat3Translation(v Vec2) Mat3 {
	return Mat3{A: 1, D: 1, E: v.X, F: v.Y}
}

func NewMat3Scale(v Vec2) Mat3 {
	return Mat3{A: v.X, D: v.Y}
}

// NewMat3Rotation builds a rotation of the given angle in radians. Positive
// angles rotate clockwise on screen (y axis pointing down).
func NewMat3Rotation(radians float32) Mat3 {
	s, c := math32.Sincos(radians)
	return Mat3{A: c, B: s, C: -s, D: c}
}

// Mul returns m * o, i.e. o is applied first.
func (m Mat3) Mul(o Mat3) Mat3 {
	return Mat3{
		A: m.A*o.A + m.C*o.B,
		B: m.B*o.A + m.D*o.B,
		C: m.A*o.C + m.C*o.D,
		D: m.B*o.C + m.D*o.D,
		E: m.A*o.E + m.C*o.F + m.E,
		F: m.B*o.E + m.D*o.F + m.F,
	}
}

func (m Mat3) TransformPoint(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Inverse returns the inverse transform and false when the matrix is singular.
func (m Mat3) Inverse() (Mat3, bool) {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Mat3{}, false
	}
	inv := 1 / det
	return Mat3{
		A: m.D * inv,
		B: -m.B * inv,
		C: -m.C * inv,
		D: m.A * inv,
		E: (m.C*m.F - m.D*m.E) * inv,
		F: (m.B*m.E - m.A*m.F) * inv,
	}, true
}

// Cols returns the matrix in column-major 3x3 order, as uploaded to shaders.
func (m Mat3) Cols() [9]float32 {
	return [9]float32{m.A, m.B, 0, m.C, m.D, 0, m.E, m.F, 1}
}

// ComposeTransform builds the draw transform for a quad or mesh. The origin is
// the pivot: it is moved to (0, 0), then scaled, rotated, and finally placed at
// position, so the origin point always ends up exactly at position.
func ComposeTransform(position, origin, scale Vec2, rotation float32) Mat3 {
	m := NewMat3Translation(Vec2{X: -origin.X, Y: -origin.Y})
	m = NewMat3Scale(scale).Mul(m)
	if rotation != 0 {
		m = NewMat3Rotation(rotation).Mul(m)
	}
	return NewMat3Translation(position).Mul(m)
}

// Ortho returns the projection that maps pixel coordinates of a width x height
// target (origin top left) to normalized device coordinates.
func Ortho(width, height float32) Mat3 {
	return Mat3{
		A: 2 / width,
		D: -2 / height,
		E: -1,
		F: 1,
	}
}
