package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return mgl32.Ident4()
}

// LookTo computes a left-handed view matrix looking from eye along dir.
// dir must be unit length and not parallel to up.
func LookTo(eye, dir, up Vec3) Mat4 {
	f := dir.Mul(-1)
	s := Normalize3(f.Cross(up))
	u := s.Cross(f)

	return Mat4{
		s[0], u[0], -f[0], 0,
		s[1], u[1], -f[1], 0,
		s[2], u[2], -f[2], 0,
		-eye.Dot(s), -eye.Dot(u), eye.Dot(f), 1,
	}
}

// Perspective computes a left-handed projection with depth mapped to [0, 1].
// fovy is the vertical field of view in radians.
func Perspective(fovy, aspect, near, far float32) Mat4 {
	sin, cos := math.Sincos(0.5 * float64(fovy))
	h := float32(cos / sin)
	w := h / aspect
	r := far / (far - near)

	return Mat4{
		w, 0, 0, 0,
		0, h, 0, 0,
		0, 0, r, 1,
		0, 0, -r * near, 0,
	}
}

// Columns splits m into its four column vectors.
func Columns(m Mat4) [4]Vec4 {
	var cols [4]Vec4
	for i := range cols {
		cols[i] = m.Col(i)
	}
	return cols
}

// MulVec multiplies m by the column vector v.
func MulVec(m Mat4, v Vec4) Vec4 {
	return m.Mul4x1(v)
}

// Mul returns a*b; applying the result to a vector applies b first.
func Mul(a, b Mat4) Mat4 {
	return a.Mul4(b)
}
