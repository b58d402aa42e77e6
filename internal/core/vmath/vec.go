// Package vmath holds the vector and matrix helpers shared by the simulation
// and the render side. Types are mgl32 aliases, so every mgl32 method
// (Add, Sub, Mul, Dot, Cross, Len, Normalize, Mul4, Mul4x1, ...) is available
// directly. Matrices are 4x4 column-major.
package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type (
	Vec2 = mgl32.Vec2
	Vec3 = mgl32.Vec3
	Vec4 = mgl32.Vec4
	Mat4 = mgl32.Mat4
)

// Pi as float32.
const Pi = float32(math.Pi)

// Epsilon is the tolerance used by the approximate comparisons in this package.
const Epsilon = 1e-5

var (
	Zero3   = Vec3{}
	WorldUp = Vec3{0, 1, 0}
)

// Normalize2 scales a to unit length. a must be non-zero; the result is
// Inf/NaN garbage otherwise.
func Normalize2(a Vec2) Vec2 {
	return a.Mul(1 / a.Len())
}

// Normalize3 scales a to unit length. a must be non-zero; the result is
// Inf/NaN garbage otherwise.
func Normalize3(a Vec3) Vec3 {
	return a.Mul(1 / a.Len())
}

// NormalizeOrZero2 is Normalize2 with the zero vector mapped to itself.
// The length is taken in float64, so every finite non-zero input
// normalizes, including ones whose float32 square would overflow or
// underflow. Vectors with a non-finite component map to zero.
func NormalizeOrZero2(a Vec2) Vec2 {
	x, y := float64(a[0]), float64(a[1])
	l := math.Sqrt(x*x + y*y)
	if l == 0 || math.IsInf(l, 0) || math.IsNaN(l) {
		return Vec2{}
	}
	return Vec2{float32(x / l), float32(y / l)}
}

// NormalizeOrZero3 is the three-component NormalizeOrZero2.
func NormalizeOrZero3(a Vec3) Vec3 {
	x, y, z := float64(a[0]), float64(a[1]), float64(a[2])
	l := math.Sqrt(x*x + y*y + z*z)
	if l == 0 || math.IsInf(l, 0) || math.IsNaN(l) {
		return Vec3{}
	}
	return Vec3{float32(x / l), float32(y / l), float32(z / l)}
}

// Lerp3 returns from + (to-from)*t componentwise. t=0 yields from exactly
// and t=1 yields to exactly.
func Lerp3(from, to Vec3, t float32) Vec3 {
	var out Vec3
	for i := range out {
		out[i] = lerp(from[i], to[i], t)
	}
	return out
}

// Lerp2 is the two-component Lerp3.
func Lerp2(from, to Vec2, t float32) Vec2 {
	return Vec2{lerp(from[0], to[0], t), lerp(from[1], to[1], t)}
}

// Sum3 adds the components of a.
func Sum3(a Vec3) float32 {
	return a[0] + a[1] + a[2]
}

// Splat4 returns a vector with every component set to x.
func Splat4(x float32) Vec4 {
	return Vec4{x, x, x, x}
}

// IsUnit3 reports whether a has length 1 within Epsilon.
func IsUnit3(a Vec3) bool {
	return mgl32.FloatEqualThreshold(a.Len(), 1, Epsilon)
}

func lerp(a, b, t float32) float32 {
	// (b-a)*1 + a can miss b by an ulp.
	if t == 1 {
		return b
	}
	return (b-a)*t + a
}
