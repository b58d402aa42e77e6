package render

import "github.com/zeusync/bigtime/internal/core/vmath"

// Projection parameters used by the renderer.
const (
	FieldOfView = vmath.Pi * 0.25
	NearPlane   = float32(0.1)
	FarPlane    = float32(100)
)

// View returns the left-handed view matrix for s.
func View(s Snapshot) vmath.Mat4 {
	return vmath.LookTo(s.Position, s.Direction, vmath.WorldUp)
}

// ViewProjection returns projection * view for s at the given aspect ratio
// (width / height). This is the matrix uploaded to the GPU each frame.
func ViewProjection(s Snapshot, aspect float32) vmath.Mat4 {
	proj := vmath.Perspective(FieldOfView, aspect, NearPlane, FarPlane)
	return vmath.Mul(proj, View(s))
}
