package camera

import (
	"math"

	"github.com/zeusync/bigtime/internal/core/input"
	"github.com/zeusync/bigtime/internal/core/vmath"
)

const twoPi = 2 * math.Pi

var _ Camera = (*FirstPerson)(nil)

// FirstPerson is a yaw/pitch fly camera. Yaw is kept in [0, 2pi) and pitch
// is clamped to [-(pi/2 - margin), pi/2 - margin]. Yaw 0 faces -Z; yaw pi
// faces +Z.
type FirstPerson struct {
	cfg Config

	position  vmath.Vec3
	direction vmath.Vec3
	yaw       float64
	pitch     float64
}

// NewFirstPerson returns a camera at DefaultPosition facing +Z.
func NewFirstPerson(cfg Config) *FirstPerson {
	return NewFirstPersonAt(cfg, DefaultPosition, math.Pi, 0)
}

func NewFirstPersonAt(cfg Config, position vmath.Vec3, yaw, pitch float64) *FirstPerson {
	c := &FirstPerson{cfg: cfg, position: position}
	c.SetOrientation(yaw, pitch)
	return c
}

// SetOrientation replaces yaw and pitch, applying the wrap and clamp rules.
// A non-finite angle leaves the current value in place.
func (c *FirstPerson) SetOrientation(yaw, pitch float64) {
	if isFinite(yaw) {
		c.yaw = wrapAngle(yaw)
	}
	if isFinite(pitch) {
		c.pitch = c.clampPitch(pitch)
	}
	c.direction = directionOf(c.yaw, c.pitch)
}

func (c *FirstPerson) Update(in *input.State, dt float32) {
	look := in.LookIntent()
	motion := in.Motion()
	turn := float64(c.cfg.TurnSpeed) * float64(dt)
	sens := float64(c.cfg.PointerSensitivity)

	// Positive yaw turns left, so right-look and rightward motion subtract.
	yaw := c.yaw - float64(look[0])*turn - float64(motion[0])*sens
	pitch := c.pitch + float64(look[1])*turn - float64(motion[1])*sens
	c.SetOrientation(yaw, pitch)

	intent := vmath.NormalizeOrZero3(in.MoveIntent()).Mul(c.cfg.MoveSpeed * dt)
	if intent == vmath.Zero3 {
		return
	}
	right := vmath.Normalize3(vmath.WorldUp.Cross(c.direction))
	c.position = c.position.
		Add(right.Mul(intent[0])).
		Add(vmath.WorldUp.Mul(intent[1])).
		Add(c.direction.Mul(intent[2]))
}

func (c *FirstPerson) Position() vmath.Vec3 {
	return c.position
}

func (c *FirstPerson) Direction() vmath.Vec3 {
	return c.direction
}

// Right is the unit vector to the camera's right, perpendicular to world up.
func (c *FirstPerson) Right() vmath.Vec3 {
	return vmath.Normalize3(vmath.WorldUp.Cross(c.direction))
}

func (c *FirstPerson) Yaw() float64 {
	return c.yaw
}

func (c *FirstPerson) Pitch() float64 {
	return c.pitch
}

// MaxPitch is the largest pitch magnitude the camera will reach.
func (c *FirstPerson) MaxPitch() float64 {
	return math.Pi/2 - float64(c.cfg.PitchMargin)
}

func (c *FirstPerson) clampPitch(p float64) float64 {
	limit := c.MaxPitch()
	return math.Max(-limit, math.Min(limit, p))
}

// wrapAngle maps a into [0, 2pi) with a modulo that stays non-negative.
func wrapAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		a = 0
	}
	return a
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func directionOf(yaw, pitch float64) vmath.Vec3 {
	sy, cy := math.Sincos(yaw)
	sp, cp := math.Sincos(pitch)
	return vmath.Normalize3(vmath.Vec3{
		float32(cp * sy),
		float32(sp),
		float32(-cp * cy),
	})
}
