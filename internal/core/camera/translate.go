package camera

import (
	"github.com/zeusync/bigtime/internal/core/input"
	"github.com/zeusync/bigtime/internal/core/vmath"
)

var _ Camera = (*Translate)(nil)

// Translate moves along world axes and never turns: x = right, y = up,
// z = forward. Look input is ignored.
type Translate struct {
	cfg       Config
	position  vmath.Vec3
	direction vmath.Vec3
}

// NewTranslate returns a camera at DefaultPosition facing +Z.
func NewTranslate(cfg Config) *Translate {
	return NewTranslateAt(cfg, DefaultPosition, vmath.Vec3{0, 0, 1})
}

// NewTranslateAt places the camera at position facing direction. A zero
// direction falls back to +Z.
func NewTranslateAt(cfg Config, position, direction vmath.Vec3) *Translate {
	dir := vmath.NormalizeOrZero3(direction)
	if dir == vmath.Zero3 {
		dir = vmath.Vec3{0, 0, 1}
	}
	return &Translate{cfg: cfg, position: position, direction: dir}
}

func (c *Translate) Update(in *input.State, dt float32) {
	step := vmath.NormalizeOrZero3(in.MoveIntent()).Mul(c.cfg.MoveSpeed * dt)
	c.position = c.position.Add(step)
}

func (c *Translate) Position() vmath.Vec3 {
	return c.position
}

func (c *Translate) Direction() vmath.Vec3 {
	return c.direction
}
