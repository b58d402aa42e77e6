// Package camera advances camera state once per simulation tick from the
// folded input state.
package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/zeusync/bigtime/internal/core/input"
	"github.com/zeusync/bigtime/internal/core/vmath"
)

// Camera is a continuous-valued state machine stepped once per tick.
type Camera interface {
	// Update advances the camera by one tick of dt seconds.
	Update(in *input.State, dt float32)
	Position() vmath.Vec3
	// Direction is the unit-length facing vector.
	Direction() vmath.Vec3
}

var ErrInvalidConfig = errors.New("invalid camera configuration")

const (
	DefaultMoveSpeed          = 2.0
	DefaultTurnSpeed          = math.Pi / 2
	DefaultPointerSensitivity = 0.0025
	DefaultPitchMargin        = 0.01
)

// Config holds the per-tick displacement constants.
type Config struct {
	// MoveSpeed is in world units per second.
	MoveSpeed float32
	// TurnSpeed is in radians per second while a look key is held.
	TurnSpeed float32
	// PointerSensitivity is in radians per pointer unit.
	PointerSensitivity float32
	// PitchMargin keeps pitch strictly inside (-pi/2, pi/2).
	PitchMargin float32
}

func DefaultConfig() Config {
	return Config{
		MoveSpeed:          DefaultMoveSpeed,
		TurnSpeed:          DefaultTurnSpeed,
		PointerSensitivity: DefaultPointerSensitivity,
		PitchMargin:        DefaultPitchMargin,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.MoveSpeed < 0 || isBad(c.MoveSpeed) {
		errs = append(errs, fmt.Errorf("move speed %v must be a non-negative number", c.MoveSpeed))
	}
	if c.TurnSpeed < 0 || isBad(c.TurnSpeed) {
		errs = append(errs, fmt.Errorf("turn speed %v must be a non-negative number", c.TurnSpeed))
	}
	if c.PointerSensitivity < 0 || isBad(c.PointerSensitivity) {
		errs = append(errs, fmt.Errorf("pointer sensitivity %v must be a non-negative number", c.PointerSensitivity))
	}
	if !(c.PitchMargin > 0 && c.PitchMargin < math.Pi/2) {
		errs = append(errs, fmt.Errorf("pitch margin %v must be in (0, pi/2)", c.PitchMargin))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// DefaultPosition is where cameras start unless told otherwise.
var DefaultPosition = vmath.Vec3{0, 0, -2}

func isBad(f float32) bool {
	return math.IsNaN(float64(f)) || math.IsInf(float64(f), 0)
}
