package input

import (
	"math"

	"github.com/zeusync/bigtime/internal/core/vmath"
)

// State is the simulation's view of input: which keys are held and how far
// the pointer moved during the current tick. Held flags are level-triggered;
// motion accumulates until EndTick.
type State struct {
	held   [keyCount]bool
	motion [2]float64
}

// Apply folds a single event into the state.
func (s *State) Apply(e Event) {
	switch ev := e.(type) {
	case KeyEvent:
		if ev.Key.Valid() {
			s.held[ev.Key] = ev.Down
		}
	case PointerMotionEvent:
		for i, d := range ev.Delta {
			if f := float64(d); !math.IsNaN(f) && !math.IsInf(f, 0) {
				s.motion[i] += f
			}
		}
	case nil:
	default:
		panic("input: unhandled event type")
	}
}

// Fold applies events in order.
func (s *State) Fold(events []Event) {
	for _, e := range events {
		s.Apply(e)
	}
}

// EndTick clears the per-tick pointer motion. Held keys persist.
func (s *State) EndTick() {
	s.motion = [2]float64{}
}

// Reset releases every key and clears motion.
func (s *State) Reset() {
	*s = State{}
}

func (s *State) Held(k Key) bool {
	return k.Valid() && s.held[k]
}

// Motion is the pointer delta accumulated during the current tick.
// Non-finite deltas are ignored and each component saturates at the
// float32 range, so the result is always finite.
func (s *State) Motion() vmath.Vec2 {
	return vmath.Vec2{saturate(s.motion[0]), saturate(s.motion[1])}
}

// MoveIntent returns the raw movement intent in camera-local axes:
// x = right, y = up, z = forward, each component in {-1, 0, 1}.
func (s *State) MoveIntent() vmath.Vec3 {
	return vmath.Vec3{
		axis(s.held[KeyD], s.held[KeyA]),
		axis(s.held[KeySpace], s.held[KeyShift]),
		axis(s.held[KeyW], s.held[KeyS]),
	}
}

// LookIntent returns the held look direction: x = right, y = up.
func (s *State) LookIntent() vmath.Vec2 {
	return vmath.Vec2{
		axis(s.held[KeyLookRight], s.held[KeyLookLeft]),
		axis(s.held[KeyLookUp], s.held[KeyLookDown]),
	}
}

func axis(pos, neg bool) float32 {
	var v float32
	if pos {
		v++
	}
	if neg {
		v--
	}
	return v
}

func saturate(f float64) float32 {
	return float32(math.Max(-math.MaxFloat32, math.Min(math.MaxFloat32, f)))
}
