package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/bigtime/internal/core/input"
	"github.com/zeusync/bigtime/internal/core/vmath"
)

const dt = float32(0.01)

func held(keys ...input.Key) *input.State {
	var s input.State
	for _, k := range keys {
		s.Apply(input.KeyDown(k))
	}
	return &s
}

func TestFirstPersonDefaults(t *testing.T) {
	c := NewFirstPerson(DefaultConfig())
	require.Equal(t, DefaultPosition, c.Position())
	require.InDelta(t, math.Pi, c.Yaw(), 1e-12)
	require.Zero(t, c.Pitch())
	require.True(t, c.Direction().ApproxEqualThreshold(vmath.Vec3{0, 0, 1}, 1e-6))
	require.True(t, c.Right().ApproxEqualThreshold(vmath.Vec3{1, 0, 0}, 1e-6))
}

func TestFirstPersonMovement(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("forward moves along facing", func(t *testing.T) {
		c := NewFirstPerson(cfg)
		start := c.Position()
		c.Update(held(input.KeyW), dt)
		require.InDelta(t, start[2]+cfg.MoveSpeed*dt, c.Position()[2], 1e-6)
		require.InDelta(t, start[0], c.Position()[0], 1e-6)
	})

	t.Run("diagonal is not faster", func(t *testing.T) {
		c := NewFirstPerson(cfg)
		start := c.Position()
		c.Update(held(input.KeyW, input.KeyD), dt)
		require.InDelta(t, cfg.MoveSpeed*dt, c.Position().Sub(start).Len(), 1e-6)
	})

	t.Run("opposing keys cancel without NaN", func(t *testing.T) {
		c := NewFirstPerson(cfg)
		start := c.Position()
		c.Update(held(input.KeyW, input.KeyS, input.KeyA, input.KeyD), dt)
		require.Equal(t, start, c.Position())
	})

	t.Run("movement follows yaw", func(t *testing.T) {
		// Yaw 0 faces -Z, so forward decreases z and right is -X.
		c := NewFirstPersonAt(cfg, vmath.Vec3{}, 0, 0)
		c.Update(held(input.KeyW), dt)
		require.InDelta(t, -cfg.MoveSpeed*dt, c.Position()[2], 1e-6)

		c = NewFirstPersonAt(cfg, vmath.Vec3{}, 0, 0)
		c.Update(held(input.KeyD), dt)
		require.InDelta(t, -cfg.MoveSpeed*dt, c.Position()[0], 1e-6)
	})

	t.Run("rise and sink use world up", func(t *testing.T) {
		c := NewFirstPersonAt(cfg, vmath.Vec3{}, math.Pi, 0.5)
		c.Update(held(input.KeySpace), dt)
		require.True(t, c.Position().ApproxEqualThreshold(vmath.Vec3{0, cfg.MoveSpeed * dt, 0}, 1e-6))
	})
}

func TestFirstPersonPitchClamp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TurnSpeed = 10

	up := NewFirstPerson(cfg)
	down := NewFirstPerson(cfg)
	for i := 0; i < 1000; i++ {
		up.Update(held(input.KeyLookUp), dt)
		require.LessOrEqual(t, up.Pitch(), math.Pi/2-float64(cfg.PitchMargin))
		require.True(t, vmath.IsUnit3(up.Direction()))

		down.Update(held(input.KeyLookDown), dt)
		require.GreaterOrEqual(t, down.Pitch(), -(math.Pi/2 - float64(cfg.PitchMargin)))
		require.True(t, vmath.IsUnit3(down.Direction()))
	}
	require.Equal(t, up.MaxPitch(), up.Pitch())

	// Further input at the boundary is absorbed.
	dir := up.Direction()
	up.Update(held(input.KeyLookUp), dt)
	require.Equal(t, dir, up.Direction())

	// Pointer motion upwards (negative y) clamps the same way.
	var s input.State
	s.Apply(input.PointerMotion(0, -1e6))
	c := NewFirstPerson(cfg)
	c.Update(&s, dt)
	require.Equal(t, c.MaxPitch(), c.Pitch())
}

func TestFirstPersonYawWrap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TurnSpeed = 7.3

	for _, key := range []input.Key{input.KeyLookLeft, input.KeyLookRight} {
		c := NewFirstPerson(cfg)
		for i := 0; i < 5000; i++ {
			c.Update(held(key), dt)
			require.GreaterOrEqual(t, c.Yaw(), 0.0)
			require.Less(t, c.Yaw(), 2*math.Pi)
			require.True(t, vmath.IsUnit3(c.Direction()))
		}
	}

	require.Equal(t, 0.0, wrapAngle(-2*math.Pi))
	require.InDelta(t, 2*math.Pi-0.5, wrapAngle(-0.5), 1e-12)
	require.InDelta(t, 0.5, wrapAngle(4*math.Pi+0.5), 1e-12)
	w := wrapAngle(-1e-18)
	require.True(t, w >= 0 && w < 2*math.Pi, "%v", w)
}

func TestFirstPersonHugePointerMotion(t *testing.T) {
	cfg := DefaultConfig()
	c := NewFirstPerson(cfg)

	var s input.State
	s.Apply(input.PointerMotion(3e38, 3e38))
	s.Apply(input.PointerMotion(3e38, 3e38))
	s.Apply(input.PointerMotion(float32(math.Inf(-1)), float32(math.NaN())))
	c.Update(&s, dt)

	require.False(t, math.IsNaN(c.Yaw()))
	require.GreaterOrEqual(t, c.Yaw(), 0.0)
	require.Less(t, c.Yaw(), 2*math.Pi)
	require.Equal(t, -c.MaxPitch(), c.Pitch())
	require.True(t, vmath.IsUnit3(c.Direction()), "%v", c.Direction())

	s.EndTick()
	for i := 0; i < 10; i++ {
		c.Update(held(input.KeyW, input.KeyLookRight), dt)
		require.True(t, vmath.IsUnit3(c.Direction()), "%v", c.Direction())
	}
}

func TestFirstPersonIgnoresNonFiniteOrientation(t *testing.T) {
	c := NewFirstPersonAt(DefaultConfig(), vmath.Vec3{}, 1, 0.5)
	c.SetOrientation(math.NaN(), math.Inf(1))
	require.Equal(t, 1.0, c.Yaw())
	require.Equal(t, 0.5, c.Pitch())
	require.True(t, vmath.IsUnit3(c.Direction()))

	c.SetOrientation(math.Inf(-1), 0.25)
	require.Equal(t, 1.0, c.Yaw())
	require.Equal(t, 0.25, c.Pitch())
}

func TestFirstPersonTurnDirection(t *testing.T) {
	cfg := DefaultConfig()

	c := NewFirstPerson(cfg)
	right := c.Right()
	c.Update(held(input.KeyLookRight), dt)
	require.Greater(t, c.Direction().Dot(right), float32(0), "right-look turns toward the right axis")

	c = NewFirstPerson(cfg)
	var s input.State
	s.Apply(input.PointerMotion(10, 0))
	c.Update(&s, dt)
	require.Greater(t, c.Direction().Dot(right), float32(0), "rightward pointer motion turns right")

	c = NewFirstPerson(cfg)
	s = input.State{}
	s.Apply(input.PointerMotion(0, 10))
	c.Update(&s, dt)
	require.Less(t, c.Direction()[1], float32(0), "downward pointer motion looks down")
}

func TestTranslate(t *testing.T) {
	cfg := DefaultConfig()
	c := NewTranslate(cfg)

	c.Update(held(input.KeyW, input.KeyLookUp), dt)
	require.InDelta(t, DefaultPosition[2]+cfg.MoveSpeed*dt, c.Position()[2], 1e-6)
	require.Equal(t, vmath.Vec3{0, 0, 1}, c.Direction())

	before := c.Position()
	c.Update(&input.State{}, dt)
	require.Equal(t, before, c.Position())

	require.Equal(t, vmath.Vec3{0, 0, 1}, NewTranslateAt(cfg, vmath.Vec3{}, vmath.Vec3{}).Direction())
	require.Equal(t, vmath.Vec3{1, 0, 0}, NewTranslateAt(cfg, vmath.Vec3{}, vmath.Vec3{5, 0, 0}).Direction())
	require.Equal(t, vmath.Vec3{1, 0, 0}, NewTranslateAt(cfg, vmath.Vec3{}, vmath.Vec3{1e20, 0, 0}).Direction())
	require.Equal(t, vmath.Vec3{0, -1, 0}, NewTranslateAt(cfg, vmath.Vec3{}, vmath.Vec3{0, -1e-23, 0}).Direction())
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.MoveSpeed = -1
	bad.PitchMargin = 0
	err := bad.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	require.Contains(t, err.Error(), "move speed")
	require.Contains(t, err.Error(), "pitch margin")

	bad = DefaultConfig()
	bad.TurnSpeed = float32(math.NaN())
	require.ErrorIs(t, bad.Validate(), ErrInvalidConfig)
}
