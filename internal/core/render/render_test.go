package render

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/bigtime/internal/core/vmath"
)

func snap(tick uint64, pos, dir vmath.Vec3) Snapshot {
	return Snapshot{Position: pos, Direction: dir, Tick: tick, Time: time.Duration(tick) * 10 * time.Millisecond}
}

func TestInterpolate(t *testing.T) {
	p := snap(1, vmath.Vec3{1, 2, 3}, vmath.Vec3{0, 0, 1})
	c := snap(2, vmath.Vec3{3, -2, 4}, vmath.Vec3{1, 0, 0})

	t.Run("endpoints are exact", func(t *testing.T) {
		require.Equal(t, p.Position, Interpolate(p, c, 0).Position)
		require.Equal(t, p.Direction, Interpolate(p, c, 0).Direction)
		require.Equal(t, c.Position, Interpolate(p, c, 1).Position)
		require.Equal(t, c.Direction, Interpolate(p, c, 1).Direction)
	})

	t.Run("position is componentwise lerp", func(t *testing.T) {
		for _, b := range []float32{0.1, 0.25, 0.5, 0.9} {
			got := Interpolate(p, c, b).Position
			for i := range got {
				require.InDelta(t, p.Position[i]+(c.Position[i]-p.Position[i])*b, got[i], 1e-6)
			}
		}
	})

	t.Run("direction is renormalized", func(t *testing.T) {
		mid := Interpolate(p, c, 0.5)
		require.True(t, vmath.IsUnit3(mid.Direction), "%v", mid.Direction)
		require.InDelta(t, mid.Direction[0], mid.Direction[2], 1e-6)
	})

	t.Run("opposite directions fall back to current", func(t *testing.T) {
		a := snap(1, vmath.Vec3{}, vmath.Vec3{0, 0, 1})
		b := snap(2, vmath.Vec3{}, vmath.Vec3{0, 0, -1})
		require.Equal(t, b.Direction, Interpolate(a, b, 0.5).Direction)
	})

	t.Run("time is interpolated", func(t *testing.T) {
		require.Equal(t, 15*time.Millisecond, Interpolate(p, c, 0.5).Time)
	})
}

func TestPublisher(t *testing.T) {
	initial := snap(0, vmath.Vec3{0, 0, -2}, vmath.Vec3{0, 0, 1})
	pub := NewPublisher(initial)

	info := pub.Load()
	require.Equal(t, initial, info.Previous)
	require.Equal(t, initial, info.Current)
	require.Zero(t, info.Blend)
	require.Equal(t, initial.Position, pub.Interpolated().Position)

	s1 := snap(1, vmath.Vec3{0, 0, -1.98}, vmath.Vec3{0, 0, 1})
	pub.Publish(s1, 0.25)
	info = pub.Load()
	require.Equal(t, initial, info.Previous)
	require.Equal(t, s1, info.Current)
	require.Equal(t, float32(0.25), info.Blend)

	s2 := snap(2, vmath.Vec3{0, 0, -1.96}, vmath.Vec3{0, 0, 1})
	pub.Publish(s2, 0.5)
	info = pub.Load()
	require.Equal(t, s1, info.Previous)
	require.Equal(t, s2, info.Current)
	require.Equal(t, uint64(2), pub.Version())

	pub.SetBlend(0.75)
	info = pub.Load()
	require.Equal(t, float32(0.75), info.Blend)
	require.Equal(t, s2, info.Current, "SetBlend keeps the snapshots")
	require.Equal(t, uint64(2), pub.Version())
}

func TestPublisherBlendRange(t *testing.T) {
	pub := NewPublisher(Snapshot{})
	for _, b := range []float32{-1, 0, 1, 1.5, 42} {
		pub.Publish(Snapshot{}, b)
		blend := pub.Load().Blend
		require.GreaterOrEqual(t, blend, float32(0))
		require.Less(t, blend, float32(1))
	}
}

func TestPublisherConcurrentReaders(t *testing.T) {
	pub := NewPublisher(Snapshot{})
	const ticks = 2000

	var wg sync.WaitGroup
	torn := make([]int, 4)
	for r := range torn {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			for {
				info := pub.Load()
				// Every publish keeps Previous exactly one tick behind Current
				// and encodes the tick index in the position.
				if info.Current.Tick > 0 && info.Previous.Tick+1 != info.Current.Tick {
					torn[r]++
				}
				if info.Current.Position[0] != float32(info.Current.Tick) {
					torn[r]++
				}
				if info.Current.Tick == ticks {
					return
				}
			}
		}(r)
	}

	for i := uint64(1); i <= ticks; i++ {
		pub.Publish(Snapshot{Position: vmath.Vec3{float32(i), 0, 0}, Tick: i}, 0.5)
	}
	wg.Wait()
	require.Equal(t, []int{0, 0, 0, 0}, torn)
}

func TestDigest(t *testing.T) {
	a := snap(3, vmath.Vec3{1, 2, 3}, vmath.Vec3{0, 0, 1})
	b := a
	require.Equal(t, a.Digest(), b.Digest())

	b.Position[1] = 2.0000002
	require.NotEqual(t, a.Digest(), b.Digest())

	c := a
	c.Tick++
	require.NotEqual(t, a.Digest(), c.Digest())

	d := a
	d.Time = time.Hour
	require.Equal(t, a.Digest(), d.Digest(), "digest ignores wall-derived time")
}

func TestViewProjection(t *testing.T) {
	s := snap(0, vmath.Vec3{0, 0, -2}, vmath.Vec3{0, 0, 1})
	vp := ViewProjection(s, 1)

	// The world origin is straight ahead, 2 units away: centre of the screen.
	clip := vp.Mul4x1(vmath.Vec4{0, 0, 0, 1})
	require.InDelta(t, 0, clip[0]/clip[3], 1e-6)
	require.InDelta(t, 0, clip[1]/clip[3], 1e-6)
	depth := clip[2] / clip[3]
	require.Greater(t, depth, float32(0))
	require.Less(t, depth, float32(1))

	// Behind the camera ends up with negative w.
	behind := vp.Mul4x1(vmath.Vec4{0, 0, -5, 1})
	require.Less(t, behind[3], float32(0))

	require.Equal(t, vmath.Mul(vmath.Perspective(FieldOfView, 1, NearPlane, FarPlane), View(s)), vp)
}
