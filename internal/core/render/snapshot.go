package render

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/bigtime/internal/core/vmath"
)

// Snapshot is the camera state the simulation hands to the render side.
// It is a value type and is never mutated after publication.
type Snapshot struct {
	Position  vmath.Vec3
	Direction vmath.Vec3
	// Tick is the index of the tick that produced the snapshot.
	Tick uint64
	// Time is the simulated time at the end of that tick.
	Time time.Duration
}

// Digest fingerprints the snapshot bit-for-bit. Two simulations fed the same
// input at the same tick rate produce the same digest sequence.
func (s Snapshot) Digest() uint64 {
	var buf [6*4 + 8]byte
	off := 0
	for _, v := range [2]vmath.Vec3{s.Position, s.Direction} {
		for _, f := range v {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
			off += 4
		}
	}
	binary.LittleEndian.PutUint64(buf[off:], s.Tick)
	return xxhash.Sum64(buf[:])
}

// Info is the atomic unit read by the render side: the two most recent
// snapshots and how far the simulation is past Current.
type Info struct {
	Previous Snapshot
	Current  Snapshot
	// Blend is in [0, 1).
	Blend float32
}

// Interpolate blends Previous toward Current by Blend. Positions are lerped;
// directions are lerped and renormalized.
func (i Info) Interpolate() Snapshot {
	return Interpolate(i.Previous, i.Current, i.Blend)
}

// Interpolate returns prev + (cur-prev)*t per field. t=0 reproduces prev
// and t=1 reproduces cur.
func Interpolate(prev, cur Snapshot, t float32) Snapshot {
	dir := vmath.NormalizeOrZero3(vmath.Lerp3(prev.Direction, cur.Direction, t))
	if dir == vmath.Zero3 {
		// Opposite directions cancel at the midpoint.
		dir = cur.Direction
	}
	out := Snapshot{
		Position:  vmath.Lerp3(prev.Position, cur.Position, t),
		Direction: dir,
		Tick:      cur.Tick,
		Time:      prev.Time + time.Duration(float64(cur.Time-prev.Time)*float64(t)),
	}
	if t == 0 {
		out.Direction = prev.Direction
		out.Tick = prev.Tick
	} else if t == 1 {
		out.Direction = cur.Direction
	}
	return out
}
