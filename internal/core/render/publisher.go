package render

import (
	"sync"
	"sync/atomic"
)

// Publisher carries snapshots from the simulation goroutine to any number of
// readers. Writers are serialized; readers never block and always observe
// a consistent Info.
type Publisher struct {
	writeMu sync.Mutex
	info    atomic.Pointer[Info]
	version atomic.Uint64
}

// NewPublisher seeds both slots with initial so the first reads interpolate
// between identical snapshots.
func NewPublisher(initial Snapshot) *Publisher {
	p := &Publisher{}
	p.info.Store(&Info{Previous: initial, Current: initial})
	return p
}

// Publish shifts Current into Previous, stores s as Current and sets the
// blend factor.
func (p *Publisher) Publish(s Snapshot, blend float32) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	old := p.info.Load()
	p.info.Store(&Info{
		Previous: old.Current,
		Current:  s,
		Blend:    clampBlend(blend),
	})
	p.version.Add(1)
}

// SetBlend refreshes the blend factor without changing the snapshots.
func (p *Publisher) SetBlend(blend float32) {
	blend = clampBlend(blend)

	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	old := p.info.Load()
	if old.Blend == blend {
		return
	}
	next := *old
	next.Blend = blend
	p.info.Store(&next)
}

// Load returns a copy of the latest Info.
func (p *Publisher) Load() Info {
	return *p.info.Load()
}

// Interpolated is Load().Interpolate().
func (p *Publisher) Interpolated() Snapshot {
	return p.Load().Interpolate()
}

// Version counts Publish calls.
func (p *Publisher) Version() uint64 {
	return p.version.Load()
}

// maxBlend is the largest float32 below 1.
const maxBlend = float32(1 - 1.0/(1<<24))

func clampBlend(b float32) float32 {
	switch {
	case !(b > 0):
		return 0
	case b >= 1:
		return maxBlend
	default:
		return b
	}
}
