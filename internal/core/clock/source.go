package clock

import (
	"sync"
	"time"
)

// Source reports a monotonic timestamp in nanoseconds since an arbitrary origin.
type Source interface {
	Now() time.Duration
}

// MonotonicSource reads the process monotonic clock.
type MonotonicSource struct {
	origin time.Time
}

func NewMonotonicSource() *MonotonicSource {
	return &MonotonicSource{origin: time.Now()}
}

func (s *MonotonicSource) Now() time.Duration {
	return time.Since(s.origin)
}

// ManualSource is a controllable Source for tests and replays.
type ManualSource struct {
	mu  sync.RWMutex
	now time.Duration
}

func NewManualSource(start time.Duration) *ManualSource {
	return &ManualSource{now: start}
}

func (m *ManualSource) Now() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set moves the clock to t, which may be earlier than the current reading.
func (m *ManualSource) Set(t time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

func (m *ManualSource) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += d
}
