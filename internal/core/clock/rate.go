package clock

import "time"

// RateCounter counts events and reports the total once per elapsed second.
type RateCounter struct {
	source     Source
	lastReport time.Duration
	count      uint64
}

func NewRateCounter(source Source) *RateCounter {
	if source == nil {
		source = NewMonotonicSource()
	}
	return &RateCounter{source: source, lastReport: source.Now()}
}

// Increment records one event. When a second or more has passed since the
// last report it returns the count for that window and true.
func (r *RateCounter) Increment() (uint64, bool) {
	r.count++
	now := r.source.Now()
	if now-r.lastReport < time.Second {
		return 0, false
	}
	n := r.count
	r.count = 0
	r.lastReport = now
	return n, true
}
