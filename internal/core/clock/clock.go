// Package clock turns wall-clock deltas into a whole number of fixed-size
// simulation ticks.
//
// A loop iteration looks like:
//
//	c.StartLoop()
//	for c.ShouldTick() {
//		step()
//		c.ConsumeTick()
//	}
//	c.EndLoop()
//
// The accumulator carries leftover time between iterations, so no time is
// lost and Alpha reports how far the loop is into the next tick.
package clock

import (
	"errors"
	"time"
)

var ErrInvalidTickRate = errors.New("tick rate must be positive")

// Clock is owned by a single goroutine and is not safe for concurrent use.
type Clock struct {
	source       Source
	tickDuration time.Duration

	lastTime    time.Duration
	currentTime time.Duration
	accumulator time.Duration

	ticks       uint64
	regressions uint64
}

// New creates a Clock ticking tickRate times per second. Its reference time
// is the current reading of source.
func New(tickRate int, source Source) (*Clock, error) {
	if tickRate <= 0 {
		return nil, ErrInvalidTickRate
	}
	return NewWithDuration(time.Second/time.Duration(tickRate), source)
}

// NewWithDuration creates a Clock with an explicit tick duration.
func NewWithDuration(tick time.Duration, source Source) (*Clock, error) {
	if tick <= 0 {
		return nil, ErrInvalidTickRate
	}
	if source == nil {
		source = NewMonotonicSource()
	}
	now := source.Now()
	return &Clock{
		source:       source,
		tickDuration: tick,
		lastTime:     now,
		currentTime:  now,
	}, nil
}

// StartLoop reads the source and adds the time elapsed since the previous
// EndLoop to the accumulator. A reading earlier than the reference adds nothing.
func (c *Clock) StartLoop() {
	c.currentTime = c.source.Now()
	delta := c.currentTime - c.lastTime
	if delta < 0 {
		c.regressions++
		return
	}
	c.accumulator += delta
}

// ShouldTick reports whether at least one full tick is pending.
func (c *Clock) ShouldTick() bool {
	return c.accumulator >= c.tickDuration
}

// ConsumeTick removes exactly one tick from the accumulator.
func (c *Clock) ConsumeTick() {
	c.accumulator -= c.tickDuration
	c.ticks++
}

// EndLoop makes the time read by StartLoop the reference for the next delta.
func (c *Clock) EndLoop() {
	c.lastTime = c.currentTime
}

// Reset drops pending time and makes the current reading the reference.
func (c *Clock) Reset() {
	now := c.source.Now()
	c.lastTime = now
	c.currentTime = now
	c.accumulator = 0
}

func (c *Clock) Accumulator() time.Duration {
	return c.accumulator
}

func (c *Clock) TickDuration() time.Duration {
	return c.tickDuration
}

// DeltaSeconds is the tick duration in seconds, the dt handed to simulation steps.
func (c *Clock) DeltaSeconds() float32 {
	return float32(c.tickDuration.Seconds())
}

// Alpha is accumulator / tick duration, in [0, 1) once pending ticks are consumed.
func (c *Clock) Alpha() float32 {
	return float32(float64(c.accumulator) / float64(c.tickDuration))
}

// Ticks is the number of ticks consumed so far.
func (c *Clock) Ticks() uint64 {
	return c.ticks
}

// Elapsed is the simulated time covered by consumed ticks.
func (c *Clock) Elapsed() time.Duration {
	return time.Duration(c.ticks) * c.tickDuration
}

// Regressions counts StartLoop calls that observed the source going backwards.
func (c *Clock) Regressions() uint64 {
	return c.regressions
}
