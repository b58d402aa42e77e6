// Package sim runs the fixed-timestep simulation loop.
//
// A Simulation exclusively owns its clock, input state and camera. The only
// state it shares with other goroutines is the input queue it drains and the
// render publisher it writes to.
package sim

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/bigtime/internal/core/camera"
	"github.com/zeusync/bigtime/internal/core/clock"
	"github.com/zeusync/bigtime/internal/core/events/bus"
	"github.com/zeusync/bigtime/internal/core/input"
	"github.com/zeusync/bigtime/internal/core/observability/log"
	"github.com/zeusync/bigtime/internal/core/render"
)

type Option func(*Simulation)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l log.Log) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithBus publishes lifecycle events on b.
func WithBus(b bus.EventBus) Option {
	return func(s *Simulation) { s.bus = b }
}

// WithSource replaces the monotonic time source, mostly for tests.
func WithSource(src clock.Source) Option {
	return func(s *Simulation) { s.source = src }
}

type Simulation struct {
	cfg    Config
	logger log.Log
	bus    bus.EventBus
	source clock.Source

	clock     *clock.Clock
	queue     *input.Queue
	publisher *render.Publisher
	camera    camera.Camera
	state     input.State
	buf       []input.Event
	tps       *clock.RateCounter

	runID           string
	reportedDropped uint64
	reportedRegress uint64

	ticks   atomic.Uint64
	running atomic.Bool

	// lifecycle serializes Start and Stop and guards cancel and done; mu guards runID.
	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	mu        sync.Mutex
}

func New(cfg Config, queue *input.Queue, publisher *render.Publisher, cam camera.Camera, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if queue == nil || publisher == nil || cam == nil {
		return nil, fmt.Errorf("%w: queue, publisher and camera are required", ErrInvalidConfig)
	}

	s := &Simulation{
		cfg:       cfg,
		queue:     queue,
		publisher: publisher,
		camera:    cam,
		buf:       queue.NewBuffer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewNop()
	}
	if s.source == nil {
		s.source = clock.NewMonotonicSource()
	}

	c, err := clock.New(cfg.TickRate, s.source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	s.clock = c
	s.tps = clock.NewRateCounter(s.source)
	s.logger = s.logger.With(log.String("component", "sim"))

	return s, nil
}

func (s *Simulation) snapshot() render.Snapshot {
	return render.Snapshot{
		Position:  s.camera.Position(),
		Direction: s.camera.Direction(),
		Tick:      s.clock.Ticks(),
		Time:      s.clock.Elapsed(),
	}
}

// Start launches the loop goroutine. The loop ends when Stop is called or
// ctx is done; Stop must be called in both cases to release it.
func (s *Simulation) Start(ctx context.Context) error {
	s.lifecycle.Lock()
	if s.done != nil {
		s.lifecycle.Unlock()
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	runID, done := uuid.NewString(), s.done
	s.mu.Lock()
	s.runID = runID
	s.mu.Unlock()
	s.clock.Reset()
	s.running.Store(true)
	s.lifecycle.Unlock()

	s.logger.Info("simulation started",
		log.String("run_id", runID),
		log.Int("tick_rate", s.cfg.TickRate),
		log.Duration("tick", s.clock.TickDuration()),
	)
	s.emit(EventStarted, StartedData{RunID: runID, TickRate: s.cfg.TickRate})

	go s.loop(ctx, done)
	return nil
}

// Stop clears the running flag and waits for the loop to exit. It must not
// be called from a bus handler.
func (s *Simulation) Stop() error {
	s.lifecycle.Lock()
	if s.done == nil {
		s.lifecycle.Unlock()
		return ErrNotRunning
	}

	s.running.Store(false)
	s.cancel()
	<-s.done
	s.done = nil
	s.cancel = nil
	s.lifecycle.Unlock()

	runID := s.RunID()

	ticks := s.ticks.Load()
	s.logger.Info("simulation stopped", log.String("run_id", runID), log.Uint64("ticks", ticks))
	s.emit(EventStopped, StoppedData{RunID: runID, Ticks: ticks})
	return nil
}

// Running reports whether the loop goroutine is alive.
func (s *Simulation) Running() bool {
	return s.running.Load()
}

// Ticks is the number of ticks consumed so far. Safe to call from any goroutine.
func (s *Simulation) Ticks() uint64 {
	return s.ticks.Load()
}

// RunID identifies the current or most recent run.
func (s *Simulation) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// Step runs one loop iteration: every pending tick, then a blend refresh.
// It returns the number of ticks consumed. Step must not be called while
// the loop goroutine is running.
func (s *Simulation) Step() int {
	s.clock.StartLoop()

	n := 0
	for s.clock.ShouldTick() {
		s.tick()
		n++
	}
	s.publisher.SetBlend(s.clock.Alpha())
	s.clock.EndLoop()

	s.report(n)
	return n
}

func (s *Simulation) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer s.running.Store(false)

	for s.running.Load() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if s.Step() > 0 {
			continue
		}
		if s.cfg.IdleSleep > 0 {
			time.Sleep(s.cfg.IdleSleep)
		} else {
			runtime.Gosched()
		}
	}
}

func (s *Simulation) tick() {
	n := s.queue.Drain(s.buf)
	s.state.Fold(s.buf[:n])
	clear(s.buf[:n])

	s.camera.Update(&s.state, s.clock.DeltaSeconds())
	s.state.EndTick()
	s.clock.ConsumeTick()

	s.publisher.Publish(s.snapshot(), s.clock.Alpha())
	s.ticks.Store(s.clock.Ticks())

	if rate, ok := s.tps.Increment(); ok {
		s.logger.Debug("tick rate", log.Uint64("tps", rate))
	}
}

func (s *Simulation) report(ticks int) {
	if s.cfg.MaxTicksPerLoop > 0 && ticks > s.cfg.MaxTicksPerLoop {
		s.logger.Warn("simulation catching up", log.Int("ticks", ticks), log.Int("threshold", s.cfg.MaxTicksPerLoop))
		s.emit(EventCatchUp, CatchUpData{Ticks: ticks})
	}

	if dropped := s.queue.Dropped(); dropped > s.reportedDropped {
		count := dropped - s.reportedDropped
		s.reportedDropped = dropped
		s.logger.Debug("input events dropped", log.Uint64("count", count), log.Uint64("total", dropped))
		s.emit(EventInputDropped, DroppedData{Count: count, Total: dropped})
	}

	if r := s.clock.Regressions(); r > s.reportedRegress {
		s.reportedRegress = r
		s.logger.Warn("clock went backwards", log.Uint64("total", r))
		s.emit(EventClockRegression, RegressionData{Total: r})
	}
}

func (s *Simulation) emit(typ string, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(bus.NewEvent(typ, eventSource, data)); err != nil {
		s.logger.Warn("event handler failed", log.String("event", typ), log.Error(err))
	}
}
