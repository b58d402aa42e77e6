// Package engine wires the input queue, simulation, render publisher and
// remote bridge together and runs them until the context is cancelled.
package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/bigtime/internal/config"
	"github.com/zeusync/bigtime/internal/core/camera"
	"github.com/zeusync/bigtime/internal/core/clock"
	"github.com/zeusync/bigtime/internal/core/events/bus"
	"github.com/zeusync/bigtime/internal/core/input"
	"github.com/zeusync/bigtime/internal/core/observability/log"
	"github.com/zeusync/bigtime/internal/core/render"
	"github.com/zeusync/bigtime/internal/core/sim"
	"github.com/zeusync/bigtime/internal/core/vmath"
	"github.com/zeusync/bigtime/internal/remote"
)

// Aspect is the aspect ratio used by the headless render loop.
const Aspect = float32(16) / 9

const shutdownTimeout = 5 * time.Second

type Engine struct {
	cfg    config.Config
	logger log.Log
	bus    bus.EventBus

	queue     *input.Queue
	publisher *render.Publisher
	sim       *sim.Simulation
	remote    *remote.Server

	running atomic.Bool
	frames  atomic.Uint64
	view    atomic.Pointer[vmath.Mat4]
}

func New(cfg config.Config, logger log.Log) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNop()
	}

	queue, err := input.NewQueue(cfg.QueueCapacity)
	if err != nil {
		return nil, fmt.Errorf("create input queue: %w", err)
	}

	cam := newCamera(cfg)
	publisher := render.NewPublisher(render.Snapshot{
		Position:  cam.Position(),
		Direction: cam.Direction(),
	})

	e := &Engine{
		cfg:       cfg,
		logger:    logger.With(log.String("component", "engine")),
		bus:       bus.New(),
		queue:     queue,
		publisher: publisher,
	}

	e.sim, err = sim.New(cfg.Sim(), queue, publisher, cam,
		sim.WithLogger(logger),
		sim.WithBus(e.bus),
	)
	if err != nil {
		return nil, fmt.Errorf("create simulation: %w", err)
	}

	if cfg.Remote.Enabled {
		rc := remote.DefaultConfig()
		rc.Addr = cfg.Remote.Addr
		if len(cfg.Remote.AllowedOrigins) > 0 {
			rc.AllowedOrigins = cfg.Remote.AllowedOrigins
		}
		e.remote = remote.New(rc, queue, publisher,
			remote.WithLogger(logger),
			remote.WithStats(e.Stats),
		)
	}

	if _, err = e.bus.Subscribe(bus.Wildcard, e.observe); err != nil {
		return nil, err
	}

	initial := render.ViewProjection(publisher.Load().Current, Aspect)
	e.view.Store(&initial)

	return e, nil
}

func newCamera(cfg config.Config) camera.Camera {
	switch cfg.ControlScheme {
	case config.SchemeTranslate:
		return camera.NewTranslate(cfg.Camera())
	default:
		return camera.NewFirstPerson(cfg.Camera())
	}
}

// Run starts the simulation, the headless render loop and, if enabled, the
// remote server, and blocks until ctx is done or one of them fails.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if e.remote != nil {
		if err := e.remote.Start(gctx); err != nil {
			e.logger.Error("remote server failed to start", log.Error(err))
			return fmt.Errorf("start remote server: %w", err)
		}
		g.Go(func() error {
			<-gctx.Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.remote.Stop(stopCtx)
		})
	}

	if err := e.sim.Start(gctx); err != nil {
		e.logger.Error("simulation failed to start", log.Error(err))
		cancel()
		_ = g.Wait()
		return fmt.Errorf("start simulation: %w", err)
	}
	g.Go(func() error {
		<-gctx.Done()
		return e.sim.Stop()
	})

	g.Go(func() error {
		return e.renderLoop(gctx)
	})

	e.logger.Info("engine running",
		log.Int("tick_rate", e.cfg.TickRate),
		log.Int("frame_rate", e.cfg.FrameRate),
		log.String("control_scheme", string(e.cfg.ControlScheme)),
		log.Bool("remote", e.remote != nil),
	)

	err := g.Wait()
	e.logger.Info("engine stopped", log.Uint64("ticks", e.sim.Ticks()), log.Uint64("frames", e.frames.Load()))
	return err
}

// renderLoop stands in for the display-driven render thread: once per frame
// it reads the published state, interpolates and builds the view-projection.
func (e *Engine) renderLoop(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.FrameInterval())
	defer ticker.Stop()

	fps := clock.NewRateCounter(nil)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		vp := render.ViewProjection(e.publisher.Interpolated(), Aspect)
		e.view.Store(&vp)
		e.frames.Add(1)

		if n, ok := fps.Increment(); ok {
			e.logger.Debug("frame rate", log.Uint64("fps", n), log.Uint64("ticks", e.sim.Ticks()))
		}
	}
}

func (e *Engine) observe(ev bus.Event) error {
	switch data := ev.Data().(type) {
	case sim.DroppedData:
		e.logger.Debug("input backpressure", log.Uint64("dropped", data.Count), log.Uint64("total", data.Total))
	default:
		e.logger.Debug("lifecycle event", log.String("type", ev.Type()), log.String("source", ev.Source()))
	}
	return nil
}

// Stats summarizes the engine for the remote stats endpoint.
func (e *Engine) Stats() remote.Stats {
	st := remote.Stats{
		Ticks:         e.sim.Ticks(),
		Running:       e.sim.Running(),
		QueueLen:      e.queue.Len(),
		QueueCap:      e.queue.Cap(),
		Dropped:       e.queue.Dropped(),
		RenderVersion: e.publisher.Version(),
	}
	if e.remote != nil {
		st.Clients = e.remote.Clients()
	}
	return st
}

// Queue is the producer side of the input queue.
func (e *Engine) Queue() *input.Queue {
	return e.queue
}

func (e *Engine) Publisher() *render.Publisher {
	return e.publisher
}

func (e *Engine) Bus() bus.EventBus {
	return e.bus
}

// Frames is the number of frames the render loop has produced.
func (e *Engine) Frames() uint64 {
	return e.frames.Load()
}

// ViewProjection is the matrix built by the most recent frame.
func (e *Engine) ViewProjection() vmath.Mat4 {
	return *e.view.Load()
}

// RemoteAddr is the bound address of the remote server, or "" when disabled or stopped.
func (e *Engine) RemoteAddr() string {
	if e.remote == nil {
		return ""
	}
	return e.remote.Addr()
}
