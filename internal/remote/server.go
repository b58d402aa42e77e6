// Package remote exposes the simulation over HTTP: a websocket that feeds
// input events into the queue, and read-only JSON views of the render state.
package remote

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/zeusync/bigtime/internal/core/input"
	"github.com/zeusync/bigtime/internal/core/observability/log"
	"github.com/zeusync/bigtime/internal/core/render"
)

// EventSink receives decoded input events. *input.Queue satisfies it.
type EventSink interface {
	Add(e input.Event) bool
}

// StateSource provides the published render state. *render.Publisher satisfies it.
type StateSource interface {
	Load() render.Info
}

type Config struct {
	Addr           string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	MaxMessageSize int64
}

func DefaultConfig() Config {
	return Config{
		Addr:           "127.0.0.1:8080",
		AllowedOrigins: []string{"*"},
		ReadTimeout:    10 * time.Second,
		MaxMessageSize: 4 << 10,
	}
}

type Option func(*Server)

func WithLogger(l log.Log) Option {
	return func(s *Server) { s.logger = l }
}

// WithStats sets the provider behind GET /v1/stats. Client count is filled in by the server.
func WithStats(fn func() Stats) Option {
	return func(s *Server) { s.stats = fn }
}

type Server struct {
	cfg      Config
	sink     EventSink
	state    StateSource
	stats    func() Stats
	logger   log.Log
	upgrader websocket.Upgrader
	handler  http.Handler

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener

	clients   sync.Map // map[string]*websocket.Conn
	clientCnt atomic.Int64
}

func New(cfg Config, sink EventSink, state StateSource, opts ...Option) *Server {
	s := &Server{
		cfg:   cfg,
		sink:  sink,
		state: state,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewNop()
	}
	s.logger = s.logger.With(log.String("component", "remote"))
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.handler = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return ErrStarted
	}

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
	}

	srv := s.server
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("remote server stopped", log.Error(err))
		}
	}()

	s.logger.Info("remote server listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr is the bound listen address, useful when the configured port is 0.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the HTTP server down and closes open websocket connections.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return ErrNotStarted
	}

	err := srv.Shutdown(ctx)
	s.clients.Range(func(key, value any) bool {
		_ = value.(*websocket.Conn).Close()
		s.clients.Delete(key)
		return true
	})
	return err
}

// Clients is the number of connected websocket clients.
func (s *Server) Clients() int64 {
	return s.clientCnt.Load()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/v1", func(sub chi.Router) {
		sub.Get("/health", s.handleHealth)
		sub.Get("/render", s.handleRender)
		sub.Get("/stats", s.handleStats)
	})
	r.Get("/ws", s.handleWebSocket)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			log.String("request_id", middleware.GetReqID(r.Context())),
			log.String("method", r.Method),
			log.String("path", r.URL.Path),
			log.Int("status", ww.Status()),
			log.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
