// Package config loads the runtime configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/bigtime/internal/core/camera"
	"github.com/zeusync/bigtime/internal/core/input"
	"github.com/zeusync/bigtime/internal/core/observability/log"
	"github.com/zeusync/bigtime/internal/core/sim"
)

var ErrInvalidConfig = errors.New("invalid config")

// maxFrameRate keeps the render loop period at one nanosecond or more.
const maxFrameRate = int(time.Second)

type ControlScheme string

const (
	SchemeFirstPerson ControlScheme = "first_person"
	SchemeTranslate   ControlScheme = "translate"
)

type Config struct {
	TickRate           int           `yaml:"tick_rate"`
	MovementSpeed      float32       `yaml:"movement_speed"`
	TurnSpeed          float32       `yaml:"turn_speed"`
	PointerSensitivity float32       `yaml:"pointer_sensitivity"`
	PitchMargin        float32       `yaml:"pitch_margin"`
	QueueCapacity      int           `yaml:"queue_capacity"`
	ControlScheme      ControlScheme `yaml:"control_scheme"`
	IdleSleep          time.Duration `yaml:"idle_sleep"`
	MaxTicksPerLoop    int           `yaml:"max_ticks_per_loop"`
	FrameRate          int           `yaml:"frame_rate"`
	LogLevel           string        `yaml:"log_level"`
	Remote             Remote        `yaml:"remote"`
}

type Remote struct {
	Enabled        bool     `yaml:"enabled"`
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func Default() Config {
	cam := camera.DefaultConfig()
	return Config{
		TickRate:           sim.DefaultTickRate,
		MovementSpeed:      cam.MoveSpeed,
		TurnSpeed:          cam.TurnSpeed,
		PointerSensitivity: cam.PointerSensitivity,
		PitchMargin:        cam.PitchMargin,
		QueueCapacity:      input.DefaultQueueCapacity,
		ControlScheme:      SchemeFirstPerson,
		IdleSleep:          sim.DefaultIdleSleep,
		MaxTicksPerLoop:    sim.DefaultMaxTicksPerLoop,
		FrameRate:          144,
		LogLevel:           "info",
		Remote: Remote{
			Enabled:        false,
			Addr:           "127.0.0.1:8080",
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load decodes YAML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: decode: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads path. An empty path yields the defaults.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

func (c Config) Validate() error {
	var errs []error
	if err := c.Sim().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Camera().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.QueueCapacity <= 0 {
		errs = append(errs, fmt.Errorf("queue capacity %d must be positive", c.QueueCapacity))
	}
	if c.FrameRate <= 0 || c.FrameRate > maxFrameRate {
		errs = append(errs, fmt.Errorf("frame rate %d must be positive and at most %d", c.FrameRate, maxFrameRate))
	}
	switch c.ControlScheme {
	case SchemeFirstPerson, SchemeTranslate:
	default:
		errs = append(errs, fmt.Errorf("unknown control scheme %q", c.ControlScheme))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Remote.Enabled && c.Remote.Addr == "" {
		errs = append(errs, errors.New("remote addr is required when remote is enabled"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c Config) Camera() camera.Config {
	return camera.Config{
		MoveSpeed:          c.MovementSpeed,
		TurnSpeed:          c.TurnSpeed,
		PointerSensitivity: c.PointerSensitivity,
		PitchMargin:        c.PitchMargin,
	}
}

func (c Config) Sim() sim.Config {
	return sim.Config{
		TickRate:        c.TickRate,
		IdleSleep:       c.IdleSleep,
		MaxTicksPerLoop: c.MaxTicksPerLoop,
	}
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.LevelInfo
	}
	return l
}

// FrameInterval is the period of the headless render loop.
func (c Config) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return 0
	}
	return time.Duration(math.Round(float64(time.Second) / float64(c.FrameRate)))
}
