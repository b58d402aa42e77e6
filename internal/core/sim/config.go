package sim

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultTickRate        = 100
	DefaultIdleSleep       = time.Millisecond
	DefaultMaxTicksPerLoop = 25
)

type Config struct {
	// TickRate is the number of fixed steps per second.
	TickRate int
	// IdleSleep is slept after a loop iteration that consumed no tick.
	// Zero yields the processor instead.
	IdleSleep time.Duration
	// MaxTicksPerLoop is the catch-up threshold above which a warning is
	// emitted. Zero disables the warning.
	MaxTicksPerLoop int
}

func DefaultConfig() Config {
	return Config{
		TickRate:        DefaultTickRate,
		IdleSleep:       DefaultIdleSleep,
		MaxTicksPerLoop: DefaultMaxTicksPerLoop,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick rate %d must be positive", c.TickRate))
	}
	if c.IdleSleep < 0 {
		errs = append(errs, fmt.Errorf("idle sleep %s must not be negative", c.IdleSleep))
	}
	if c.MaxTicksPerLoop < 0 {
		errs = append(errs, fmt.Errorf("max ticks per loop %d must not be negative", c.MaxTicksPerLoop))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
