package sim

import "errors"

var (
	ErrAlreadyRunning = errors.New("simulation already running")
	ErrNotRunning     = errors.New("simulation not running")
	ErrInvalidConfig  = errors.New("invalid simulation config")
)
