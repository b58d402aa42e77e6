package input

import "errors"

var (
	ErrInvalidCapacity = errors.New("event queue capacity must be positive")
)
