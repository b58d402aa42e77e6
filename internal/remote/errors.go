package remote

import "errors"

var (
	ErrUnknownKey     = errors.New("unknown key")
	ErrUnknownMessage = errors.New("unknown message type")
	ErrNotStarted     = errors.New("remote server not started")
	ErrStarted        = errors.New("remote server already started")
)
