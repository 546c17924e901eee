package session

import "errors"

var (
	// ErrClosed is returned by Run after Close.
	ErrClosed = errors.New("session closed")

	// ErrUnsupported wraps a camera that cannot be started.
	ErrUnsupported = errors.New("capture environment unsupported")

	// ErrRunning is returned by a second call to Run.
	ErrRunning = errors.New("session already running")
)
