package camera

import "errors"

var (
	// ErrClosed is returned by a Source after Close.
	ErrClosed = errors.New("camera source closed")

	// ErrNoFrames is returned by Start when the source has nothing to play.
	ErrNoFrames = errors.New("camera source has no frames")

	// ErrNotStarted is returned by Next before Start succeeded.
	ErrNotStarted = errors.New("camera source not started")
)
