package camera

import (
	"context"
	"image"
	"time"

	xdraw "golang.org/x/image/draw"
)

// Frame is one immutable pixel buffer read from a Source.
type Frame struct {
	Image     image.Image
	Width     int
	Height    int
	Timestamp time.Time
}

// NewFrame wraps img with its dimensions.
func NewFrame(img image.Image, ts time.Time) Frame {
	b := img.Bounds()
	return Frame{Image: img, Width: b.Dx(), Height: b.Dy(), Timestamp: ts}
}

// Size returns the frame dimensions as a point.
func (f Frame) Size() image.Point {
	return image.Point{X: f.Width, Y: f.Height}
}

// FramePair is the two resolutions delivered per tick. Display is the
// full-resolution buffer used for preview and capture; Analysis is the
// same picture downscaled for detection.
type FramePair struct {
	Analysis Frame
	Display  Frame
}

// Source supplies frames from a camera device.
//
// Next is called once per tick by a single consumer. While frozen, Next
// keeps returning the frame that was current when Freeze was called.
type Source interface {
	Start(ctx context.Context) error
	Next(ctx context.Context) (FramePair, error)
	Freeze()
	Unfreeze()
	Close() error
}

// Config controls frame acquisition.
type Config struct {
	// Dir is the directory a DirSource replays frames from.
	Dir string `toml:"dir"`

	// AnalysisWidth is the width of the analysis buffer in pixels.
	AnalysisWidth int `toml:"analysis_width" validate:"gt=0"`

	// Loop restarts from the first file after the last one.
	Loop bool `toml:"loop"`
}

// DefaultConfig returns the default camera configuration.
func DefaultConfig() Config {
	return Config{
		AnalysisWidth: 352,
		Loop:          true,
	}
}

// Downscale resizes img to the given width, preserving aspect ratio.
// Images already at or below width are returned unchanged.
func Downscale(img image.Image, width int) image.Image {
	b := img.Bounds()
	if width <= 0 || b.Dx() <= width {
		return img
	}
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// Pair builds a FramePair from a display image.
func Pair(display image.Image, analysisWidth int, ts time.Time) FramePair {
	return FramePair{
		Analysis: NewFrame(Downscale(display, analysisWidth), ts),
		Display:  NewFrame(display, ts),
	}
}
