package guidance

import (
	"math"
	"time"

	"github.com/ironsheep/docscan/internal/geometry"
)

// Engine turns a stream of detected quads into alignment advice.
//
// It keeps the smoothed metrics and the dwell timer between calls. An Engine
// is owned by a single goroutine and is not safe for concurrent use.
type Engine struct {
	cfg Config

	smoothed Metrics
	seeded   bool

	stable      bool
	stableSince time.Time
}

// NewEngine creates an engine with cleared state.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Reset clears the smoothing state and the dwell timer.
func (e *Engine) Reset() {
	e.smoothed = Metrics{}
	e.seeded = false
	e.stable = false
	e.stableSince = time.Time{}
}

// Update folds one detected quad into the smoothed metrics and decides what
// to tell the user.
//
// Checks run in a fixed order: rotation, then translation, then size. The
// first OUT band failure resets the dwell timer and is returned without
// evaluating the rest. When every OUT check passes the advisory is
// KindHold, and the IN bands are tested together: the dwell timer runs while
// all of them hold, and Ready is set once when it reaches the configured
// dwell. Any IN failure resets the timer to zero.
//
// Parameters:
//   - quad: Detected boundary in display pixels, canonically ordered.
//   - guide: Guide rectangle in the same coordinates.
//   - now: Tick time. Callers pass monotonic timestamps.
func (e *Engine) Update(quad geometry.Quad, guide geometry.Rect, now time.Time) Advisory {
	m := e.smooth(measure(quad, guide))
	adv := Advisory{Metrics: m}

	switch {
	case math.Abs(m.Angle) > e.cfg.Angle.Out:
		e.resetTimer()
		adv.Kind = KindTiltLeft
		if m.Angle > 0 {
			adv.Kind = KindTiltRight
		}
		return adv

	case math.Abs(m.DX) > e.cfg.Center.Out || math.Abs(m.DY) > e.cfg.Center.Out:
		e.resetTimer()
		adv.Kind = KindMove
		if math.Abs(m.DX) > e.cfg.Center.Out {
			adv.Horizontal = Right
			if m.DX > 0 {
				adv.Horizontal = Left
			}
		}
		if math.Abs(m.DY) > e.cfg.Center.Out {
			adv.Vertical = Down
			if m.DY > 0 {
				adv.Vertical = Up
			}
		}
		return adv

	case m.Size < e.cfg.Size.OutMin:
		e.resetTimer()
		adv.Kind = KindCloser
		return adv

	case m.Size > e.cfg.Size.OutMax:
		e.resetTimer()
		adv.Kind = KindFarther
		return adv
	}

	adv.Kind = KindHold
	adv.InBand = math.Abs(m.Angle) <= e.cfg.Angle.In &&
		math.Abs(m.DX) <= e.cfg.Center.In &&
		math.Abs(m.DY) <= e.cfg.Center.In &&
		m.Size >= e.cfg.Size.InMin && m.Size <= e.cfg.Size.InMax

	if !adv.InBand {
		e.resetTimer()
		return adv
	}

	if !e.stable {
		e.stable = true
		e.stableSince = now
	}
	if now.Sub(e.stableSince) >= e.cfg.Dwell() {
		adv.Ready = true
		e.resetTimer()
	}
	return adv
}

func (e *Engine) resetTimer() {
	e.stable = false
	e.stableSince = time.Time{}
}

// smooth applies the exponential moving average. The first sample after a
// reset seeds the state.
func (e *Engine) smooth(raw Metrics) Metrics {
	if !e.seeded {
		e.smoothed = raw
		e.seeded = true
		return raw
	}
	a := e.cfg.Alpha
	e.smoothed = Metrics{
		DX:    a*raw.DX + (1-a)*e.smoothed.DX,
		DY:    a*raw.DY + (1-a)*e.smoothed.DY,
		Angle: a*raw.Angle + (1-a)*e.smoothed.Angle,
		Size:  a*raw.Size + (1-a)*e.smoothed.Size,
	}
	return e.smoothed
}

// measure computes the raw metrics of quad against guide.
func measure(quad geometry.Quad, guide geometry.Rect) Metrics {
	c := quad.Center()
	gc := guide.Center()

	size := 0.0
	if area := guide.Area(); area > 0 {
		size = quad.Area() / area
	}

	return Metrics{
		DX:    c.X - gc.X,
		DY:    c.Y - gc.Y,
		Angle: quad.TopEdgeAngle(),
		Size:  size,
	}
}

// GuideRect returns the centered A4 portrait guide for a w x h display,
// inset by margin (a fraction of each dimension). The guide is as wide as
// the margins allow unless that would make it too tall.
func GuideRect(w, h int, margin float64) geometry.Rect {
	maxW := float64(w) * (1 - 2*margin)
	maxH := float64(h) * (1 - 2*margin)

	gw := maxW
	gh := gw * math.Sqrt2
	if gh > maxH {
		gh = maxH
		gw = gh / math.Sqrt2
	}
	return geometry.Rect{
		X: (float64(w) - gw) / 2,
		Y: (float64(h) - gh) / 2,
		W: gw,
		H: gh,
	}
}
