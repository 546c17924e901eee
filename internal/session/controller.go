package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ironsheep/docscan/internal/camera"
	"github.com/ironsheep/docscan/internal/capture"
	"github.com/ironsheep/docscan/internal/dialogue"
	"github.com/ironsheep/docscan/internal/events"
	"github.com/ironsheep/docscan/internal/geometry"
	"github.com/ironsheep/docscan/internal/guidance"
	"github.com/ironsheep/docscan/internal/imaging"
	"github.com/ironsheep/docscan/internal/remote"
	"github.com/ironsheep/docscan/internal/speech"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Detector finds the document boundary in an analysis frame.
type Detector interface {
	Detect(img image.Image) (geometry.Quad, bool)
}

// Confirmer runs the spoken confirmation of a captured page.
type Confirmer interface {
	Confirm(ctx context.Context, img image.Image, observe func(dialogue.Phase)) dialogue.Outcome
}

// DocumentCreator stores a confirmed transcript.
type DocumentCreator interface {
	CreateDocument(ctx context.Context, text string) (*remote.Document, error)
}

// Config controls the tick loop and preview rendering.
type Config struct {
	// FPS is the tick rate of the scanning loop.
	FPS int `toml:"fps" validate:"gt=0,lte=60"`

	Overlay imaging.OverlayStyle `toml:"overlay"`
}

// DefaultConfig returns a 15 fps loop with the default overlay style.
func DefaultConfig() Config {
	return Config{
		FPS:     15,
		Overlay: imaging.DefaultOverlayStyle(),
	}
}

// Deps are the collaborators of a Controller. Preview and Events are
// optional.
type Deps struct {
	Source    camera.Source
	Detector  Detector
	Guidance  *guidance.Engine
	Rectifier *capture.Rectifier
	Channel   *speech.Channel
	Advisor   *speech.Advisor
	Dialogue  Confirmer
	Creator   DocumentCreator
	Events    events.Publisher

	// Preview receives the display frame with the guide and detected
	// outline drawn on it, once per scanning tick.
	Preview func(img *image.RGBA)
}

// Result is the created document of a committed session.
type Result struct {
	SessionID  string `json:"session_id"`
	AttemptID  string `json:"attempt_id"`
	DocumentID int64  `json:"document_id"`
	Title      string `json:"title"`
	Text       string `json:"text"`
}

type job struct {
	attempt string
	page    capture.CanonicalImage
}

// Controller drives one capture session from scanning to a committed
// document.
//
// The tick loop owns the session while scanning. Once a capture starts the
// capture flag is set and the worker owns it until the session returns to
// scanning or commits. Close may be called from any goroutine.
type Controller struct {
	id   string
	cfg  Config
	deps Deps
	log  *logrus.Entry
	now  func() time.Time

	jobs chan job

	mu        sync.Mutex
	state     State
	capturing bool
	attempt   string
	result    *Result
	closed    bool
	running   bool
	cancel    context.CancelFunc
}

// New creates a controller in StateIdle with a fresh session id.
func New(cfg Config, deps Deps, log *logrus.Entry) *Controller {
	id := uuid.New().String()
	if deps.Events == nil {
		deps.Events = events.PublisherFunc(func(context.Context, events.Event) error { return nil })
	}
	return &Controller{
		id:   id,
		cfg:  cfg,
		deps: deps,
		log:  log.WithField("session", id),
		now:  time.Now,
		jobs: make(chan job, 1),
	}
}

// ID returns the session id.
func (c *Controller) ID() string {
	return c.id
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result returns the created document once the session has committed.
func (c *Controller) Result() (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return Result{}, false
	}
	return *c.result, true
}

// Run starts the camera and runs the tick loop and the capture worker until
// a document is committed, ctx ends or Close is called.
//
// A camera that fails to start is reported as ErrUnsupported and nothing
// else runs.
func (c *Controller) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.running {
		c.mu.Unlock()
		return ErrRunning
	}
	c.running = true
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	c.publish(ctx, StateIdle, statusStarting)
	if err := c.deps.Source.Start(ctx); err != nil {
		c.publish(ctx, StateIdle, fmt.Sprintf(statusStartErr, err))
		return fmt.Errorf("%w: %w", ErrUnsupported, err)
	}

	if !c.transition(ctx, StateIdle, StateScanning, statusScanning) {
		return ErrClosed
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.loop(gctx) })
	g.Go(func() error { return c.work(gctx) })
	err := g.Wait()

	if _, ok := c.Result(); ok {
		return nil
	}
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if err != nil {
		return err
	}
	return ctx.Err()
}

func (c *Controller) loop(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(c.cfg.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.Tick(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// Tick processes one frame. It does nothing unless the session is scanning
// with no capture in progress.
func (c *Controller) Tick(ctx context.Context) error {
	c.mu.Lock()
	idle := c.state != StateScanning || c.capturing
	c.mu.Unlock()
	if idle {
		return nil
	}

	pair, err := c.deps.Source.Next(ctx)
	if err != nil {
		return fmt.Errorf("read frame: %w", err)
	}
	now := c.now()

	display := pair.Display.Size()
	guide := guidance.GuideRect(display.X, display.Y, c.deps.Guidance.Config().GuideMargin)

	quad, found := c.deps.Detector.Detect(pair.Analysis.Image)
	if !found {
		c.preview(pair.Display, guide, nil, 0)
		return nil
	}

	analysis := pair.Analysis.Size()
	quad = quad.Scale(float64(display.X)/float64(analysis.X), float64(display.Y)/float64(analysis.Y))

	adv := c.deps.Guidance.Update(quad, guide, now)
	c.preview(pair.Display, guide, &quad, adv.Quality(c.deps.Guidance.Config()))

	if adv.Ready {
		c.startCapture(ctx, pair.Display, quad, now)
		return nil
	}
	if c.deps.Advisor.Offer(adv.Key(), adv.Phrase(), now) {
		c.log.WithField("advice", adv.Key()).Debug("advisory spoken")
	}
	return nil
}

func (c *Controller) preview(frame camera.Frame, guide geometry.Rect, quad *geometry.Quad, quality float64) {
	if c.deps.Preview == nil {
		return
	}
	c.deps.Preview(imaging.RenderOverlay(frame.Image, guide, quad, quality, c.cfg.Overlay))
}

// startCapture freezes the source, rectifies the frame and hands it to the
// worker.
func (c *Controller) startCapture(ctx context.Context, frame camera.Frame, quad geometry.Quad, now time.Time) {
	attempt := ulid.Make().String()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.capturing = true
	c.attempt = attempt
	c.mu.Unlock()

	c.deps.Source.Freeze()
	c.deps.Advisor.Hold(now)
	c.transition(ctx, StateScanning, StateFrozen, statusFrozen)

	page, err := c.deps.Rectifier.Capture(frame, quad, image.Point{})
	if err != nil {
		c.log.WithError(err).Warn("capture failed")
		c.retry(ctx, fmt.Sprintf(statusCaptureErr, err), noticeCaptureErr)
		return
	}

	c.deps.Channel.Announce(noticeShot)
	c.log.WithField("attempt", attempt).Info("page captured")
	c.jobs <- job{attempt: attempt, page: page}
}

func (c *Controller) work(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case j := <-c.jobs:
			if c.process(ctx, j) {
				c.mu.Lock()
				cancel := c.cancel
				c.mu.Unlock()
				cancel()
				return nil
			}
		}
	}
}

// process runs the dialogue for one captured page and either commits it or
// returns the session to scanning. It reports whether the session
// committed.
func (c *Controller) process(ctx context.Context, j job) bool {
	log := c.log.WithField("attempt", j.attempt)

	out := c.deps.Dialogue.Confirm(ctx, j.page.Image, func(p dialogue.Phase) {
		switch p {
		case dialogue.PhaseTranscribing:
			c.set(ctx, StateAwaitingTranscript, statusTranscribing)
		case dialogue.PhaseConfirming:
			c.set(ctx, StateAwaitingConfirmation, statusConfirming)
		}
	})
	if c.discarded() {
		return false
	}
	log.WithFields(logrus.Fields{"verdict": out.Verdict, "reason": out.Reason}).Info("confirmation finished")

	switch {
	case out.Verdict == dialogue.VerdictYes:
		return c.commit(ctx, j, out.Transcript)
	case out.Verdict == dialogue.VerdictNo:
		c.retry(ctx, statusRetake, noticeRetake)
	case out.Reason == dialogue.ReasonCancelled:
		// Closed sessions returned above. A medium stopped under a live
		// session still goes back to scanning.
		if ctx.Err() != nil {
			return false
		}
		c.retry(ctx, statusRetake, noticeRetake)
	case out.Reason == dialogue.ReasonRecognition:
		c.retry(ctx, fmt.Sprintf(statusOCRErr, errorDetail(out.Err)), noticeOCRErr)
	default:
		heard := ""
		if out.Heard != "" {
			heard = fmt.Sprintf(": %q", out.Heard)
		}
		c.retry(ctx, fmt.Sprintf(statusNotHeard, heard), noticeNotHeard)
	}
	return false
}

func (c *Controller) commit(ctx context.Context, j job, text string) bool {
	c.set(ctx, StateCommitting, statusCommitting)

	doc, err := c.deps.Creator.CreateDocument(ctx, text)
	if c.discarded() {
		return false
	}
	if err != nil {
		c.log.WithError(err).Warn("document creation failed")
		c.retry(ctx, fmt.Sprintf(statusUploadErr, errorDetail(err)), noticeUploadErr)
		return false
	}

	c.mu.Lock()
	c.result = &Result{
		SessionID:  c.id,
		AttemptID:  j.attempt,
		DocumentID: doc.ID,
		Title:      doc.Title,
		Text:       text,
	}
	c.mu.Unlock()

	c.set(ctx, StateCommitted, fmt.Sprintf(statusCommitted, doc.ID))
	if err := c.deps.Channel.Speak(ctx, noticeCommitted); err != nil && ctx.Err() == nil {
		c.log.WithError(err).Debug("commit notice not spoken")
	}
	return true
}

// retry announces why the attempt ended, then unfreezes the source and
// returns to scanning with fresh guidance state.
func (c *Controller) retry(ctx context.Context, status, notice string) {
	c.publish(ctx, c.State(), status)
	if err := c.deps.Channel.Speak(ctx, notice); err != nil && ctx.Err() == nil {
		c.log.WithError(err).Debug("retry notice not spoken")
	}

	c.mu.Lock()
	if c.closed || ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	c.deps.Guidance.Reset()
	c.deps.Advisor.Reset()
	c.deps.Source.Unfreeze()
	c.capturing = false
	c.attempt = ""
	c.state = StateScanning
	c.mu.Unlock()

	c.publish(ctx, StateScanning, statusScanning)
}

// discarded reports whether the session was closed while a remote call was
// in flight. Such late results are dropped.
func (c *Controller) discarded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close stops listening and speech, releases the camera and discards any
// result still in flight. It is safe to call more than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	prev := c.state
	if prev != StateCommitted {
		c.state = StateClosed
	}
	cancel := c.cancel
	c.mu.Unlock()

	c.deps.Channel.Close()
	if cancel != nil {
		cancel()
	}
	err := c.deps.Source.Close()

	if prev != StateCommitted {
		c.publish(context.Background(), StateClosed, statusClosed)
	}
	return err
}

// transition moves from one state to another, and reports false if the
// session was somewhere else.
func (c *Controller) transition(ctx context.Context, from, to State, status string) bool {
	c.mu.Lock()
	if c.closed || c.state != from {
		c.mu.Unlock()
		return false
	}
	c.state = to
	c.mu.Unlock()

	c.publish(ctx, to, status)
	return true
}

// set moves to state unless the session is closed.
func (c *Controller) set(ctx context.Context, state State, status string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state = state
	c.mu.Unlock()

	c.publish(ctx, state, status)
}

func (c *Controller) publish(ctx context.Context, state State, message string) {
	c.mu.Lock()
	attempt := c.attempt
	c.mu.Unlock()

	e := events.Event{
		SessionID: c.id,
		AttemptID: attempt,
		State:     state.String(),
		Message:   message,
		Time:      c.now(),
	}
	if err := c.deps.Events.Publish(context.WithoutCancel(ctx), e); err != nil {
		c.log.WithError(err).Warn("status event not published")
	}
}

// errorDetail is the user-facing text of a remote or recognition failure:
// the service's detail message when there is one.
func errorDetail(err error) string {
	if err == nil {
		return "요청 실패"
	}
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}
