package speech

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Channel serializes speech output and speech input on the shared audio
// medium. At most one of them is active at any time.
//
// Speak stops any active listening and waits for the medium. Listen waits
// until no speech is active or queued and the quiet gap has passed. Announce
// speaks only when the medium is idle and never blocks.
type Channel struct {
	speaker  Speaker
	listener Listener
	cfg      Config
	rec      *Recorder
	log      *logrus.Entry
	now      func() time.Time

	// token is held by whoever is using the medium.
	token chan struct{}

	mu            sync.Mutex
	pending       int
	lastSpeechEnd time.Time
	listenCancel  context.CancelFunc
	speeches      map[int]context.CancelFunc
	nextID        int
	changed       chan struct{}
	closed        bool
}

// NewChannel creates a channel over speaker and listener. rec may be nil.
func NewChannel(speaker Speaker, listener Listener, cfg Config, rec *Recorder, log *logrus.Entry) *Channel {
	return &Channel{
		speaker:  speaker,
		listener: listener,
		cfg:      cfg,
		rec:      rec,
		log:      log,
		now:      time.Now,
		token:    make(chan struct{}, 1),
		speeches: make(map[int]context.CancelFunc),
		changed:  make(chan struct{}),
	}
}

// notify wakes every waiter. Callers hold c.mu.
func (c *Channel) notify() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Channel) utterance(text string) Utterance {
	return Utterance{Text: text, Lang: c.cfg.Lang, Rate: c.cfg.Rate}
}

// register queues a speech and returns its id, a cancellable context and
// the listening session to stop. Callers hold c.mu.
func (c *Channel) register(parent context.Context) (int, context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	id := c.nextID
	c.nextID++
	c.speeches[id] = cancel
	c.pending++
	c.notify()
	return id, ctx, cancel
}

// finish releases the medium after a speech. Callers must not hold c.mu.
func (c *Channel) finish(id int, holding bool) {
	c.mu.Lock()
	if holding {
		c.lastSpeechEnd = c.now()
		<-c.token
	}
	if cancel, ok := c.speeches[id]; ok {
		cancel()
		delete(c.speeches, id)
	}
	c.pending--
	c.notify()
	c.mu.Unlock()
}

// Speak plays text and blocks until it has finished. Any active listening
// session is stopped first, and speech already playing or queued finishes
// before this one starts.
func (c *Channel) Speak(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrStopped
	}
	id, sctx, _ := c.register(ctx)
	if c.listenCancel != nil {
		c.listenCancel()
	}
	c.mu.Unlock()

	select {
	case c.token <- struct{}{}:
	case <-sctx.Done():
		c.finish(id, false)
		return c.stopErr(ctx)
	}

	c.rec.Record(SpeakStart, c.now(), text)
	err := c.speaker.Speak(sctx, c.utterance(text))
	c.rec.Record(SpeakEnd, c.now(), text)

	// finish cancels sctx, so read it first.
	interrupted := sctx.Err() != nil
	c.finish(id, true)

	if interrupted {
		return c.stopErr(ctx)
	}
	return err
}

// stopErr reports why a medium operation was interrupted: the caller's
// context, or a channel stop.
func (c *Channel) stopErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrStopped
}

// Announce plays text in the background if the medium is idle right now.
// It reports whether the text was accepted.
func (c *Channel) Announce(text string) bool {
	c.mu.Lock()
	if c.closed || c.pending > 0 || c.listenCancel != nil {
		c.mu.Unlock()
		return false
	}
	select {
	case c.token <- struct{}{}:
	default:
		c.mu.Unlock()
		return false
	}
	id, sctx, _ := c.register(context.Background())
	c.mu.Unlock()

	go func() {
		c.rec.Record(SpeakStart, c.now(), text)
		if err := c.speaker.Speak(sctx, c.utterance(text)); err != nil && sctx.Err() == nil {
			c.log.WithError(err).Warn("advisory speech failed")
		}
		c.rec.Record(SpeakEnd, c.now(), text)
		c.finish(id, true)
	}()
	return true
}

// Listen runs one recognition session once the medium is free and quiet.
//
// If a Speak interrupts the session, Listen returns a RecognitionError with
// CodeAborted. If ctx ends, it returns ctx's error.
func (c *Channel) Listen(ctx context.Context) (string, error) {
	lctx, err := c.acquireListen(ctx)
	if err != nil {
		return "", err
	}

	c.rec.Record(ListenStart, c.now(), "")
	text, err := c.listener.Listen(lctx, c.cfg.Lang)
	c.rec.Record(ListenEnd, c.now(), text)

	interrupted := lctx.Err() != nil

	c.mu.Lock()
	if c.listenCancel != nil {
		c.listenCancel()
		c.listenCancel = nil
	}
	<-c.token
	c.notify()
	c.mu.Unlock()

	switch {
	case ctx.Err() != nil:
		return "", ctx.Err()
	case interrupted:
		return "", &RecognitionError{Code: CodeAborted, Err: errors.New("interrupted by speech")}
	}
	return text, err
}

// acquireListen waits for an idle, quiet medium and takes it. The returned
// context is cancelled when speech needs the medium back.
func (c *Channel) acquireListen(ctx context.Context) (context.Context, error) {
	quiet := ms(c.cfg.QuietGapMS)

	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return nil, ErrStopped
		}

		var wait time.Duration
		if c.pending == 0 {
			if !c.lastSpeechEnd.IsZero() {
				wait = quiet - c.now().Sub(c.lastSpeechEnd)
			}
			if wait <= 0 {
				select {
				case c.token <- struct{}{}:
					lctx, cancel := context.WithCancel(ctx)
					c.listenCancel = cancel
					c.notify()
					c.mu.Unlock()
					return lctx, nil
				default:
				}
			}
		}
		changed := c.changed
		c.mu.Unlock()

		if err := waitChange(ctx, changed, wait); err != nil {
			return nil, err
		}
	}
}

// waitChange blocks until changed is closed, d elapses (when positive) or
// ctx ends.
func waitChange(ctx context.Context, changed <-chan struct{}, d time.Duration) error {
	var timeout <-chan time.Time
	if d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-changed:
	case <-timeout:
	}
	return nil
}

// Busy reports whether speech is active or queued, or listening is active.
func (c *Channel) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending > 0 || c.listenCancel != nil || len(c.token) > 0
}

// StopAll stops listening and cancels every playing or queued speech. The
// channel stays usable.
func (c *Channel) StopAll() {
	c.mu.Lock()
	if c.listenCancel != nil {
		c.listenCancel()
	}
	for _, cancel := range c.speeches {
		cancel()
	}
	c.notify()
	c.mu.Unlock()

	c.speaker.CancelAll()
}

// Close stops everything and rejects further use.
func (c *Channel) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.StopAll()
}
