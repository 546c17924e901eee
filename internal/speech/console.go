package speech

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// ConsoleSpeaker prints utterances and holds the medium for a duration
// proportional to their length, standing in for a text-to-speech engine.
type ConsoleSpeaker struct {
	out     io.Writer
	perRune time.Duration
	log     *logrus.Entry

	mu     sync.Mutex
	cancel chan struct{}
}

// NewConsoleSpeaker writes utterances to out.
func NewConsoleSpeaker(out io.Writer, perRune time.Duration, log *logrus.Entry) *ConsoleSpeaker {
	return &ConsoleSpeaker{
		out:     out,
		perRune: perRune,
		log:     log,
		cancel:  make(chan struct{}),
	}
}

// Speak prints u and waits out its simulated playback.
func (s *ConsoleSpeaker) Speak(ctx context.Context, u Utterance) error {
	s.mu.Lock()
	cancel := s.cancel
	fmt.Fprintf(s.out, "[speak %s] %s\n", u.Lang, u.Text)
	s.mu.Unlock()

	d := time.Duration(utf8.RuneCountInString(u.Text)) * s.perRune
	if u.Rate > 0 {
		d = time.Duration(float64(d) / u.Rate)
	}
	s.log.WithField("duration", d).Debug("speaking")

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-cancel:
		return context.Canceled
	}
}

// CancelAll interrupts every utterance in progress.
func (s *ConsoleSpeaker) CancelAll() {
	s.mu.Lock()
	close(s.cancel)
	s.cancel = make(chan struct{})
	s.mu.Unlock()
}

// ConsoleListener reads transcripts line by line, standing in for a speech
// recognizer. An empty line reports no speech.
type ConsoleListener struct {
	out   io.Writer
	lines chan string
	once  sync.Once
	in    io.Reader
}

// NewConsoleListener reads from in and prints prompts to out.
func NewConsoleListener(in io.Reader, out io.Writer) *ConsoleListener {
	return &ConsoleListener{in: in, out: out, lines: make(chan string)}
}

// start launches the reader goroutine. Reads cannot be cancelled, so a
// single goroutine owns the reader for the listener's lifetime.
func (l *ConsoleListener) start() {
	l.once.Do(func() {
		go func() {
			defer close(l.lines)
			sc := bufio.NewScanner(l.in)
			for sc.Scan() {
				l.lines <- sc.Text()
			}
		}()
	})
}

// Listen waits for one line of input.
func (l *ConsoleListener) Listen(ctx context.Context, lang string) (string, error) {
	l.start()
	fmt.Fprintf(l.out, "[listen %s] > ", lang)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-l.lines:
		if !ok {
			return "", &RecognitionError{Code: CodeUnsupported, Err: errors.New("input closed")}
		}
		if strings.TrimSpace(line) == "" {
			return "", &RecognitionError{Code: CodeNoSpeech}
		}
		return line, nil
	}
}
