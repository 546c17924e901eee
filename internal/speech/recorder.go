package speech

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// EventKind marks the start or end of speech output or input.
type EventKind int

const (
	SpeakStart EventKind = iota
	SpeakEnd
	ListenStart
	ListenEnd
)

func (k EventKind) String() string {
	switch k {
	case SpeakStart:
		return "speak-start"
	case SpeakEnd:
		return "speak-end"
	case ListenStart:
		return "listen-start"
	case ListenEnd:
		return "listen-end"
	default:
		return "unknown"
	}
}

// Event is one entry of the medium log.
type Event struct {
	Kind EventKind
	At   time.Time
	Text string
}

// Recorder keeps an ordered log of speech medium events.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	log    *logrus.Entry
}

// NewRecorder creates a recorder. log may be nil.
func NewRecorder(log *logrus.Entry) *Recorder {
	return &Recorder{log: log}
}

// Record appends an event.
func (r *Recorder) Record(kind EventKind, at time.Time, text string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.events = append(r.events, Event{Kind: kind, At: at, Text: text})
	r.mu.Unlock()

	if r.log != nil {
		r.log.WithFields(logrus.Fields{"event": kind.String(), "text": text}).Trace("speech medium")
	}
}

// Events returns a copy of the log.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// CheckExclusive verifies that the log never has speech and listening
// active at the same time, and that every start is closed before the next
// one begins.
func CheckExclusive(events []Event) error {
	active := -1
	for i, e := range events {
		switch e.Kind {
		case SpeakStart, ListenStart:
			if active >= 0 {
				return fmt.Errorf("event %d (%s) starts while event %d (%s) is active",
					i, e.Kind, active, events[active].Kind)
			}
			active = i
		case SpeakEnd, ListenEnd:
			want := SpeakStart
			if e.Kind == ListenEnd {
				want = ListenStart
			}
			if active < 0 || events[active].Kind != want {
				return fmt.Errorf("event %d (%s) has no matching start", i, e.Kind)
			}
			active = -1
		}
	}
	return nil
}
