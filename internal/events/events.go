package events

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// Event is one status update of a capture session.
type Event struct {
	SessionID string    `json:"session_id"`
	AttemptID string    `json:"attempt_id,omitempty"`
	State     string    `json:"state"`
	Message   string    `json:"message"`
	Time      time.Time `json:"time"`
}

// Publisher delivers status events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, e Event) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Log publishes events to a logger at info level.
type Log struct {
	log *logrus.Entry
}

// NewLog creates a logging publisher.
func NewLog(log *logrus.Entry) *Log {
	return &Log{log: log}
}

// Publish logs e.
func (l *Log) Publish(_ context.Context, e Event) error {
	fields := logrus.Fields{
		"session": e.SessionID,
		"state":   e.State,
	}
	if e.AttemptID != "" {
		fields["attempt"] = e.AttemptID
	}
	l.log.WithFields(fields).Info(e.Message)
	return nil
}

// Multi fans an event out to several publishers. Every publisher is tried;
// the errors are joined.
type Multi []Publisher

// Publish sends e to every publisher.
func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
