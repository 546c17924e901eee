package dialogue

import (
	"context"
	"errors"
	"image"
	"strings"
	"time"

	"github.com/ironsheep/docscan/internal/ocr"
	"github.com/ironsheep/docscan/internal/speech"
	"github.com/sirupsen/logrus"
)

// ReadSuffix marks a read-back that was cut short.
const ReadSuffix = " ... 이하 생략"

// Phase is the step a running dialogue has reached.
type Phase int

const (
	PhaseTranscribing Phase = iota + 1
	PhaseConfirming
)

func (p Phase) String() string {
	switch p {
	case PhaseTranscribing:
		return "transcribing"
	case PhaseConfirming:
		return "confirming"
	default:
		return "unknown"
	}
}

// Medium is the shared speech medium. *speech.Channel implements it.
type Medium interface {
	Speak(ctx context.Context, text string) error
	Listen(ctx context.Context) (string, error)
}

// Config controls the confirmation dialogue.
type Config struct {
	// WindowMS bounds the time spent listening for an answer.
	WindowMS int `toml:"window_ms" validate:"gt=0"`

	// RestartDelayMS is the pause before listening again after a
	// recoverable recognition error.
	RestartDelayMS int `toml:"restart_delay_ms" validate:"gte=0"`

	// MaxReadRunes limits how much recognized text is read back.
	MaxReadRunes int `toml:"max_read_runes" validate:"gte=0"`

	YesKeywords []string `toml:"yes_keywords" validate:"min=1"`
	NoKeywords  []string `toml:"no_keywords" validate:"min=1"`
}

// DefaultConfig returns a 10 second window with Korean and English keywords.
func DefaultConfig() Config {
	return Config{
		WindowMS:       10000,
		RestartDelayMS: 250,
		MaxReadRunes:   600,
		YesKeywords:    DefaultYesKeywords(),
		NoKeywords:     DefaultNoKeywords(),
	}
}

// Dialogue reads a captured page back to the user and asks for a yes/no
// confirmation.
type Dialogue struct {
	cfg        Config
	recognizer ocr.Recognizer
	medium     Medium
	policy     speech.Policy
	classifier *Classifier
	log        *logrus.Entry
}

// New creates a dialogue. policy decides which listening errors restart
// the listening session.
func New(cfg Config, recognizer ocr.Recognizer, medium Medium, policy speech.Policy, log *logrus.Entry) *Dialogue {
	return &Dialogue{
		cfg:        cfg,
		recognizer: recognizer,
		medium:     medium,
		policy:     policy,
		classifier: NewClassifier(cfg.YesKeywords, cfg.NoKeywords),
		log:        log,
	}
}

// Confirm recognizes img, reads the text back and waits for an answer.
// observe, if not nil, is called when each phase starts. Confirm always
// returns exactly one valid Outcome.
func (d *Dialogue) Confirm(ctx context.Context, img image.Image, observe func(Phase)) Outcome {
	if observe == nil {
		observe = func(Phase) {}
	}

	observe(PhaseTranscribing)
	text, err := d.recognizer.Recognize(ctx, img)
	if ctx.Err() != nil {
		return Unknown(ReasonCancelled)
	}
	text = strings.TrimSpace(text)
	if err == nil && text == "" {
		err = ocr.ErrEmptyText
	}
	if err != nil {
		d.log.WithError(err).Warn("recognition failed")
		return Unknown(ReasonRecognition).with("", "", err)
	}

	observe(PhaseConfirming)
	prompt := Prompt(Truncate(text, d.cfg.MaxReadRunes, ReadSuffix))
	if err := d.medium.Speak(ctx, prompt); err != nil {
		if ctx.Err() != nil || errors.Is(err, speech.ErrStopped) {
			return Unknown(ReasonCancelled).with(text, "", nil)
		}
		d.log.WithError(err).Warn("read-back failed, listening anyway")
	}

	return d.await(ctx, text)
}

// await listens for an answer until one is classified or the window ends.
func (d *Dialogue) await(ctx context.Context, text string) Outcome {
	wctx, cancel := context.WithTimeout(ctx, time.Duration(d.cfg.WindowMS)*time.Millisecond)
	defer cancel()

	var heard string
	for attempt := 1; ; attempt++ {
		said, err := d.medium.Listen(wctx)

		switch {
		case ctx.Err() != nil, errors.Is(err, speech.ErrStopped):
			return Unknown(ReasonCancelled).with(text, heard, nil)
		case wctx.Err() != nil:
			return Unknown(ReasonTimeout).with(text, heard, nil)
		case err == nil && strings.TrimSpace(said) != "":
			heard = strings.TrimSpace(said)
			if v, ok := d.classifier.Classify(heard); ok {
				d.log.WithFields(logrus.Fields{"verdict": v, "attempt": attempt}).Debug("answer classified")
				if v == VerdictYes {
					return Yes(text, heard)
				}
				return No(text, heard)
			}
			d.log.WithField("heard", heard).Debug("answer not understood")
			continue
		case err != nil && !d.policy.Recoverable(err):
			d.log.WithError(err).Warn("listening failed")
			return Unknown(ReasonListen).with(text, heard, err)
		}

		// Recoverable error, or the session ended without a result.
		if err != nil {
			d.log.WithError(err).WithField("attempt", attempt).Debug("restarting listening")
		}
		if !sleep(wctx, time.Duration(d.cfg.RestartDelayMS)*time.Millisecond) {
			if ctx.Err() != nil {
				return Unknown(ReasonCancelled).with(text, heard, nil)
			}
			return Unknown(ReasonTimeout).with(text, heard, nil)
		}
	}
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
