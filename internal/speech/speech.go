package speech

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Recognition error codes reported by speech input engines.
const (
	CodeNoSpeech     = "no-speech"
	CodeAborted      = "aborted"
	CodeNetwork      = "network"
	CodeAudioCapture = "audio-capture"
	CodeNotAllowed   = "not-allowed"
	CodeUnsupported  = "service-not-allowed"
)

// ErrStopped is returned by Channel operations after Close.
var ErrStopped = errors.New("speech channel stopped")

// Utterance is one piece of text to speak.
type Utterance struct {
	Text string
	Lang string
	Rate float64
}

// Speaker produces speech output. Speak blocks until the utterance has
// finished playing or ctx is cancelled. CancelAll stops anything playing or
// queued.
type Speaker interface {
	Speak(ctx context.Context, u Utterance) error
	CancelAll()
}

// Listener runs one speech recognition session and returns the final
// transcript. Cancelling ctx stops the session. Failures are reported as
// *RecognitionError.
type Listener interface {
	Listen(ctx context.Context, lang string) (string, error)
}

// RecognitionError is a speech input failure with an engine error code.
type RecognitionError struct {
	Code string
	Err  error
}

func (e *RecognitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("speech recognition %s: %v", e.Code, e.Err)
	}
	return "speech recognition " + e.Code
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// Policy classifies recognition errors as recoverable (restart the
// listening session) or not.
type Policy struct {
	recoverable map[string]bool
}

// NewPolicy returns a policy treating the given codes as recoverable.
func NewPolicy(codes ...string) Policy {
	p := Policy{recoverable: make(map[string]bool, len(codes))}
	for _, c := range codes {
		p.recoverable[c] = true
	}
	return p
}

// DefaultRecoverableCodes lists the codes recoverable by default.
func DefaultRecoverableCodes() []string {
	return []string{CodeNoSpeech, CodeAborted, CodeNetwork, CodeAudioCapture}
}

// Recoverable reports whether err is a RecognitionError with a
// recoverable code.
func (p Policy) Recoverable(err error) bool {
	var re *RecognitionError
	if !errors.As(err, &re) {
		return false
	}
	return p.recoverable[re.Code]
}

// Config holds speech settings.
type Config struct {
	// Lang is the BCP 47 language tag for both output and input.
	Lang string `toml:"lang" validate:"required"`

	// Rate is the speech output rate, 1 being normal.
	Rate float64 `toml:"rate" validate:"gt=0,lte=4"`

	// QuietGapMS is the pause after speech ends before listening starts.
	QuietGapMS int `toml:"quiet_gap_ms" validate:"gte=0"`

	// MinGapMS is the minimum time between two advisories.
	MinGapMS int `toml:"min_gap_ms" validate:"gte=0"`

	// CooldownMS blocks advisories after each spoken advisory.
	CooldownMS int `toml:"cooldown_ms" validate:"gte=0"`

	// RepeatGapMS is the minimum time before the same advisory repeats.
	RepeatGapMS int `toml:"repeat_gap_ms" validate:"gte=0"`

	// RecoverableCodes are the recognition error codes that restart
	// listening instead of ending the dialogue.
	RecoverableCodes []string `toml:"recoverable_codes"`
}

// DefaultConfig returns Korean speech with the tuned advisory timing.
func DefaultConfig() Config {
	return Config{
		Lang:             "ko-KR",
		Rate:             0.95,
		QuietGapMS:       400,
		MinGapMS:         1200,
		CooldownMS:       1000,
		RepeatGapMS:      1200,
		RecoverableCodes: DefaultRecoverableCodes(),
	}
}

// Policy returns the recoverability policy for the configured codes.
func (c Config) Policy() Policy {
	return NewPolicy(c.RecoverableCodes...)
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
