package ocr

import (
	"context"
	"errors"
	"image"
	"regexp"
	"strings"
)

// ErrEmptyText is returned when recognition succeeds but finds no text.
var ErrEmptyText = errors.New("no text recognized")

// Recognizer turns a document image into text.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, img image.Image) (string, error)

// Recognize calls f.
func (f RecognizerFunc) Recognize(ctx context.Context, img image.Image) (string, error) {
	return f(ctx, img)
}

// contextTrailer matches the structured "document.context:" lines some
// recognition services append to the text.
var contextTrailer = regexp.MustCompile(`(?mi)(^|\n)\s*document\.?context\s*:.+$`)

// CleanTranscript removes context trailer lines and surrounding whitespace.
func CleanTranscript(text string) string {
	return strings.TrimSpace(contextTrailer.ReplaceAllString(text, ""))
}

// Config selects and configures the recognizer.
type Config struct {
	// Engine is "remote" for the recognition service or "tesseract" for
	// local recognition.
	Engine string `toml:"engine" validate:"oneof=remote tesseract"`

	// Language is the Tesseract language list, e.g. "kor+eng".
	Language string `toml:"language"`

	// TessdataDir overrides the Tesseract training data directory.
	TessdataDir string `toml:"tessdata_dir"`
}

// DefaultConfig uses the recognition service.
func DefaultConfig() Config {
	return Config{
		Engine:   "remote",
		Language: "kor+eng",
	}
}
