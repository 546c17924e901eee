package ocr

import (
	"context"
	"errors"
	"image"

	imgutil "github.com/ironsheep/docscan/internal/imaging"
)

// ErrTesseractUnavailable is returned by local recognition in builds
// without the native Tesseract bindings.
var ErrTesseractUnavailable = errors.New("tesseract is not available in this build")

// Tesseract recognizes text locally with the Tesseract engine.
//
// Each call creates its own client, so a Tesseract may be shared between
// goroutines.
type Tesseract struct {
	language    string
	tessdataDir string
}

// NewTesseract creates a local recognizer. An empty language means "eng".
func NewTesseract(cfg Config) *Tesseract {
	lang := cfg.Language
	if lang == "" {
		lang = "eng"
	}
	return &Tesseract{language: lang, tessdataDir: cfg.TessdataDir}
}

type tessResult struct {
	text string
	err  error
}

// Recognize runs OCR on img and returns the cleaned text. The engine call
// cannot be interrupted; when ctx ends first its result is dropped.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	data, err := imgutil.EncodePNG(img)
	if err != nil {
		return "", err
	}

	done := make(chan tessResult, 1)
	go func() {
		text, err := t.extract(data)
		done <- tessResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", r.err
		}
		text := CleanTranscript(r.text)
		if text == "" {
			return "", ErrEmptyText
		}
		return text, nil
	}
}
