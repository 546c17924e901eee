//go:build !cgo || !linux

package ocr

import (
	"context"
	"errors"
	"image"
	"testing"
)

func TestTesseract_UnavailableWithoutCgo(t *testing.T) {
	tess := NewTesseract(Config{Language: "kor+eng"})
	_, err := tess.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 20, 10)))
	if !errors.Is(err, ErrTesseractUnavailable) {
		t.Errorf("got %v, want ErrTesseractUnavailable", err)
	}
	if Version() != "unavailable" {
		t.Errorf("Version: got %q", Version())
	}
}
