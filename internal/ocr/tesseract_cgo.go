//go:build cgo && linux

package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

func (t *Tesseract) extract(png []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if t.tessdataDir != "" {
		if err := client.SetTessdataPrefix(t.tessdataDir); err != nil {
			return "", fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(t.language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

// Version returns the linked Tesseract version.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}
