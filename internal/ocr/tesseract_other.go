//go:build !cgo || !linux

package ocr

func (t *Tesseract) extract(png []byte) (string, error) {
	return "", ErrTesseractUnavailable
}

// Version reports that no Tesseract engine is linked.
func Version() string {
	return "unavailable"
}
