// Package ocr defines the text recognition boundary used by the
// confirmation dialogue.
//
// A Recognizer turns the rectified document image into text. The remote
// recognition service client lives in package remote; Tesseract provides a
// local alternative backed by gosseract. Both return text passed through
// CleanTranscript, which strips the "document.context:" trailer lines a
// service may append.
//
// # Tesseract Setup
//
// The Tesseract engine and the training data for the configured languages
// must be installed. Config.TessdataDir points at a non-standard data
// directory. The native bindings are only built on Linux with cgo enabled;
// other builds return ErrTesseractUnavailable.
package ocr
