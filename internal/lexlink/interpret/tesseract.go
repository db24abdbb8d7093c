//go:build !noocr

package interpret

import (
	"context"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine recognizes text with a locally installed Tesseract.
type TesseractEngine struct {
	Languages []string
}

// NewTesseractEngine returns an engine using the given languages, or
// Tesseract's default when none are given.
func NewTesseractEngine(languages []string) *TesseractEngine {
	return &TesseractEngine{Languages: languages}
}

// Recognize runs Tesseract over the raw image bytes.
func (e *TesseractEngine) Recognize(_ context.Context, img []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close() // nolint:errcheck

	if len(e.Languages) > 0 {
		if err := client.SetLanguage(e.Languages...); err != nil {
			return "", err
		}
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", err
	}
	return client.Text()
}

// DefaultEngine returns the engine backing the OCR strategy in this build.
func DefaultEngine(languages []string) Engine {
	return NewTesseractEngine(languages)
}
