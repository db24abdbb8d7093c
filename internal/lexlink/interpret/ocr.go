package interpret

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	// Raster formats accepted for OCR input.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/lexlens/lexlens/internal/lexlink/encode"
)

// ErrOCRUnavailable is the fixed diagnostic emitted when no OCR engine is
// compiled in or the engine cannot start.
const ErrOCRUnavailable = "Error: OCR engine not available"

// Engine runs text recognition over one decoded image.
type Engine interface {
	Recognize(ctx context.Context, img []byte) (string, error)
}

// OCR interprets images with a local text-recognition engine. Each image is
// processed sequentially in input order; a failure on one image produces an
// inline error string for that image only.
type OCR struct {
	engine Engine
}

// NewOCR returns the OCR strategy. A nil engine degrades every batch to the
// fixed unavailable diagnostic instead of failing.
func NewOCR(engine Engine) *OCR {
	return &OCR{engine: engine}
}

// Name identifies the strategy.
func (o *OCR) Name() string {
	return "Tesseract OCR"
}

// Interpret recognizes text in each image and joins the per-image outputs
// with a blank line, preserving input order.
func (o *OCR) Interpret(ctx context.Context, images []string, _ string) (string, error) {
	if len(images) == 0 {
		return "", nil
	}
	if o == nil || o.engine == nil {
		return ErrOCRUnavailable, nil
	}

	parts := make([]string, 0, len(images))
	for _, payload := range images {
		parts = append(parts, o.recognizeOne(ctx, payload))
	}
	return strings.Join(parts, "\n\n"), nil
}

func (o *OCR) recognizeOne(ctx context.Context, payload string) string {
	raw, err := encode.DecodeBase64String(payload)
	if err != nil {
		return fmt.Sprintf("Error reading image: %s", err)
	}
	if _, _, err := image.Decode(bytes.NewReader(raw)); err != nil {
		return fmt.Sprintf("Error reading image: %s", err)
	}
	text, err := o.engine.Recognize(ctx, raw)
	if err != nil {
		return fmt.Sprintf("Error reading image: %s", err)
	}
	return strings.TrimSpace(text)
}
