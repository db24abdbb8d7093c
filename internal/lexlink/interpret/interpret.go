// Package interpret converts inline chat images to text. Two strategies
// exist: local OCR and a vision-model call. The strategy is chosen when the
// pipeline is constructed, never per request, and failures always degrade to
// visible text rather than errors.
package interpret

import (
	"context"
)

// Interpreter converts a batch of base64 image payloads into text. The
// question gives strategies that talk to a model some user context; OCR
// ignores it. Implementations must tolerate zero images and must not modify
// caller state.
type Interpreter interface {
	Interpret(ctx context.Context, images []string, question string) (string, error)
	// Name identifies the strategy for status fragments (e.g. "Tesseract OCR").
	Name() string
}
