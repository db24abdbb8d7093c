//go:build noocr

package interpret

// DefaultEngine returns nil in builds without Tesseract support; the OCR
// strategy then degrades to its fixed unavailable diagnostic.
func DefaultEngine(_ []string) Engine {
	return nil
}
