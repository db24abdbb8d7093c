package content

import (
	"strings"

	"github.com/lexlens/lexlens/internal/lexlink/encode"
)

// Extraction separates a message history into inline image payloads and
// accumulated text. It is derived per request and never persisted.
type Extraction struct {
	// Images holds base64 payloads in message order. Each payload has been
	// checked to decode cleanly; malformed entries are dropped during
	// extraction.
	Images []string
	Text   string
}

// HasImages reports whether any inline image survived extraction.
func (e Extraction) HasImages() bool {
	return len(e.Images) > 0
}

// Extract walks messages in order and splits them into image payloads and
// space-joined text. String content and text parts accumulate into the text;
// image_url parts contribute their payload only when the URL carries the
// data:image scheme and the payload decodes as base64. Anything malformed is
// skipped without affecting sibling entries.
func Extract(messages []Message) Extraction {
	var images []string
	var textParts []string

	for _, msg := range messages {
		c := msg.Content
		if !c.IsMulti() {
			textParts = append(textParts, c.Text)
			continue
		}
		for _, part := range c.Parts {
			switch part.Kind {
			case PartText:
				textParts = append(textParts, part.Text)
			case PartImageURL:
				payload, err := encode.ImagePayload(part.URL)
				if err != nil {
					continue
				}
				if _, err := encode.DecodeBase64String(payload); err != nil {
					continue
				}
				images = append(images, payload)
			}
		}
	}

	return Extraction{Images: images, Text: strings.Join(textParts, " ")}
}
