package content

import (
	"encoding/json"
)

// PartKind identifies the variant of a message content part.
type PartKind string

const (
	PartText     PartKind = "text"
	PartImageURL PartKind = "image_url"
	// PartUnknown marks parts that do not match any supported shape.
	// They are carried through decoding and ignored by extraction.
	PartUnknown PartKind = ""
)

// Part is one element of a multi-part message content list.
type Part struct {
	Kind PartKind
	Text string
	URL  string
}

// Content is either a plain string or an ordered list of parts. The chat
// front-end sends both shapes, so decoding has to accept both.
type Content struct {
	Text  string
	Parts []Part

	// multi is true when the wire shape was a list, even an empty one.
	multi bool
}

// Message is one role-tagged entry in a chat history.
type Message struct {
	Role    string  `json:"role,omitempty"`
	Content Content `json:"content"`
}

// TextContent builds string-shaped content.
func TextContent(text string) Content {
	return Content{Text: text}
}

// PartsContent builds list-shaped content.
func PartsContent(parts ...Part) Content {
	return Content{Parts: parts, multi: true}
}

// IsMulti reports whether the content was a list of parts on the wire.
func (c Content) IsMulti() bool {
	return c.multi
}

func (c Content) MarshalJSON() ([]byte, error) {
	if !c.multi {
		return json.Marshal(c.Text)
	}
	parts := make([]any, 0, len(c.Parts))
	for _, p := range c.Parts {
		switch p.Kind {
		case PartText:
			parts = append(parts, map[string]any{"type": "text", "text": p.Text})
		case PartImageURL:
			parts = append(parts, map[string]any{
				"type":      "image_url",
				"image_url": map[string]any{"url": p.URL},
			})
		}
	}
	return json.Marshal(parts)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = Content{Text: text}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Unknown shape (number, object, null). Treat as empty rather than
		// failing the whole message.
		*c = Content{}
		return nil
	}

	parts := make([]Part, 0, len(raw))
	for _, item := range raw {
		parts = append(parts, decodePart(item))
	}
	*c = Content{Parts: parts, multi: true}
	return nil
}

type wirePart struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	ImageURL struct {
		URL string `json:"url"`
	} `json:"image_url"`
}

func decodePart(data json.RawMessage) Part {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		return Part{Kind: PartText, Text: text}
	}

	var wire wirePart
	if err := json.Unmarshal(data, &wire); err != nil {
		return Part{Kind: PartUnknown}
	}
	switch wire.Type {
	case "text":
		return Part{Kind: PartText, Text: wire.Text}
	case "image_url":
		return Part{Kind: PartImageURL, URL: wire.ImageURL.URL}
	default:
		return Part{Kind: PartUnknown}
	}
}
