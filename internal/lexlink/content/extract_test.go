package content

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func textMessage(text string) Message {
	return Message{Role: "user", Content: TextContent(text)}
}

func TestExtractStringOnly(t *testing.T) {
	messages := []Message{
		textMessage("what is"),
		textMessage("the rule against perpetuities?"),
	}

	got := Extract(messages)
	require.Empty(t, got.Images)
	require.False(t, got.HasImages())
	require.Equal(t, "what is the rule against perpetuities?", got.Text)
}

func TestExtractWellFormedImage(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))
	messages := []Message{
		{Content: PartsContent(
			Part{Kind: PartText, Text: "pick the best answer"},
			Part{Kind: PartImageURL, URL: "data:image/png;base64," + payload},
		)},
	}

	got := Extract(messages)
	require.Equal(t, []string{payload}, got.Images)
	require.Equal(t, "pick the best answer", got.Text)
}

func TestExtractMalformedImageDropped(t *testing.T) {
	good := base64.StdEncoding.EncodeToString([]byte("ok"))
	messages := []Message{
		{Content: PartsContent(
			Part{Kind: PartImageURL, URL: "data:image/png;base64,%%%not-base64%%%"},
			Part{Kind: PartImageURL, URL: "data:image/png;base64"},
			Part{Kind: PartImageURL, URL: "https://example.com/x.png"},
			Part{Kind: PartImageURL, URL: "data:image/jpeg;base64," + good},
		)},
	}

	got := Extract(messages)
	require.Equal(t, []string{good}, got.Images)
}

func TestExtractOrderPreserved(t *testing.T) {
	first := base64.StdEncoding.EncodeToString([]byte("first"))
	second := base64.StdEncoding.EncodeToString([]byte("second"))
	messages := []Message{
		{Content: PartsContent(Part{Kind: PartImageURL, URL: "data:image/png;base64," + first})},
		textMessage("between"),
		{Content: PartsContent(Part{Kind: PartImageURL, URL: "data:image/png;base64," + second})},
	}

	got := Extract(messages)
	require.Equal(t, []string{first, second}, got.Images)
	require.Equal(t, "between", got.Text)
}

func TestExtractIgnoresUnknownParts(t *testing.T) {
	messages := []Message{
		{Content: PartsContent(
			Part{Kind: PartUnknown},
			Part{Kind: PartText, Text: "still here"},
		)},
	}

	got := Extract(messages)
	require.Empty(t, got.Images)
	require.Equal(t, "still here", got.Text)
}

func TestExtractEmptyStringsJoined(t *testing.T) {
	messages := []Message{
		textMessage(""),
		textMessage("question"),
	}

	got := Extract(messages)
	require.Equal(t, " question", got.Text)
}
