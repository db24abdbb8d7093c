package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnmarshalStringContent(t *testing.T) {
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(`{"role":"user","content":"hello"}`), &msg))
	require.Equal(t, "user", msg.Role)
	require.False(t, msg.Content.IsMulti())
	require.Equal(t, "hello", msg.Content.Text)
}

func TestUnmarshalPartsContent(t *testing.T) {
	raw := `{"role":"user","content":[
		{"type":"text","text":"look at this"},
		{"type":"image_url","image_url":{"url":"data:image/png;base64,aGk="}},
		"trailing string part"
	]}`

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))
	require.True(t, msg.Content.IsMulti())
	require.Len(t, msg.Content.Parts, 3)

	require.Equal(t, PartText, msg.Content.Parts[0].Kind)
	require.Equal(t, "look at this", msg.Content.Parts[0].Text)

	require.Equal(t, PartImageURL, msg.Content.Parts[1].Kind)
	require.Equal(t, "data:image/png;base64,aGk=", msg.Content.Parts[1].URL)

	require.Equal(t, PartText, msg.Content.Parts[2].Kind)
	require.Equal(t, "trailing string part", msg.Content.Parts[2].Text)
}

func TestUnmarshalUnknownPartIgnored(t *testing.T) {
	raw := `{"content":[{"type":"audio","data":"xxx"},{"type":"text","text":"ok"}]}`

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))
	require.Len(t, msg.Content.Parts, 2)
	require.Equal(t, PartUnknown, msg.Content.Parts[0].Kind)
	require.Equal(t, PartText, msg.Content.Parts[1].Kind)
}

func TestUnmarshalOddContentShape(t *testing.T) {
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(`{"content":42}`), &msg))
	require.False(t, msg.Content.IsMulti())
	require.Empty(t, msg.Content.Text)
}

func TestMarshalRoundTrip(t *testing.T) {
	msg := Message{
		Role: "user",
		Content: PartsContent(
			Part{Kind: PartText, Text: "pick the best answer"},
			Part{Kind: PartImageURL, URL: "data:image/png;base64,aGk="},
		),
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.True(t, decoded.Content.IsMulti())
	require.Equal(t, msg.Content.Parts, decoded.Content.Parts)
}
