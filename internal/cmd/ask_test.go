package cmd

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexlens/lexlens/internal/lexlink/content"
)

func writeTestPNG(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	path := filepath.Join(t.TempDir(), "exhibit.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestBuildAskMessagesTextOnly(t *testing.T) {
	messages, err := buildAskMessages("Is this clause enforceable?", nil)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	assert.Equal(t, "user", messages[0].Role)
	assert.False(t, messages[0].Content.IsMulti())
	assert.Equal(t, "Is this clause enforceable?", messages[0].Content.Text)
}

func TestBuildAskMessagesWithImage(t *testing.T) {
	path := writeTestPNG(t)

	messages, err := buildAskMessages("What does this say?", []string{path})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.True(t, messages[0].Content.IsMulti())

	parts := messages[0].Content.Parts
	require.Len(t, parts, 2)
	assert.Equal(t, content.PartText, parts[0].Kind)
	assert.Equal(t, "What does this say?", parts[0].Text)
	assert.Equal(t, content.PartImageURL, parts[1].Kind)
	assert.True(t, strings.HasPrefix(parts[1].URL, "data:image/png;base64,"))

	extraction := content.Extract(messages)
	require.Len(t, extraction.Images, 1)
}

func TestBuildAskMessagesImageOnly(t *testing.T) {
	path := writeTestPNG(t)

	messages, err := buildAskMessages("", []string{path})
	require.NoError(t, err)
	require.Len(t, messages[0].Content.Parts, 1)
	assert.Equal(t, content.PartImageURL, messages[0].Content.Parts[0].Kind)
}

func TestBuildAskMessagesMissingFile(t *testing.T) {
	_, err := buildAskMessages("q", []string{"/does/not/exist.png"})
	require.Error(t, err)
}
