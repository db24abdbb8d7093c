package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexlens/lexlens/internal/lexlink/driver/ollama"
)

func TestModelsTable(t *testing.T) {
	models := []ollama.Model{
		{
			Name: "deepseek-r1:8b",
			Size: 5_200_000_000,
			Details: ollama.ModelDetails{
				Family:        "qwen2",
				ParameterSize: "8.0B",
			},
		},
		{
			Name: "llava:13b",
			Size: 8_000_000_000,
			Details: ollama.ModelDetails{
				Family:        "llama",
				ParameterSize: "13B",
			},
		},
	}

	rendered := ModelsTable(models, "llava:13b", "deepseek-r1:8b")
	require.NotEmpty(t, rendered)
	assert.Contains(t, rendered, "deepseek-r1:8b")
	assert.Contains(t, rendered, "reasoning")
	assert.Contains(t, rendered, "vision")
	assert.Contains(t, rendered, "8.0B")
}

func TestModelsTableEmpty(t *testing.T) {
	rendered := ModelsTable(nil, "", "")
	assert.Contains(t, rendered, "no models installed")
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "1.0 KB", formatSize(1024))
	assert.Equal(t, "4.8 GB", formatSize(5_200_000_000))
}
