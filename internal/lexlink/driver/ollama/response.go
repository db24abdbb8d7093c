package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lexlens/lexlens/internal/lexlink/driver"
)

// generateResponse is one /api/generate record: the whole body for a
// non-streaming call, or a single NDJSON line when streaming. Response is a
// pointer so field absence is distinguishable from an empty fragment.
type generateResponse struct {
	Model     string  `json:"model"`
	CreatedAt string  `json:"created_at"`
	Response  *string `json:"response"`
	Done      bool    `json:"done"`
}

type tagsResponse struct {
	Models []Model `json:"models"`
}

// Model describes one entry from /api/tags.
type Model struct {
	Name       string       `json:"name"`
	ModifiedAt time.Time    `json:"modified_at"`
	Size       int64        `json:"size"`
	Digest     string       `json:"digest"`
	Details    ModelDetails `json:"details"`
}

// ModelDetails represents the details of a model.
type ModelDetails struct {
	Format            string `json:"format"`
	Family            string `json:"family"`
	ParameterSize     string `json:"parameter_size"`
	QuantizationLevel string `json:"quantization_level"`
}

// ListModels fetches the models available on the server via /api/tags.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	if c == nil {
		return nil, fmt.Errorf("ollama client not configured")
	}

	ctx, cancel := withTimeout(ctx, c.Timeout)
	if cancel != nil {
		defer cancel()
	}

	url := c.Host + "/api/tags"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &driver.ProviderError{Provider: "ollama", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody)), RawResponse: respBody}
	}

	var parsed tagsResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return parsed.Models, nil
}
