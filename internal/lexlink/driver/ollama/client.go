package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lexlens/lexlens/internal/lexlink/driver"
)

// DefaultHost matches the containerized deployment this pipeline fronts.
const DefaultHost = "http://host.docker.internal:11434"

// Client implements the Ollama driver via direct HTTP against /api/generate.
type Client struct {
	Host       string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewClient returns a client with defaults applied.
func NewClient(host string) *Client {
	h := strings.TrimSpace(host)
	if h == "" {
		h = DefaultHost
	}
	return &Client{Host: strings.TrimRight(h, "/")}
}

// Name returns the driver identifier.
func (c *Client) Name() string {
	return "ollama"
}

// Capabilities describes supported features.
func (c *Client) Capabilities() driver.Capabilities {
	return driver.Capabilities{
		SupportsImages:    true,
		SupportsStreaming: true,
	}
}

// Generate sends a non-streaming generation request and returns the completed
// response text.
func (c *Client) Generate(ctx context.Context, req *driver.Request) (*driver.Response, error) {
	if c == nil {
		return nil, fmt.Errorf("ollama client not configured")
	}
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	ctx, cancel := withTimeout(ctx, c.Timeout)
	if cancel != nil {
		defer cancel()
	}

	resp, err := c.post(ctx, buildGenerateRequest(req, false))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &driver.ProviderError{Provider: "ollama", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody)), RawResponse: respBody}
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	text := ""
	if parsed.Response != nil {
		text = *parsed.Response
	}
	return &driver.Response{Text: text, Model: parsed.Model}, nil
}

// GenerateStream opens a streaming generation request. Fragments arrive as
// newline-delimited JSON objects; the returned stream yields each `response`
// field in arrival order. Closing the stream cancels the request context,
// which aborts the connection rather than draining it.
func (c *Client) GenerateStream(ctx context.Context, req *driver.Request) (driver.Stream, error) {
	if c == nil {
		return nil, fmt.Errorf("ollama client not configured")
	}
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	ctx, cancel := withTimeout(ctx, c.Timeout)
	if cancel == nil {
		ctx, cancel = context.WithCancel(ctx)
	}

	resp, err := c.post(ctx, buildGenerateRequest(req, true))
	if err != nil {
		cancel()
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		cancel()
		return nil, &driver.ProviderError{Provider: "ollama", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody)), RawResponse: respBody}
	}

	return newStream(resp.Body, cancel), nil
}

func (c *Client) post(ctx context.Context, payload *generateRequest) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := c.Host + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, nil
	}
	return context.WithTimeout(ctx, timeout)
}
