package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lexlens/lexlens/internal/lexlink/driver"
)

func TestGenerateNonStreaming(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":    captured.Model,
			"response": "a fee simple absolute",
			"done":     true,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Generate(context.Background(), &driver.Request{
		Model:       "deepseek-r1:8b",
		Prompt:      "define fee simple",
		Temperature: 0.3,
	})
	require.NoError(t, err)
	require.Equal(t, "a fee simple absolute", resp.Text)

	require.Equal(t, "deepseek-r1:8b", captured.Model)
	require.False(t, captured.Stream)
	require.InDelta(t, 0.3, captured.Options.Temperature, 1e-9)
	require.Empty(t, captured.Images)
}

func TestGenerateCarriesImages(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "a contract question", "done": true})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Generate(context.Background(), &driver.Request{
		Model:  "llava:13b",
		Prompt: "transcribe this",
		Images: []string{"aGk=", "YnllCg=="},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"aGk=", "YnllCg=="}, captured.Images)
}

func TestGenerateNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Generate(context.Background(), &driver.Request{Model: "missing", Prompt: "x"})
	require.Error(t, err)

	var provErr *driver.ProviderError
	require.True(t, errors.As(err, &provErr))
	require.Equal(t, "ollama", provErr.Provider)
	require.Equal(t, http.StatusNotFound, provErr.StatusCode)
}

func TestGenerateStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.True(t, req.Stream)

		w.Header().Set("Content-Type", "application/x-ndjson")
		_, _ = w.Write([]byte(`{"response":"The rule "}` + "\n"))
		_, _ = w.Write([]byte(`not json at all` + "\n"))
		_, _ = w.Write([]byte(`{"created_at":"2026-01-01T00:00:00Z"}` + "\n"))
		_, _ = w.Write([]byte(`{"response":"against perpetuities"}` + "\n"))
		_, _ = w.Write([]byte(`{"response":"","done":true}` + "\n"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	stream, err := client.GenerateStream(context.Background(), &driver.Request{Model: "deepseek-r1:8b", Prompt: "x"})
	require.NoError(t, err)
	defer stream.Close() // nolint:errcheck

	var fragments []string
	for stream.Next() {
		fragments = append(fragments, stream.Text())
	}
	require.NoError(t, stream.Err())
	require.Equal(t, []string{"The rule ", "against perpetuities", ""}, fragments)
}

func TestGenerateStreamNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GenerateStream(context.Background(), &driver.Request{Model: "deepseek-r1:8b", Prompt: "x"})
	require.Error(t, err)

	var provErr *driver.ProviderError
	require.True(t, errors.As(err, &provErr))
	require.Equal(t, http.StatusServiceUnavailable, provErr.StatusCode)
}

func TestGenerateStreamCloseStopsIteration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"first"}` + "\n"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL)
	stream, err := client.GenerateStream(context.Background(), &driver.Request{Model: "m", Prompt: "x"})
	require.NoError(t, err)

	require.True(t, stream.Next())
	require.Equal(t, "first", stream.Text())

	require.NoError(t, stream.Close())
	require.False(t, stream.Next())
}

func TestListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[
			{"name":"deepseek-r1:8b","size":5200000000,"details":{"family":"qwen2","parameter_size":"8.2B"}},
			{"name":"llava:13b","size":8000000000,"details":{"family":"llama","parameter_size":"13B"}}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	require.Equal(t, "deepseek-r1:8b", models[0].Name)
	require.Equal(t, "13B", models[1].Details.ParameterSize)
}

func TestNewClientDefaultHost(t *testing.T) {
	client := NewClient("")
	require.Equal(t, DefaultHost, client.Host)

	client = NewClient("http://localhost:11434/")
	require.Equal(t, "http://localhost:11434", client.Host)
}
