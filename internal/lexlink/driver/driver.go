package driver

import (
	"context"
)

// Driver defines the interface for generation backends.
type Driver interface {
	// Generate sends a non-streaming generation request and returns the
	// completed response.
	Generate(ctx context.Context, req *Request) (*Response, error)
	// GenerateStream opens a streaming generation request. The returned
	// stream is single-pass; Close aborts the underlying connection.
	GenerateStream(ctx context.Context, req *Request) (Stream, error)
	// Name returns the driver identifier (e.g., "ollama").
	Name() string
	// Capabilities returns what this driver supports.
	Capabilities() Capabilities
}

// Capabilities describes driver features.
type Capabilities struct {
	SupportsImages    bool
	SupportsStreaming bool
}

// Request is a backend-agnostic generation request. It is sent once; there
// are no retries and no request identity.
type Request struct {
	Model       string
	Prompt      string
	Images      []string // base64 payloads, in order
	Temperature float64
}

// Response is a completed non-streaming generation.
type Response struct {
	Text  string
	Model string
}

// Stream is a pull-based sequence of generation fragments. Fragments are
// yielded in arrival order; the caller drives pacing. A Stream cannot be
// restarted or rewound.
type Stream interface {
	// Next advances to the next fragment. It returns false when the stream
	// is exhausted or failed; check Err afterwards.
	Next() bool
	// Text returns the current fragment.
	Text() string
	// Err returns the transport error that ended the stream early, if any.
	Err() error
	// Close aborts the stream and releases the connection.
	Close() error
}
