package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// stream reads newline-delimited JSON records off a live response body.
// Malformed lines and records without a response field are skipped; the
// sequence is a single pass.
type stream struct {
	body    io.ReadCloser
	cancel  context.CancelFunc
	scanner *bufio.Scanner
	cur     string
	err     error
	closed  bool
}

func newStream(body io.ReadCloser, cancel context.CancelFunc) *stream {
	scanner := bufio.NewScanner(body)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 512*1024)
	return &stream{body: body, cancel: cancel, scanner: scanner}
}

func (s *stream) Next() bool {
	if s.closed || s.err != nil {
		return false
	}
	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record generateResponse
		if err := json.Unmarshal(line, &record); err != nil {
			// Malformed lines do not abort the stream.
			continue
		}
		if record.Response == nil {
			continue
		}
		s.cur = *record.Response
		return true
	}
	if err := s.scanner.Err(); err != nil {
		s.err = fmt.Errorf("read stream: %w", err)
	}
	return false
}

func (s *stream) Text() string {
	return s.cur
}

func (s *stream) Err() error {
	return s.err
}

// Close cancels the request context and closes the body, aborting the
// in-flight connection rather than draining it.
func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	return s.body.Close()
}
