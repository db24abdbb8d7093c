package lexlink

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lexlens/lexlens/internal/lexlink/content"
	"github.com/lexlens/lexlens/internal/lexlink/driver"
)

type runStage int

const (
	stageStart runStage = iota
	stageInterpret
	stageOpenStream
	stageStreaming
	stageDone
)

// Run is the pull-based fragment sequence of one pipeline invocation. It is
// single-pass: fragments are produced in order as the caller pulls, and the
// sequence cannot be restarted. Abandoning a Run and calling Close cancels
// the run context, which aborts any in-flight backend request.
type Run struct {
	p           *Pipeline
	ctx         context.Context
	cancel      context.CancelFunc
	userMessage string
	extraction  content.Extraction

	stage             runStage
	queue             []string
	imageText         string
	stream            driver.Stream
	cur               string
	failed            bool
	interpreterFailed bool
}

// ImageCount reports how many inline images the run extracted; exposed for
// callers that record transcripts.
func (r *Run) ImageCount() int {
	return len(r.extraction.Images)
}

// Failed reports whether the run terminated with a backend diagnostic
// fragment instead of a complete generation.
func (r *Run) Failed() bool {
	return r.failed
}

// InterpreterFailed reports whether stage-1 degraded to an error diagnostic.
func (r *Run) InterpreterFailed() bool {
	return r.interpreterFailed
}

// Next advances to the next fragment. It returns false once the sequence is
// exhausted; failures have already been surfaced as fragments by then.
func (r *Run) Next() bool {
	for {
		if len(r.queue) > 0 {
			r.cur = r.queue[0]
			r.queue = r.queue[1:]
			return true
		}

		switch r.stage {
		case stageStart:
			if r.extraction.HasImages() && r.p.interpreter != nil {
				r.queue = append(r.queue, fmt.Sprintf("🔍 *Interpreting image with %s...*\n\n", r.p.interpreter.Name()))
				r.stage = stageInterpret
				continue
			}
			r.stage = stageOpenStream

		case stageInterpret:
			text, err := r.p.interpreter.Interpret(r.ctx, r.extraction.Images, r.interpreterQuestion())
			if err != nil {
				// Strategies degrade to text; an error here is a programming
				// fault, surfaced the same way.
				text = fmt.Sprintf("Error reading image: %s", err)
			}
			if err != nil || strings.HasPrefix(text, "Error") {
				r.interpreterFailed = true
			}
			r.imageText = text
			r.queue = append(r.queue,
				fmt.Sprintf("**Image Analysis:**\n%s\n\n---\n\n", text),
				fmt.Sprintf("⚖️ *Analyzing with %s...*\n\n", r.p.model),
			)
			r.stage = stageOpenStream

		case stageOpenStream:
			prompt, err := r.p.buildPrompt(r.userMessage, r.imageText)
			if err != nil {
				r.finishWithError(err)
				continue
			}
			stream, err := r.p.drv.GenerateStream(r.ctx, &driver.Request{
				Model:       r.p.model,
				Prompt:      prompt,
				Temperature: r.p.temperature,
			})
			if err != nil {
				r.finishWithError(err)
				continue
			}
			r.stream = stream
			r.stage = stageStreaming

		case stageStreaming:
			if r.stream.Next() {
				r.cur = r.stream.Text()
				return true
			}
			err := r.stream.Err()
			_ = r.stream.Close()
			r.stream = nil
			if err != nil {
				r.finishWithError(err)
				continue
			}
			r.stage = stageDone

		case stageDone:
			return false
		}
	}
}

// Text returns the current fragment.
func (r *Run) Text() string {
	return r.cur
}

// Close abandons the run. The context is cancelled so any in-flight request
// is aborted promptly rather than drained.
func (r *Run) Close() error {
	r.stage = stageDone
	r.queue = nil
	if r.stream != nil {
		_ = r.stream.Close()
		r.stream = nil
	}
	if r.cancel != nil {
		r.cancel()
	}
	return nil
}

// finishWithError queues the single diagnostic fragment that terminates the
// sequence after a backend failure.
func (r *Run) finishWithError(err error) {
	if r.p.logger != nil {
		r.p.logger.Debug("generation stream failed", zap.String("model", r.p.model), zap.Error(err))
	}
	r.queue = append(r.queue, fmt.Sprintf("Error calling %s: %s", r.p.model, err))
	r.failed = true
	r.stage = stageDone
}

// interpreterQuestion falls back to text extracted from the history. The
// fallback is for stage-1 only; the reasoning prompt uses the user message
// as-is.
func (r *Run) interpreterQuestion() string {
	if r.userMessage != "" {
		return r.userMessage
	}
	return r.extraction.Text
}
