// Package lexlink runs the two-stage legal-analysis pipeline: extract inline
// images from a chat history, interpret them to text, build a legal-analysis
// prompt, and stream the reasoning model's output. Control flow is strictly
// linear per invocation and no state is shared between invocations.
package lexlink

import (
	"context"
	"fmt"
	"strings"

	"github.com/fulmenhq/gofulmen/logging"

	"github.com/lexlens/lexlens/internal/lexlink/content"
	"github.com/lexlens/lexlens/internal/lexlink/driver"
	"github.com/lexlens/lexlens/internal/lexlink/interpret"
	"github.com/lexlens/lexlens/internal/lexlink/prompt"
)

// Fallback question when the image path has no user text at all.
const defaultImageQuestion = "Analyze this and provide legal reasoning."

// Settings configures a Pipeline.
type Settings struct {
	Driver         driver.Driver
	Interpreter    interpret.Interpreter
	Prompts        prompt.Registry
	ReasoningModel string
	Temperature    float64

	// Logger is optional; when set, skipped-input diagnostics are logged at
	// debug level without changing the fragment sequence.
	Logger *logging.Logger
}

// Pipeline dispatches one chat invocation through extraction, optional
// image interpretation, prompt building, and streaming generation.
type Pipeline struct {
	drv         driver.Driver
	interpreter interpret.Interpreter
	prompts     prompt.Registry
	model       string
	temperature float64
	logger      *logging.Logger
}

// New validates settings and builds a pipeline.
func New(s Settings) (*Pipeline, error) {
	if s.Driver == nil {
		return nil, fmt.Errorf("driver is required")
	}
	if s.Prompts == nil {
		return nil, fmt.Errorf("prompt registry is required")
	}
	if strings.TrimSpace(s.ReasoningModel) == "" {
		return nil, fmt.Errorf("reasoning model is required")
	}
	return &Pipeline{
		drv:         s.Driver,
		interpreter: s.Interpreter,
		prompts:     s.Prompts,
		model:       s.ReasoningModel,
		temperature: s.Temperature,
		logger:      s.Logger,
	}, nil
}

// ReasoningModel returns the configured stage-2 model.
func (p *Pipeline) ReasoningModel() string {
	return p.model
}

// Run starts one invocation and returns its lazy fragment sequence. The
// caller drives pacing by pulling; Close abandons the run and aborts any
// in-flight request. Failures never surface as errors, only as diagnostic
// text fragments.
func (p *Pipeline) Run(ctx context.Context, userMessage string, messages []content.Message) *Run {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	return &Run{
		p:           p,
		ctx:         ctx,
		cancel:      cancel,
		userMessage: userMessage,
		extraction:  content.Extract(messages),
		stage:       stageStart,
	}
}

// buildPrompt selects the template by presence of image-derived text.
func (p *Pipeline) buildPrompt(question, imageText string) (string, error) {
	if strings.TrimSpace(imageText) == "" {
		def, err := p.prompts.Get(prompt.SlugLegalAnalysis)
		if err != nil {
			return "", err
		}
		return def.Render(map[string]string{"question": question})
	}

	if strings.TrimSpace(question) == "" {
		question = defaultImageQuestion
	}
	def, err := p.prompts.Get(prompt.SlugLegalAnalysisImage)
	if err != nil {
		return "", err
	}
	return def.Render(map[string]string{
		"question":   question,
		"image_text": imageText,
	})
}
