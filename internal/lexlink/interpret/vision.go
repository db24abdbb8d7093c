package interpret

import (
	"context"
	"fmt"

	"github.com/lexlens/lexlens/internal/lexlink/driver"
	"github.com/lexlens/lexlens/internal/lexlink/prompt"
)

// Vision interprets images with one non-streaming generation request per
// batch against a vision-capable model. Any request failure makes the whole
// stage output an inline error string naming the failing model; there are no
// retries.
type Vision struct {
	driver      driver.Driver
	model       string
	temperature float64
	prompts     prompt.Registry
}

// NewVision returns the vision-model strategy.
func NewVision(drv driver.Driver, model string, temperature float64, prompts prompt.Registry) *Vision {
	return &Vision{driver: drv, model: model, temperature: temperature, prompts: prompts}
}

// Name identifies the strategy by its model.
func (v *Vision) Name() string {
	return v.model
}

// Interpret sends the whole image batch to the vision model with the
// transcription instruction prompt.
func (v *Vision) Interpret(ctx context.Context, images []string, question string) (string, error) {
	if len(images) == 0 {
		return "", nil
	}

	instruction, err := v.instruction(question)
	if err != nil {
		return fmt.Sprintf("Error calling %s: %s", v.model, err), nil
	}

	resp, err := v.driver.Generate(ctx, &driver.Request{
		Model:       v.model,
		Prompt:      instruction,
		Images:      images,
		Temperature: v.temperature,
	})
	if err != nil {
		return fmt.Sprintf("Error calling %s: %s", v.model, err), nil
	}
	return resp.Text, nil
}

func (v *Vision) instruction(question string) (string, error) {
	p, err := v.prompts.Get(prompt.SlugVisionTranscribe)
	if err != nil {
		return "", err
	}
	return p.Render(map[string]string{"question": question})
}
