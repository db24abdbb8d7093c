package ollama

import (
	"github.com/lexlens/lexlens/internal/lexlink/driver"
)

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Images  []string        `json:"images,omitempty"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

func buildGenerateRequest(req *driver.Request, stream bool) *generateRequest {
	return &generateRequest{
		Model:   req.Model,
		Prompt:  req.Prompt,
		Stream:  stream,
		Images:  req.Images,
		Options: generateOptions{Temperature: req.Temperature},
	}
}
