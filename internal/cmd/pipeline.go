package cmd

import (
	"strings"

	"github.com/fulmenhq/gofulmen/logging"

	"github.com/lexlens/lexlens/internal/config"
	"github.com/lexlens/lexlens/internal/lexlink"
	"github.com/lexlens/lexlens/internal/lexlink/driver/ollama"
	"github.com/lexlens/lexlens/internal/lexlink/interpret"
	"github.com/lexlens/lexlens/internal/lexlink/prompt"
)

// pipelineOverrides are per-invocation adjustments on top of the loaded
// configuration. Zero values mean "use the configured default".
type pipelineOverrides struct {
	Host           string
	VisionModel    string
	ReasoningModel string
	Temperature    *float64
}

// buildPipeline assembles driver, interpreter, and prompt registry from
// configuration and returns the pipeline plus the active strategy name.
func buildPipeline(cfg *config.Config, overrides pipelineOverrides, logger *logging.Logger) (*lexlink.Pipeline, string, error) {
	host := cfg.Ollama.Host
	if strings.TrimSpace(overrides.Host) != "" {
		host = overrides.Host
	}
	visionModel := cfg.Models.Vision
	if strings.TrimSpace(overrides.VisionModel) != "" {
		visionModel = overrides.VisionModel
	}
	reasoningModel := cfg.Models.Reasoning
	if strings.TrimSpace(overrides.ReasoningModel) != "" {
		reasoningModel = overrides.ReasoningModel
	}
	temperature := cfg.Generation.Temperature
	if overrides.Temperature != nil {
		temperature = *overrides.Temperature
	}

	client := ollama.NewClient(host)
	client.Timeout = cfg.Ollama.Timeout

	registry, err := promptRegistry(cfg)
	if err != nil {
		return nil, "", err
	}

	var interpreter interpret.Interpreter
	strategy := cfg.Interpreter.Strategy
	switch strategy {
	case config.StrategyVision:
		interpreter = interpret.NewVision(client, visionModel, temperature, registry)
	default:
		strategy = config.StrategyOCR
		interpreter = interpret.NewOCR(interpret.DefaultEngine(cfg.Interpreter.OCR.Languages))
	}

	pipeline, err := lexlink.New(lexlink.Settings{
		Driver:         client,
		Interpreter:    interpreter,
		Prompts:        registry,
		ReasoningModel: reasoningModel,
		Temperature:    temperature,
		Logger:         logger,
	})
	if err != nil {
		return nil, "", err
	}
	return pipeline, strategy, nil
}

func promptRegistry(cfg *config.Config) (prompt.Registry, error) {
	if dir := strings.TrimSpace(cfg.Prompts.Dir); dir != "" {
		return prompt.RegistryFromDir(dir)
	}
	return prompt.DefaultRegistry()
}
