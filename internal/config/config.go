package config

import (
	"time"
)

// Config represents the complete application configuration. Values are
// layered: built-in defaults, an optional YAML config file, LEXLENS_*
// environment variables, and flag overrides.
type Config struct {
	Ollama      OllamaConfig      `mapstructure:"ollama"`
	Models      ModelsConfig      `mapstructure:"models"`
	Generation  GenerationConfig  `mapstructure:"generation"`
	Interpreter InterpreterConfig `mapstructure:"interpreter"`
	Prompts     PromptsConfig     `mapstructure:"prompts"`
	Server      ServerConfig      `mapstructure:"server"`
	Store       StoreConfig       `mapstructure:"store"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// OllamaConfig locates the generation backend.
type OllamaConfig struct {
	Host    string        `mapstructure:"host"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ModelsConfig names the models used by each stage.
type ModelsConfig struct {
	Vision    string `mapstructure:"vision"`
	Reasoning string `mapstructure:"reasoning"`
}

// GenerationConfig holds decoding settings shared by both stages.
type GenerationConfig struct {
	Temperature float64 `mapstructure:"temperature"`
}

// InterpreterConfig selects the stage-1 strategy at construction time.
type InterpreterConfig struct {
	// Strategy is "ocr" or "vision".
	Strategy string    `mapstructure:"strategy"`
	OCR      OCRConfig `mapstructure:"ocr"`
}

// OCRConfig tunes the local text-recognition engine.
type OCRConfig struct {
	Languages []string `mapstructure:"languages"`
}

// PromptsConfig allows overriding the embedded prompt set.
type PromptsConfig struct {
	Dir string `mapstructure:"dir"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig contains database configuration for the libsql transcript store.
type StoreConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// MetricsConfig contains telemetry exporter configuration.
type MetricsConfig struct {
	Port int `mapstructure:"port"`
}

// Interpreter strategy identifiers.
const (
	StrategyOCR    = "ocr"
	StrategyVision = "vision"
)
