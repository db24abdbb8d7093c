// Package config provides centralized configuration management for LexLens.
// Defaults follow the deployment the original pipeline targeted: a local
// Ollama server with llava for vision and deepseek-r1 for reasoning.
package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/lexlens/lexlens/internal/lexlink/driver/ollama"
)

var (
	appConfig *Config
	configMu  sync.RWMutex
)

// SetDefaults installs built-in defaults on the global viper instance. It is
// called once from command initialization, before the config file and
// environment are read.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ollama.host", ollama.DefaultHost)
	v.SetDefault("ollama.timeout", 300*time.Second)

	v.SetDefault("models.vision", "llava:13b")
	v.SetDefault("models.reasoning", "deepseek-r1:8b")

	v.SetDefault("generation.temperature", 0.3)

	v.SetDefault("interpreter.strategy", StrategyOCR)
	v.SetDefault("interpreter.ocr.languages", []string{})

	v.SetDefault("prompts.dir", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Minute)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("store.enabled", false)
	v.SetDefault("store.driver", "libsql")
	v.SetDefault("store.path", "")
	v.SetDefault("store.url", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("metrics.port", 9090)
}

// Load decodes the layered configuration from the global viper instance and
// validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	configMu.Lock()
	appConfig = &cfg
	configMu.Unlock()
	return &cfg, nil
}

// Get returns the last loaded configuration, or nil before Load succeeds.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

func validate(cfg *Config) error {
	switch strings.TrimSpace(cfg.Interpreter.Strategy) {
	case StrategyOCR, StrategyVision:
	default:
		return fmt.Errorf("interpreter.strategy must be %q or %q, got %q",
			StrategyOCR, StrategyVision, cfg.Interpreter.Strategy)
	}

	if strings.TrimSpace(cfg.Ollama.Host) == "" {
		return fmt.Errorf("ollama.host is required")
	}
	if strings.TrimSpace(cfg.Models.Reasoning) == "" {
		return fmt.Errorf("models.reasoning is required")
	}
	if cfg.Interpreter.Strategy == StrategyVision && strings.TrimSpace(cfg.Models.Vision) == "" {
		return fmt.Errorf("models.vision is required for the vision interpreter")
	}
	if cfg.Generation.Temperature < 0 || cfg.Generation.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be between 0 and 2")
	}
	if cfg.Store.Enabled && strings.TrimSpace(cfg.Store.Path) == "" && strings.TrimSpace(cfg.Store.URL) == "" {
		return fmt.Errorf("store.path or store.url is required when the store is enabled")
	}
	return nil
}
