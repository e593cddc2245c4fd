// Package config loads service configuration from the environment.
//
// All variables share the AIGATE_ prefix. Defaults match a local Ollama
// deployment so the service starts with zero configuration.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full service configuration.
type Config struct {
	// HTTPAddr is the gateway listen address.
	HTTPAddr string `envconfig:"HTTP_ADDR" default:"0.0.0.0:8000"`

	// Backend selects the model backend: "ollama", "anthropic" or "mock".
	Backend string `envconfig:"BACKEND" default:"ollama"`

	// OllamaURL is the Ollama base URL.
	OllamaURL string `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`

	// Model is the model identifier passed to the backend.
	Model string `envconfig:"MODEL" default:"qwen2.5:7b"`

	// AnthropicAPIKey authenticates the anthropic backend.
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`

	// RequestTimeout bounds each gateway request end to end.
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"120s"`

	// RulesFile optionally overrides the built-in routing rule table.
	RulesFile string `envconfig:"RULES_FILE"`

	// PipelineMaxCandidates caps agents selected per pipeline run.
	PipelineMaxCandidates int `envconfig:"PIPELINE_MAX_CANDIDATES" default:"3"`

	// PipelineFanOut bounds concurrent agent calls per pipeline run.
	PipelineFanOut int `envconfig:"PIPELINE_FAN_OUT" default:"4"`

	// PipelineFilterThreshold drops pipeline results below this confidence.
	PipelineFilterThreshold float64 `envconfig:"PIPELINE_FILTER_THRESHOLD" default:"0.4"`

	// RateLimit is the sustained per-client request rate. Zero disables.
	RateLimit float64 `envconfig:"RATE_LIMIT" default:"10"`

	// RateBurst is the per-client burst allowance.
	RateBurst int `envconfig:"RATE_BURST" default:"20"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogFormat is "json" or "text".
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load reads the AIGATE_-prefixed environment into a validated Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("aigate", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field consistency beyond what envconfig enforces.
func (c *Config) Validate() error {
	switch c.Backend {
	case "ollama", "anthropic", "mock":
	default:
		return fmt.Errorf("unsupported backend %q (want ollama, anthropic or mock)", c.Backend)
	}

	if c.Backend == "anthropic" && c.AnthropicAPIKey == "" {
		return fmt.Errorf("anthropic backend requires AIGATE_ANTHROPIC_API_KEY")
	}

	if c.PipelineMaxCandidates < 1 {
		return fmt.Errorf("pipeline max candidates must be at least 1, got %d", c.PipelineMaxCandidates)
	}
	if c.PipelineFanOut < 1 {
		return fmt.Errorf("pipeline fan-out must be at least 1, got %d", c.PipelineFanOut)
	}
	if c.PipelineFilterThreshold < 0 || c.PipelineFilterThreshold > 1 {
		return fmt.Errorf("pipeline filter threshold must be in [0,1], got %g", c.PipelineFilterThreshold)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log format %q (want json or text)", c.LogFormat)
	}

	return nil
}
