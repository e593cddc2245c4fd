package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.HTTPAddr)
	assert.Equal(t, "ollama", cfg.Backend)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.PipelineMaxCandidates)
	assert.Equal(t, 4, cfg.PipelineFanOut)
	assert.InDelta(t, 0.4, cfg.PipelineFilterThreshold, 1e-9)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AIGATE_BACKEND", "mock")
	t.Setenv("AIGATE_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("AIGATE_PIPELINE_FAN_OUT", "8")
	t.Setenv("AIGATE_LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.Backend)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, 8, cfg.PipelineFanOut)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown backend", func(c *Config) { c.Backend = "gpt" }},
		{"anthropic without key", func(c *Config) { c.Backend = "anthropic"; c.AnthropicAPIKey = "" }},
		{"zero candidates", func(c *Config) { c.PipelineMaxCandidates = 0 }},
		{"zero fan-out", func(c *Config) { c.PipelineFanOut = 0 }},
		{"threshold above one", func(c *Config) { c.PipelineFilterThreshold = 1.5 }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
