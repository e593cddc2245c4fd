// Package model defines the provider-agnostic abstraction for the text
// generation backend the gateway's agents call.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Expose the two operations the dispatch core assumes: text generation
//     and model listing
//   - Facilitate lightweight mocking for tests (Mock)
//
// Providers (Ollama, Anthropic) implement the Model interface from this
// package so agents remain decoupled from vendor SDKs.
package model

import (
	"context"
	"fmt"
)

// Request is the normalized generation input produced by agents.
type Request struct {
	// System is an optional system prompt.
	System string
	// Prompt is the user-facing prompt text. Required.
	Prompt string
}

// Response is the completed generation output.
type Response struct {
	Text  string
	Model string
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "ollama", "anthropic", "mock"
}

// Model is the minimal interface agents use to drive generation. Generate
// must respect ctx cancellation and deadlines; the dispatch core surfaces
// expired deadlines as timeouts.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ListModels(ctx context.Context) ([]string, error)
	Info() Info
}

// HealthChecker is implemented by backends that can cheaply probe their
// upstream. The gateway health endpoint uses it when available.
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// Mock is a lightweight in-memory Model useful for tests and local
// development without a running backend.
type Mock struct {
	info      Info
	responses map[string]string
	err       error
}

// NewMock constructs a Mock with canned responses keyed by prompt.
func NewMock(name string) *Mock {
	return &Mock{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for a prompt.
func (m *Mock) AddResponse(prompt, response string) { m.responses[prompt] = response }

// FailWith makes every Generate call return err.
func (m *Mock) FailWith(err error) { m.err = err }

// Generate implements Model.
func (m *Mock) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	text := m.responses[req.Prompt]
	if text == "" {
		text = fmt.Sprintf("Mock response to: %s", req.Prompt)
	}
	return &Response{Text: text, Model: m.info.Name}, nil
}

// ListModels implements Model.
func (m *Mock) ListModels(ctx context.Context) ([]string, error) {
	return []string{m.info.Name}, nil
}

// Info implements Model.
func (m *Mock) Info() Info { return m.info }

// Healthy implements HealthChecker.
func (m *Mock) Healthy(ctx context.Context) bool { return m.err == nil }
