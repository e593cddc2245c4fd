package agent

import (
	"context"
	"fmt"

	"github.com/lamvt/aigate/core"
	"github.com/lamvt/aigate/internal/util"
	"github.com/lamvt/aigate/model"
)

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewModelAgent to override defaults.
type ModelAgentOptions struct {
	// System is the system prompt sent with every generation.
	System string
	// Template is the prompt template rendered with {{.Task}}, {{.Query}},
	// {{.Data}} and {{.Context}}.
	Template string
	// Confidence is the fixed confidence this agent reports for successful
	// results.
	Confidence float64
	// Suggestions are follow-up hints attached to successful results.
	Suggestions []string
}

// ModelAgent formats a prompt and forwards it to the text generation
// backend. It holds only immutable configuration; Process allocates all
// scratch state locally so the agent stays stateless across calls.
type ModelAgent struct {
	BaseAgent
	llm         model.Model
	system      string
	template    string
	confidence  float64
	suggestions []string
}

// NewModelAgent creates a model-backed agent with sensible defaults: a
// generic assistant template and the service-wide default confidence.
func NewModelAgent(base BaseAgent, llm model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		System:     fmt.Sprintf("You are %s. %s", base.DisplayName(), base.Description()),
		Template:   "Task: {{.Task}}\n\n{{.Query}}",
		Confidence: core.DefaultConfidence,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &ModelAgent{
		BaseAgent:   base,
		llm:         llm,
		system:      opts.System,
		template:    opts.Template,
		confidence:  opts.Confidence,
		suggestions: opts.Suggestions,
	}
}

// Process implements core.Agent. The backend is invoked exactly once; any
// backend error propagates so the dispatcher surfaces it as AgentFailure
// (or Timeout on an expired deadline).
func (a *ModelAgent) Process(ctx context.Context, task string, data, meta map[string]any) (core.Result, error) {
	prompt, err := util.RenderTemplate(a.template, map[string]any{
		"Task":    task,
		"Query":   queryFrom(data),
		"Data":    data,
		"Context": meta,
	})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	resp, err := a.llm.Generate(ctx, model.Request{System: a.system, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("model generate: %w", err)
	}

	return core.Result{
		"success":     true,
		"text":        resp.Text,
		"model":       resp.Model,
		"confidence":  a.confidence,
		"suggestions": a.suggestions,
	}, nil
}

// queryFrom picks the primary text field out of the request data. Rules
// populate one of these keys; the first present wins.
func queryFrom(data map[string]any) string {
	for _, key := range []string{"query", "text", "problem", "request", "topic", "message"} {
		if s, ok := data[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
