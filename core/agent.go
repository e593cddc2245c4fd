package core

import (
	"context"
	"regexp"
)

// Agent is the unit of work dispatched by the service. Implementations must
// be stateless across Process calls: any mutation of agent fields during
// Process is a defect. Immutable configuration (model name, prompt
// templates) set at construction is fine.
//
// Process receives the synthesized task, the request data mapping and an
// optional context mapping. It must return a Result containing at minimum a
// "success" boolean; recognized optional keys are "confidence",
// "suggestions" and "error" (populated iff success is false).
type Agent interface {
	Name() string
	DisplayName() string
	Description() string
	Capabilities() []string
	Process(ctx context.Context, task string, data, meta map[string]any) (Result, error)
}

// Descriptor carries the identifying details of a registered agent as
// surfaced by the listing endpoint.
type Descriptor struct {
	Name         string   `json:"name"`
	DisplayName  string   `json:"display_name"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

var agentNameRe = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidAgentName reports whether name matches the [a-z0-9_]+ registry rule.
func ValidAgentName(name string) bool { return agentNameRe.MatchString(name) }

// Describe builds a Descriptor snapshot for an agent. The capability slice
// is copied so the descriptor cannot alias agent internals.
func Describe(a Agent) Descriptor {
	caps := a.Capabilities()
	out := make([]string, len(caps))
	copy(out, caps)
	return Descriptor{
		Name:         a.Name(),
		DisplayName:  a.DisplayName(),
		Description:  a.Description(),
		Capabilities: out,
	}
}
