// Package registry implements the name-to-agent table owned by the service.
//
// The registry is populated once at process start, frozen, and never
// mutated afterwards. Freezing is what makes lock-free concurrent reads
// safe; Register after Freeze is a programming error surfaced as ErrFrozen.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/lamvt/aigate/core"
)

// ErrFrozen is returned by Register once the registry has been frozen.
var ErrFrozen = errors.New("registry is frozen")

// Registry maps agent names to agents. Register/Freeze happen during
// startup; Lookup/List/Descriptors are read-only and safe for concurrent
// use after Freeze.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]core.Agent
	frozen bool
}

// New creates an empty, unfrozen Registry.
func New() *Registry {
	return &Registry{agents: make(map[string]core.Agent)}
}

// Register adds an agent under its name. It fails with
// *core.DuplicateNameError on collision, rejects names outside [a-z0-9_]+
// and fails with ErrFrozen after Freeze.
func (r *Registry) Register(a core.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}

	name := a.Name()
	if !core.ValidAgentName(name) {
		return fmt.Errorf("invalid agent name %q: must match [a-z0-9_]+", name)
	}
	if _, exists := r.agents[name]; exists {
		return &core.DuplicateNameError{Name: name}
	}

	r.agents[name] = a
	return nil
}

// Freeze marks the end of startup. Subsequent Register calls fail.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether the registry has been frozen.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup resolves an agent by name. O(1) average, no side effects.
func (r *Registry) Lookup(name string) (core.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	return a, ok
}

// List returns descriptors for every registered agent sorted ascending by
// name for reproducibility.
func (r *Registry) List() []core.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.Descriptor, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, core.Describe(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Descriptors returns the listing surface shape: a map keyed by agent name.
func (r *Registry) Descriptors() map[string]core.Descriptor {
	list := r.List()
	out := make(map[string]core.Descriptor, len(list))
	for _, d := range list {
		out[d.Name] = d
	}
	return out
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
