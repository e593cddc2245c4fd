package agent

// BaseAgent bundles the immutable identity every concrete agent carries.
// Embed it and supply a Process method to satisfy core.Agent. All fields
// are fixed at construction; BaseAgent has no mutable state.
type BaseAgent struct {
	name         string
	displayName  string
	description  string
	capabilities []string
}

// NewBaseAgent constructs a BaseAgent with the given identity.
func NewBaseAgent(name, displayName, description string, capabilities ...string) BaseAgent {
	caps := make([]string, len(capabilities))
	copy(caps, capabilities)
	return BaseAgent{
		name:         name,
		displayName:  displayName,
		description:  description,
		capabilities: caps,
	}
}

// Name returns the registry identifier for this agent.
func (b *BaseAgent) Name() string { return b.name }

// DisplayName returns the human-readable name.
func (b *BaseAgent) DisplayName() string { return b.displayName }

// Description returns a detailed description of this agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// Capabilities returns a copy of the capability tags used by the pipeline's
// routing stage.
func (b *BaseAgent) Capabilities() []string {
	out := make([]string, len(b.capabilities))
	copy(out, b.capabilities)
	return out
}
