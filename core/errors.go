package core

import (
	"errors"
	"fmt"
)

// UnknownAgentError reports a dispatch against a name absent from the
// registry. Surfaced to callers as a client error.
type UnknownAgentError struct {
	Name string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("unknown agent %q", e.Name)
}

// BadRequestError reports a request envelope that failed structural
// validation. Surfaced to callers as a client error.
type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("bad request: %s", e.Reason)
}

// AgentFailureError reports that an agent's Process either returned an
// error or produced a result with success=false. Never retried.
type AgentFailureError struct {
	Agent string
	Task  string
	Err   error
}

func (e *AgentFailureError) Error() string {
	return fmt.Sprintf("agent %s failed on task %s: %v", e.Agent, e.Task, e.Err)
}

func (e *AgentFailureError) Unwrap() error { return e.Err }

// TimeoutError reports an expired deadline while waiting on the model
// backend or a child invocation. Op names the operation that timed out.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout during %s: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// PipelineAbortedError reports a raising pipeline stage. Partial holds the
// outputs of the stages that completed before the abort, keyed by stage
// name, so failures remain localizable.
type PipelineAbortedError struct {
	Stage   string
	Partial map[string]map[string]any
	Err     error
}

func (e *PipelineAbortedError) Error() string {
	return fmt.Sprintf("pipeline aborted at stage %s: %v", e.Stage, e.Err)
}

func (e *PipelineAbortedError) Unwrap() error { return e.Err }

// DuplicateNameError reports a registry collision. Startup-only; aborts
// process initialization.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("agent name %q already registered", e.Name)
}

// IsClientError reports whether err should map to a 4xx status at the HTTP
// edge. Everything else is a server error.
func IsClientError(err error) bool {
	var unknown *UnknownAgentError
	var bad *BadRequestError
	return errors.As(err, &unknown) || errors.As(err, &bad)
}
