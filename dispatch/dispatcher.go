// Package dispatch resolves an agent by name, invokes its Process exactly
// once and wraps the result with timing and provenance metadata.
//
// The dispatcher performs no retry, no caching and no deduplication. Errors
// are surfaced verbatim; only the outermost HTTP adapter translates them to
// transport status codes.
package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/lamvt/aigate/core"
	"github.com/lamvt/aigate/logging"
	"github.com/lamvt/aigate/metrics"
	"github.com/lamvt/aigate/registry"
)

// Options configures a Dispatcher.
type Options struct {
	// Logger receives per-dispatch records. Defaults to no-op.
	Logger logging.Logger

	// Metrics receives dispatch counters and latencies. Optional.
	Metrics *metrics.Metrics
}

// Dispatcher holds a non-owning reference to the frozen Registry and
// executes request envelopes against it.
type Dispatcher struct {
	registry *registry.Registry
	logger   *logging.ServiceLogger
	metrics  *metrics.Metrics
}

// New creates a Dispatcher over reg.
func New(reg *registry.Registry, optFns ...func(o *Options)) *Dispatcher {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Dispatcher{
		registry: reg,
		logger:   logging.NewServiceLogger(opts.Logger).WithComponent("dispatch"),
		metrics:  opts.Metrics,
	}
}

// Dispatch validates the envelope, resolves the agent and invokes it once.
//
// Error mapping follows the service error taxonomy:
//   - structural envelope problems: *core.BadRequestError
//   - unresolvable name: *core.UnknownAgentError
//   - Process error or success=false result: *core.AgentFailureError
//   - expired deadline: *core.TimeoutError
func (d *Dispatcher) Dispatch(ctx context.Context, req *core.Request) (*core.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	agent, ok := d.registry.Lookup(req.AgentName)
	if !ok {
		return nil, &core.UnknownAgentError{Name: req.AgentName}
	}

	start := time.Now()
	result, err := agent.Process(ctx, req.Task, req.Data, req.Context)
	elapsed := time.Since(start)

	if err != nil {
		d.observe(agent.Name(), req.Task, elapsed, err)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &core.TimeoutError{Op: "agent " + agent.Name(), Err: err}
		}
		return nil, &core.AgentFailureError{Agent: agent.Name(), Task: req.Task, Err: err}
	}

	if result == nil {
		err = errors.New("agent returned no result mapping")
		d.observe(agent.Name(), req.Task, elapsed, err)
		return nil, &core.AgentFailureError{Agent: agent.Name(), Task: req.Task, Err: err}
	}

	if !result.Success() {
		err = errors.New(failureMessage(result))
		d.observe(agent.Name(), req.Task, elapsed, err)
		return nil, &core.AgentFailureError{Agent: agent.Name(), Task: req.Task, Err: err}
	}

	d.observe(agent.Name(), req.Task, elapsed, nil)

	return &core.Response{
		Agent:          agent.Name(),
		Task:           req.Task,
		Response:       result,
		Confidence:     result.Confidence(),
		ProcessingTime: elapsed.Seconds(),
		Suggestions:    result.Suggestions(),
	}, nil
}

// Registry exposes the underlying registry for read-only consumers (the
// pipeline's routing stage, the listing endpoint).
func (d *Dispatcher) Registry() *registry.Registry { return d.registry }

func (d *Dispatcher) observe(agent, task string, dur time.Duration, err error) {
	d.logger.LogDispatch(agent, task, dur, err == nil, err)
	if d.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	d.metrics.ObserveDispatch(agent, outcome, dur)
}

func failureMessage(result core.Result) string {
	if msg := result.ErrorMessage(); msg != "" {
		return msg
	}
	return "agent reported failure without error message"
}
