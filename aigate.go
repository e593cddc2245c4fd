// Package aigate wires the dispatch core into a single chat-facing service:
// keyword routing in front, the frozen agent registry and dispatcher behind
// it, and the multi-tier pipeline for advanced routes.
//
// The package is intentionally a thin composition layer. All behavior lives
// in the subpackages (router, dispatch, pipeline, agent); Service only
// decides which of the three paths a message takes:
//
//	svc, err := aigate.New(func(o *aigate.Options) {
//		o.Model = ollama.NewModel()
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	reply, err := svc.Chat(ctx, "tìm kiếm AI trong giáo dục", nil)
package aigate

import (
	"context"
	"strings"

	"github.com/lamvt/aigate/agent"
	"github.com/lamvt/aigate/core"
	"github.com/lamvt/aigate/dispatch"
	"github.com/lamvt/aigate/logging"
	"github.com/lamvt/aigate/metrics"
	"github.com/lamvt/aigate/model"
	"github.com/lamvt/aigate/pipeline"
	"github.com/lamvt/aigate/registry"
	"github.com/lamvt/aigate/router"
)

// Options configure service construction.
type Options struct {
	// Model is the text generation backend shared by all catalog agents.
	// Defaults to the in-memory mock.
	Model model.Model

	// Specs overrides the default agent catalog. Nil selects agent.Catalog().
	Specs []agent.Spec

	// Router overrides the default rule table.
	Router *router.Router

	// Logger is propagated to the dispatcher and pipeline. Defaults to no-op.
	Logger logging.Logger

	// Metrics is propagated to the dispatcher and pipeline. Optional.
	Metrics *metrics.Metrics

	// PipelineOptions are applied on top of the pipeline defaults.
	PipelineOptions []func(o *pipeline.Options)
}

// Service is the assembled chat service.
type Service struct {
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	router     *router.Router
	pipeline   *pipeline.Pipeline
}

// New builds the registry from the agent catalog, freezes it and assembles
// the dispatcher, router and pipeline around it. A catalog with duplicate or
// invalid names fails construction.
func New(optFns ...func(o *Options)) (*Service, error) {
	opts := Options{
		Model:  model.NewMock("mock"),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	reg, err := agent.BuildRegistry(opts.Model, opts.Specs)
	if err != nil {
		return nil, err
	}

	d := dispatch.New(reg, func(o *dispatch.Options) {
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
	})

	rt := opts.Router
	if rt == nil {
		rt = router.Default()
	}

	pipeOpts := append([]func(o *pipeline.Options){func(o *pipeline.Options) {
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
	}}, opts.PipelineOptions...)

	return &Service{
		registry:   reg,
		dispatcher: d,
		router:     rt,
		pipeline:   pipeline.New(d, pipeOpts...),
	}, nil
}

// Registry returns the frozen agent registry.
func (s *Service) Registry() *registry.Registry { return s.registry }

// Dispatcher returns the dispatcher for direct agent invocation.
func (s *Service) Dispatcher() *dispatch.Dispatcher { return s.dispatcher }

// Router returns the rule table router.
func (s *Service) Router() *router.Router { return s.router }

// Pipeline returns the multi-tier pipeline.
func (s *Service) Pipeline() *pipeline.Pipeline { return s.pipeline }

// Reply kinds emitted by Chat.
const (
	ReplyTypeStatic   = "reply"
	ReplyTypeAgent    = "agent"
	ReplyTypePipeline = "pipeline"
)

// ChatReply is the outcome of one chat turn. Exactly one of Reply, Response
// or Pipeline is populated, selected by Type.
type ChatReply struct {
	Type     string           `json:"type"`
	Rule     string           `json:"rule"`
	Reply    string           `json:"reply,omitempty"`
	Response *core.Response   `json:"response,omitempty"`
	Pipeline *pipeline.Result `json:"pipeline,omitempty"`
}

// Chat routes one message and executes the selected path: a static reply is
// returned as-is, an agent route is dispatched once, and an advanced route
// runs the full pipeline.
func (s *Service) Chat(ctx context.Context, message string, meta map[string]any) (*ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, &core.BadRequestError{Reason: "message must not be empty"}
	}

	route := s.router.Route(message)

	switch {
	case route.IsStatic():
		return &ChatReply{Type: ReplyTypeStatic, Rule: route.Rule, Reply: route.Reply}, nil

	case route.Advanced:
		result, err := s.pipeline.Run(ctx, message, meta)
		if err != nil {
			return nil, err
		}
		return &ChatReply{Type: ReplyTypePipeline, Rule: route.Rule, Pipeline: result}, nil

	default:
		resp, err := s.dispatcher.Dispatch(ctx, &core.Request{
			AgentName: route.Agent,
			Task:      route.Task,
			Data:      route.Data,
			Context:   meta,
		})
		if err != nil {
			return nil, err
		}
		return &ChatReply{Type: ReplyTypeAgent, Rule: route.Rule, Response: resp}, nil
	}
}
