// Package pipeline implements the multi-tier processing pass used for
// advanced routes: a fixed seven-stage sequence (analysis, routing,
// processing, filtering, synthesis, evaluation, response) over the frozen
// agent registry.
//
// Every stage is a pure function of the previous stage's output plus a
// read-only view of the registry; the only concurrency is the bounded
// fan-out inside the processing stage. Stage outputs are recorded in order
// so failures stay localizable, and a raising stage aborts the run with
// the partial records attached.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lamvt/aigate/core"
	"github.com/lamvt/aigate/dispatch"
	"github.com/lamvt/aigate/logging"
	"github.com/lamvt/aigate/metrics"
	"github.com/lamvt/aigate/registry"
)

// Stage names in their fixed execution order.
const (
	StageAnalysis   = "analysis"
	StageRouting    = "routing"
	StageProcessing = "processing"
	StageFiltering  = "filtering"
	StageSynthesis  = "synthesis"
	StageEvaluation = "evaluation"
	StageResponse   = "response"
)

// StageOrder lists the seven stages in execution order.
var StageOrder = []string{
	StageAnalysis,
	StageRouting,
	StageProcessing,
	StageFiltering,
	StageSynthesis,
	StageEvaluation,
	StageResponse,
}

// Options configure a Pipeline.
type Options struct {
	// MaxCandidates caps how many agents the routing stage selects (K).
	MaxCandidates int
	// FanOut bounds concurrent agent invocations in the processing stage (F).
	FanOut int
	// FilterThreshold drops results below this confidence (T_f).
	FilterThreshold float64
	// FallbackAgent is dispatched when no capability intersects the
	// detected keywords. Empty disables the fallback.
	FallbackAgent string
	// Logger receives per-run records. Defaults to no-op.
	Logger logging.Logger
	// Metrics receives run counters and latencies. Optional.
	Metrics *metrics.Metrics
}

// Pipeline executes the seven-stage pass. It holds non-owning references to
// the dispatcher and its registry.
type Pipeline struct {
	dispatcher *dispatch.Dispatcher
	registry   *registry.Registry
	opts       Options
	logger     *logging.ServiceLogger
}

// New creates a Pipeline over d with conservative defaults: K=3, F=4,
// T_f=0.4, fallback to the "general" agent.
func New(d *dispatch.Dispatcher, optFns ...func(o *Options)) *Pipeline {
	opts := Options{
		MaxCandidates:   3,
		FanOut:          4,
		FilterThreshold: 0.4,
		FallbackAgent:   "general",
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = 3
	}
	if opts.FanOut <= 0 {
		opts.FanOut = 4
	}

	return &Pipeline{
		dispatcher: d,
		registry:   d.Registry(),
		opts:       opts,
		logger:     logging.NewServiceLogger(opts.Logger).WithComponent("pipeline"),
	}
}

// Result is the record emitted by a successful run. Stages preserves the
// per-stage outputs in execution order.
type Result struct {
	PipelineID     string             `json:"pipeline_id"`
	FinalResponse  map[string]any     `json:"final_response"`
	QualityScores  map[string]float64 `json:"quality_scores"`
	ProcessingTime float64            `json:"processing_time"`
	Confidence     float64            `json:"confidence"`
	Stages         []StageRecord      `json:"stages"`
}

// StageRecord captures one stage's output and quality score.
type StageRecord struct {
	Name    string         `json:"name"`
	Output  map[string]any `json:"output"`
	Quality float64        `json:"quality"`
}

// Run executes all seven stages for one message. An empty-result run is a
// success (scenario: every candidate failing yields an empty answer with
// zero scores); only a raising stage or an expired deadline aborts.
func (p *Pipeline) Run(ctx context.Context, message string, meta map[string]any) (*Result, error) {
	pipelineID := uuid.NewString()
	start := time.Now()

	var records []StageRecord
	record := func(name string, output map[string]any, quality float64) {
		records = append(records, StageRecord{Name: name, Output: output, Quality: quality})
	}

	abort := func(stage string, err error) error {
		partial := make(map[string]map[string]any, len(records))
		for _, r := range records {
			partial[r.Name] = r.Output
		}
		if errors.Is(err, context.DeadlineExceeded) {
			err = &core.TimeoutError{Op: "stage " + stage, Err: err}
		}
		aborted := &core.PipelineAbortedError{Stage: stage, Partial: partial, Err: err}
		p.observe(pipelineID, len(records), time.Since(start), aborted)
		return aborted
	}

	analysis := p.analyze(message)
	record(StageAnalysis, analysis.output(), analysis.quality())

	candidates := p.route(analysis)
	record(StageRouting, routingOutput(candidates), p.routingQuality(candidates))

	results, err := p.process(ctx, message, analysis, candidates, meta)
	if err != nil {
		return nil, abort(StageProcessing, err)
	}
	record(StageProcessing, processingOutput(results), processingQuality(results))

	kept, dropped := p.filter(results)
	record(StageFiltering, filteringOutput(kept, dropped), filteringQuality(kept, results))

	synth := synthesize(kept)
	record(StageSynthesis, synth.output(), synth.topConfidence)

	scores := evaluate(synth, kept, len(candidates))
	record(StageEvaluation, scores.output(), scores.Overall)

	elapsed := time.Since(start)
	final := map[string]any{
		"final_response":  synth.output(),
		"quality_scores":  scores.output(),
		"pipeline_id":     pipelineID,
		"processing_time": elapsed.Seconds(),
		"confidence":      scores.Confidence,
	}
	record(StageResponse, final, scores.Overall)

	p.observe(pipelineID, len(records), elapsed, nil)

	return &Result{
		PipelineID:     pipelineID,
		FinalResponse:  synth.output(),
		QualityScores: map[string]float64{
			"coverage":   scores.Coverage,
			"coherence":  scores.Coherence,
			"confidence": scores.Confidence,
			"overall":    scores.Overall,
		},
		ProcessingTime: elapsed.Seconds(),
		Confidence:     scores.Confidence,
		Stages:         records,
	}, nil
}

func (p *Pipeline) observe(pipelineID string, stages int, dur time.Duration, err error) {
	p.logger.LogPipelineRun(pipelineID, stages, dur, err)
	if p.opts.Metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "aborted"
	}
	p.opts.Metrics.ObservePipeline(outcome, dur)
}
