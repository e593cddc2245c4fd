package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamvt/aigate/core"
	"github.com/lamvt/aigate/dispatch"
	"github.com/lamvt/aigate/registry"
)

type stubAgent struct {
	name   string
	caps   []string
	result core.Result
	err    error
	delay  time.Duration
}

func (s *stubAgent) Name() string           { return s.name }
func (s *stubAgent) DisplayName() string    { return s.name }
func (s *stubAgent) Description() string    { return "stub" }
func (s *stubAgent) Capabilities() []string { return s.caps }

func (s *stubAgent) Process(ctx context.Context, task string, data, meta map[string]any) (core.Result, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newPipeline(t *testing.T, agents ...*stubAgent) *Pipeline {
	t.Helper()
	reg := registry.New()
	for _, a := range agents {
		require.NoError(t, reg.Register(a))
	}
	reg.Freeze()
	return New(dispatch.New(reg))
}

func searchStub(name, text string, confidence float64) *stubAgent {
	return &stubAgent{
		name: name,
		caps: []string{"tìm kiếm"},
		result: core.Result{
			"success":    true,
			"text":       text,
			"confidence": confidence,
		},
	}
}

const searchMessage = "tìm kiếm AI trong giáo dục"

func TestRunStageOrder(t *testing.T) {
	p := newPipeline(t, searchStub("alpha", "kết quả alpha", 0.9))

	result, err := p.Run(context.Background(), searchMessage, nil)
	require.NoError(t, err)

	require.Len(t, result.Stages, len(StageOrder))
	for i, stage := range result.Stages {
		assert.Equal(t, StageOrder[i], stage.Name)
		assert.NotNil(t, stage.Output)
	}
	assert.NotEmpty(t, result.PipelineID)
	assert.GreaterOrEqual(t, result.ProcessingTime, 0.0)
}

func TestRunFreshPipelineID(t *testing.T) {
	p := newPipeline(t, searchStub("alpha", "kết quả", 0.9))

	first, err := p.Run(context.Background(), searchMessage, nil)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), searchMessage, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.PipelineID, second.PipelineID)
}

func TestRunPartialAgentFailure(t *testing.T) {
	failing := &stubAgent{
		name: "bravo",
		caps: []string{"tìm kiếm"},
		err:  errors.New("backend unavailable"),
	}
	p := newPipeline(t,
		searchStub("alpha", "kết quả alpha", 0.9),
		failing,
		searchStub("charlie", "kết quả charlie", 0.8),
	)

	result, err := p.Run(context.Background(), searchMessage, nil)
	require.NoError(t, err)

	// One of three candidates failed: two sections survive and coverage
	// reflects the loss.
	assert.Equal(t, []any{"alpha", "charlie"}, toAnySlice(result.FinalResponse["agents"]))
	assert.Less(t, result.QualityScores["coverage"], 1.0)
	assert.Greater(t, result.QualityScores["overall"], 0.0)

	answer, _ := result.FinalResponse["answer"].(string)
	assert.Contains(t, answer, "kết quả alpha")
	assert.Contains(t, answer, "kết quả charlie")
}

func TestRunAllAgentsFailIsStillSuccess(t *testing.T) {
	p := newPipeline(t,
		&stubAgent{name: "alpha", caps: []string{"tìm kiếm"}, err: errors.New("down")},
		&stubAgent{name: "bravo", caps: []string{"tìm kiếm"}, result: core.Result{"success": false, "error": "no data"}},
	)

	result, err := p.Run(context.Background(), searchMessage, nil)
	require.NoError(t, err)

	assert.Equal(t, true, result.FinalResponse["empty"])
	assert.Equal(t, "", result.FinalResponse["answer"])
	assert.Zero(t, result.QualityScores["overall"])
	assert.Zero(t, result.Confidence)
	assert.Len(t, result.Stages, len(StageOrder))
}

func TestRunFiltersLowConfidenceAndDuplicates(t *testing.T) {
	p := newPipeline(t,
		searchStub("alpha", "bản tin chung", 0.9),
		searchStub("bravo", "bản tin chung", 0.9),  // duplicate payload of alpha
		searchStub("charlie", "tin mờ nhạt", 0.2), // below threshold
	)

	result, err := p.Run(context.Background(), searchMessage, nil)
	require.NoError(t, err)

	agents := toAnySlice(result.FinalResponse["agents"])
	require.Len(t, agents, 1)
	assert.Equal(t, "alpha", agents[0])

	filtering := result.Stages[3]
	require.Equal(t, StageFiltering, filtering.Name)
	assert.Equal(t, 2, filtering.Output["dropped"])
}

func TestRunDeadlineAborts(t *testing.T) {
	p := newPipeline(t, &stubAgent{
		name:   "alpha",
		caps:   []string{"tìm kiếm"},
		delay:  200 * time.Millisecond,
		result: core.Result{"success": true, "text": "quá muộn"},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Run(ctx, searchMessage, nil)
	require.Error(t, err)

	var aborted *core.PipelineAbortedError
	require.ErrorAs(t, err, &aborted)
	assert.Equal(t, StageProcessing, aborted.Stage)

	// Completed stage outputs survive in the partial map.
	assert.Contains(t, aborted.Partial, StageAnalysis)
	assert.Contains(t, aborted.Partial, StageRouting)
	assert.NotContains(t, aborted.Partial, StageProcessing)

	var timeout *core.TimeoutError
	assert.ErrorAs(t, err, &timeout)
}

func TestRouteFallbackWhenNoOverlap(t *testing.T) {
	general := &stubAgent{
		name:   "general",
		caps:   []string{"chung"},
		result: core.Result{"success": true, "text": "câu trả lời chung"},
	}
	p := newPipeline(t, general, searchStub("alpha", "x", 0.9))

	result, err := p.Run(context.Background(), "zzz qqq", nil)
	require.NoError(t, err)

	assert.Equal(t, []any{"general"}, toAnySlice(result.FinalResponse["agents"]))
}

func TestRouteDeterministicOrder(t *testing.T) {
	p := newPipeline(t,
		searchStub("delta", "d", 0.5),
		searchStub("alpha", "a", 0.5),
		searchStub("bravo", "b", 0.5),
		searchStub("charlie", "c", 0.5),
	)

	analysis := p.analyze(searchMessage)
	candidates := p.route(analysis)

	// Equal scores: alphabetical order, capped at MaxCandidates.
	require.Len(t, candidates, 3)
	assert.Equal(t, "alpha", candidates[0].Agent)
	assert.Equal(t, "bravo", candidates[1].Agent)
	assert.Equal(t, "charlie", candidates[2].Agent)
}

func TestAnalyzeVietnamese(t *testing.T) {
	p := newPipeline(t, searchStub("alpha", "x", 0.9))

	analysis := p.analyze(searchMessage)

	assert.Equal(t, "vi", analysis.Language)
	assert.Equal(t, "search", analysis.Intent)
	assert.Contains(t, analysis.Keywords, "ai")
	assert.NotContains(t, analysis.Keywords, "trong") // stopword
}

func TestSynthesizeOrdersByConfidence(t *testing.T) {
	synth := synthesize([]agentResult{
		{Agent: "low", Confidence: 0.5, Payload: core.Result{"text": "thấp"}, Success: true},
		{Agent: "high", Confidence: 0.9, Payload: core.Result{"text": "cao"}, Success: true},
	})

	require.Len(t, synth.Sections, 2)
	assert.Equal(t, "high", synth.Sections[0].Agent)
	assert.InDelta(t, 0.9, synth.topConfidence, 1e-9)
	assert.True(t, len(synth.Answer) > 0)
}

func toAnySlice(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}
