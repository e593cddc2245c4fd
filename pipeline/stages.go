package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/lamvt/aigate/core"
)

// vietnameseMarks holds diacritic runes that only occur in Vietnamese text.
// Presence of any of them flips language detection to "vi".
const vietnameseMarks = "ăâđêôơưáàảãạắằẳẵặấầẩẫậéèẻẽẹếềểễệíìỉĩịóòỏõọốồổỗộớờởỡợúùủũụứừửữựýỳỷỹỵ"

var stopwords = map[string]bool{
	// Vietnamese
	"và": true, "là": true, "của": true, "cho": true, "với": true,
	"trong": true, "các": true, "những": true, "một": true, "có": true,
	"được": true, "này": true, "khi": true, "về": true, "hãy": true,
	// English
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"of": true, "in": true, "to": true, "for": true, "is": true,
	"on": true, "with": true, "this": true, "that": true,
}

var questionHints = []string{
	"?", "tại sao", "như thế nào", "là gì", "bao nhiêu", "ở đâu",
	"why", "how", "what", "where", "when",
}

var searchHints = []string{
	"tìm", "kiếm", "tra cứu", "search", "tin tức",
}

// analysisResult is the output of the analysis stage.
type analysisResult struct {
	Intent   string
	Language string
	Keywords []string
	Tokens   int
}

func (a analysisResult) output() map[string]any {
	return map[string]any{
		"intent":   a.Intent,
		"language": a.Language,
		"keywords": a.Keywords,
		"tokens":   a.Tokens,
	}
}

func (a analysisResult) quality() float64 {
	if len(a.Keywords) == 0 {
		return 0.2
	}
	return 1.0
}

// analyze tokenizes the message, strips stopwords and classifies intent and
// language. It is deterministic and never fails.
func (p *Pipeline) analyze(message string) analysisResult {
	lower := strings.ToLower(message)

	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	keywords := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if stopwords[tok] {
			continue
		}
		keywords = append(keywords, tok)
	}

	language := "en"
	if strings.ContainsAny(lower, vietnameseMarks) {
		language = "vi"
	}

	intent := "request"
	for _, hint := range questionHints {
		if strings.Contains(lower, hint) {
			intent = "question"
			break
		}
	}
	if intent == "request" {
		for _, hint := range searchHints {
			if strings.Contains(lower, hint) {
				intent = "search"
				break
			}
		}
	}

	return analysisResult{
		Intent:   intent,
		Language: language,
		Keywords: keywords,
		Tokens:   len(tokens),
	}
}

// candidate is one routing selection: an agent name plus its capability
// overlap score.
type candidate struct {
	Agent string
	Score int
}

// route scores every registered agent by capability overlap with the
// detected keywords and keeps the top MaxCandidates. Ties break on name so
// selection is deterministic. With no overlap at all the fallback agent is
// selected alone, if configured and registered.
func (p *Pipeline) route(analysis analysisResult) []candidate {
	var scored []candidate
	for _, desc := range p.registry.List() {
		score := capabilityScore(desc.Capabilities, analysis.Keywords)
		if score > 0 {
			scored = append(scored, candidate{Agent: desc.Name, Score: score})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Agent < scored[j].Agent
	})

	if len(scored) > p.opts.MaxCandidates {
		scored = scored[:p.opts.MaxCandidates]
	}

	if len(scored) == 0 && p.opts.FallbackAgent != "" {
		if _, ok := p.registry.Lookup(p.opts.FallbackAgent); ok {
			scored = append(scored, candidate{Agent: p.opts.FallbackAgent})
		}
	}

	return scored
}

// capabilityScore counts capability tags that overlap the keyword set. A tag
// matches when it equals a keyword or one contains the other, which lets
// multi-word Vietnamese tags ("tìm kiếm") match single-word tokens.
func capabilityScore(capabilities, keywords []string) int {
	score := 0
	for _, capability := range capabilities {
		tag := strings.ToLower(capability)
		for _, kw := range keywords {
			if tag == kw || strings.Contains(tag, kw) || strings.Contains(kw, tag) {
				score++
				break
			}
		}
	}
	return score
}

func routingOutput(candidates []candidate) map[string]any {
	list := make([]any, 0, len(candidates))
	for _, c := range candidates {
		list = append(list, map[string]any{"agent": c.Agent, "score": c.Score})
	}
	return map[string]any{"candidates": list, "count": len(candidates)}
}

func (p *Pipeline) routingQuality(candidates []candidate) float64 {
	if p.opts.MaxCandidates == 0 {
		return 0
	}
	q := float64(len(candidates)) / float64(p.opts.MaxCandidates)
	if q > 1 {
		q = 1
	}
	return q
}

// agentResult is one processing-stage outcome. Failed dispatches are kept as
// records rather than errors so a single agent failure never aborts the run.
type agentResult struct {
	Agent      string
	Success    bool
	Confidence float64
	Payload    core.Result
	Err        string
}

// process fans the message out to every candidate through the dispatcher,
// at most FanOut invocations in flight. Individual dispatch errors become
// failure records; only a dead context aborts.
func (p *Pipeline) process(ctx context.Context, message string, analysis analysisResult, candidates []candidate, meta map[string]any) ([]agentResult, error) {
	results := make([]agentResult, len(candidates))

	g := new(errgroup.Group)
	g.SetLimit(p.opts.FanOut)

	for i, c := range candidates {
		g.Go(func() error {
			req := &core.Request{
				AgentName: c.Agent,
				Task:      "process",
				Data: map[string]any{
					"query":    message,
					"intent":   analysis.Intent,
					"keywords": analysis.Keywords,
				},
				Context: meta,
			}

			resp, err := p.dispatcher.Dispatch(ctx, req)
			if err != nil {
				results[i] = agentResult{Agent: c.Agent, Err: err.Error()}
				return nil
			}
			results[i] = agentResult{
				Agent:      c.Agent,
				Success:    true,
				Confidence: resp.Confidence,
				Payload:    resp.Response,
			}
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func processingOutput(results []agentResult) map[string]any {
	list := make([]any, 0, len(results))
	succeeded := 0
	for _, r := range results {
		entry := map[string]any{"agent": r.Agent, "success": r.Success}
		if r.Success {
			succeeded++
			entry["confidence"] = r.Confidence
		} else {
			entry["error"] = r.Err
		}
		list = append(list, entry)
	}
	return map[string]any{"results": list, "succeeded": succeeded, "total": len(results)}
}

func processingQuality(results []agentResult) float64 {
	if len(results) == 0 {
		return 0
	}
	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	return float64(succeeded) / float64(len(results))
}

// filter drops failed results, results below the confidence threshold and
// duplicate payloads (by canonical fingerprint). The first occurrence of a
// duplicate payload wins.
func (p *Pipeline) filter(results []agentResult) (kept []agentResult, dropped int) {
	seen := make(map[uint64]bool, len(results))
	for _, r := range results {
		if !r.Success || r.Confidence < p.opts.FilterThreshold {
			dropped++
			continue
		}
		fp := core.Fingerprint(r.Payload)
		if seen[fp] {
			dropped++
			continue
		}
		seen[fp] = true
		kept = append(kept, r)
	}
	return kept, dropped
}

func filteringOutput(kept []agentResult, dropped int) map[string]any {
	agents := make([]string, 0, len(kept))
	for _, r := range kept {
		agents = append(agents, r.Agent)
	}
	return map[string]any{"kept": agents, "kept_count": len(kept), "dropped": dropped}
}

func filteringQuality(kept, all []agentResult) float64 {
	if len(all) == 0 {
		return 0
	}
	return float64(len(kept)) / float64(len(all))
}

// synthesisResult is the merged answer built from the surviving results.
type synthesisResult struct {
	Answer        string
	Sections      []agentResult
	topConfidence float64
	Empty         bool
}

func (s synthesisResult) output() map[string]any {
	sections := make([]any, 0, len(s.Sections))
	agents := make([]string, 0, len(s.Sections))
	for _, sec := range s.Sections {
		agents = append(agents, sec.Agent)
		sections = append(sections, map[string]any{
			"agent":      sec.Agent,
			"text":       sec.Payload.Text(),
			"confidence": sec.Confidence,
		})
	}
	return map[string]any{
		"answer":   s.Answer,
		"sections": sections,
		"agents":   agents,
		"empty":    s.Empty,
	}
}

// synthesize orders the surviving results by confidence (descending, name
// ascending on ties) and joins their texts into one answer. An empty input
// is a valid outcome: the answer is empty and Empty is set.
func synthesize(kept []agentResult) synthesisResult {
	if len(kept) == 0 {
		return synthesisResult{Empty: true}
	}

	ordered := make([]agentResult, len(kept))
	copy(ordered, kept)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Confidence != ordered[j].Confidence {
			return ordered[i].Confidence > ordered[j].Confidence
		}
		return ordered[i].Agent < ordered[j].Agent
	})

	var b strings.Builder
	for i, r := range ordered {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if len(ordered) > 1 {
			fmt.Fprintf(&b, "[%s]\n", r.Agent)
		}
		b.WriteString(r.Payload.Text())
	}

	return synthesisResult{
		Answer:        b.String(),
		Sections:      ordered,
		topConfidence: ordered[0].Confidence,
	}
}

// qualityScores holds the evaluation-stage metrics.
type qualityScores struct {
	Coverage   float64
	Coherence  float64
	Confidence float64
	Overall    float64
}

func (q qualityScores) output() map[string]any {
	return map[string]any{
		"coverage":   q.Coverage,
		"coherence":  q.Coherence,
		"confidence": q.Confidence,
		"overall":    q.Overall,
	}
}

// evaluate scores the synthesized answer. Coverage is the fraction of
// candidates that survived filtering; coherence degrades with section count;
// confidence is the mean surviving confidence; overall is their arithmetic
// mean. An empty synthesis scores zero across the board but stays a success.
func evaluate(synth synthesisResult, kept []agentResult, candidates int) qualityScores {
	if synth.Empty {
		return qualityScores{}
	}

	var scores qualityScores

	if candidates > 0 {
		scores.Coverage = float64(len(kept)) / float64(candidates)
	}

	scores.Coherence = 1 - 0.1*float64(len(synth.Sections)-1)
	if scores.Coherence < 0.5 {
		scores.Coherence = 0.5
	}

	var sum float64
	for _, r := range kept {
		sum += r.Confidence
	}
	scores.Confidence = sum / float64(len(kept))

	scores.Overall = (scores.Coverage + scores.Coherence + scores.Confidence) / 3
	return scores
}
