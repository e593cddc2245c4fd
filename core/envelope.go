package core

// DefaultConfidence is assumed when an agent result omits the
// "confidence" key.
const DefaultConfidence = 0.8

// Request is the inbound dispatch envelope. AgentName is supplied
// out-of-band (path parameter at the HTTP edge, call argument in-process)
// and therefore excluded from the JSON body.
type Request struct {
	AgentName string         `json:"-"`
	Task      string         `json:"task"`
	Data      map[string]any `json:"data"`
	Context   map[string]any `json:"context,omitempty"`
}

// Validate performs structural validation of the envelope. Failures are
// reported as *BadRequestError so the HTTP edge maps them to client errors.
func (r *Request) Validate() error {
	if r.AgentName == "" {
		return &BadRequestError{Reason: "agent name must not be empty"}
	}
	if r.Task == "" {
		return &BadRequestError{Reason: "task must not be empty"}
	}
	if r.Data == nil {
		return &BadRequestError{Reason: "data mapping is required (may be empty)"}
	}
	return nil
}

// Response is the outbound dispatch envelope. ProcessingTime is measured on
// a monotonic clock around the worker call and expressed in seconds.
type Response struct {
	Agent          string   `json:"agent"`
	Task           string   `json:"task"`
	Response       Result   `json:"response"`
	Confidence     float64  `json:"confidence"`
	ProcessingTime float64  `json:"processing_time"`
	Suggestions    []string `json:"suggestions"`
}

// Result is the mapping an agent returns from Process. Accessors apply the
// documented defaults so callers never branch on missing keys.
type Result map[string]any

// Success reports the required "success" flag; a missing or mistyped value
// counts as failure.
func (r Result) Success() bool {
	ok, _ := r["success"].(bool)
	return ok
}

// Confidence returns the "confidence" value clamped to [0,1], defaulting to
// DefaultConfidence when absent.
func (r Result) Confidence() float64 {
	v, ok := toFloat(r["confidence"])
	if !ok {
		return DefaultConfidence
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Suggestions returns the "suggestions" sequence, defaulting to empty.
// Both []string and []any (post-JSON) shapes are accepted.
func (r Result) Suggestions() []string {
	switch v := r["suggestions"].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// Text returns the "text" payload string, defaulting to empty.
func (r Result) Text() string {
	s, _ := r["text"].(string)
	return s
}

// ErrorMessage returns the "error" string, present iff Success is false.
func (r Result) ErrorMessage() string {
	s, _ := r["error"].(string)
	return s
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
