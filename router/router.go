// Package router maps free-form user text to a route: a static reply, an
// agent invocation, or the multi-tier pipeline path.
//
// Routing is deliberately cheap, deterministic and auditable: rules are
// data, evaluated in priority order with case-insensitive substring
// matching, and the first matching rule wins. The router never consults the
// registry; it commits to a route and leaves resolution to the dispatcher.
package router

import (
	"sort"
	"strings"
)

// Rule is one entry of the ordered rule table. Exactly one of ReplyKey,
// Agent or Advanced decides the route kind. Keywords must be lower-case.
type Rule struct {
	Name     string            `yaml:"name"`
	Keywords []string          `yaml:"keywords"`
	Priority int               `yaml:"priority"`
	ReplyKey string            `yaml:"reply,omitempty"`
	Agent    string            `yaml:"agent,omitempty"`
	Task     string            `yaml:"task,omitempty"`
	Data     map[string]string `yaml:"data,omitempty"`
	Advanced bool              `yaml:"advanced,omitempty"`
}

// Route is the committed routing decision for one message.
type Route struct {
	Rule     string
	Reply    string
	Agent    string
	Task     string
	Data     map[string]any
	Advanced bool
}

// IsStatic reports whether the route is a pre-written reply that requires
// no agent invocation.
func (r Route) IsStatic() bool { return r.Agent == "" && !r.Advanced }

// DefaultReplyKey names the informational reply emitted when no rule
// matches.
const DefaultReplyKey = "default"

// Router evaluates an ordered rule table against user messages. It is pure
// over the message and the table: same input, same route.
type Router struct {
	rules   []Rule
	replies map[string]string
}

// New builds a Router. Rules are ordered by ascending Priority with
// declaration order as the tie-break; replies is the localized string table
// referenced by rule ReplyKeys.
func New(rules []Rule, replies map[string]string) *Router {
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	if replies == nil {
		replies = map[string]string{}
	}
	return &Router{rules: ordered, replies: replies}
}

// Rules returns a copy of the ordered rule table for auditing.
func (r *Router) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Route selects the first rule whose keyword set matches the lower-cased
// message. When nothing matches it emits the default informational reply.
func (r *Router) Route(message string) Route {
	lower := strings.ToLower(message)

	for _, rule := range r.rules {
		keyword, ok := matchKeywords(lower, rule.Keywords)
		if !ok {
			continue
		}

		if rule.Agent == "" && !rule.Advanced {
			return Route{Rule: rule.Name, Reply: r.reply(rule.ReplyKey)}
		}

		return Route{
			Rule:     rule.Name,
			Agent:    rule.Agent,
			Task:     rule.Task,
			Data:     buildData(rule.Data, message, keyword),
			Advanced: rule.Advanced,
		}
	}

	return Route{Rule: DefaultReplyKey, Reply: r.reply(DefaultReplyKey)}
}

func (r *Router) reply(key string) string {
	if s, ok := r.replies[key]; ok {
		return s
	}
	return r.replies[DefaultReplyKey]
}

// matchKeywords returns the first keyword contained in the lower-cased
// message. Keywords are assumed lower-case already.
func matchKeywords(lower string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

// buildData populates a rule's data template from the message. Two
// placeholders are understood: {message} expands to the full message and
// {query} to the text following the matched keyword (or the full message
// when nothing follows it).
func buildData(tmpl map[string]string, message, keyword string) map[string]any {
	data := make(map[string]any, len(tmpl))
	query := queryAfter(message, keyword)
	for k, v := range tmpl {
		v = strings.ReplaceAll(v, "{message}", message)
		v = strings.ReplaceAll(v, "{query}", query)
		data[k] = v
	}
	return data
}

// queryAfter extracts the text after the first case-insensitive occurrence
// of keyword, trimmed of separators. Empty remainders fall back to the full
// message so downstream agents always receive a query.
func queryAfter(message, keyword string) string {
	lower := strings.ToLower(message)
	idx := strings.Index(lower, keyword)
	if idx < 0 {
		return strings.TrimSpace(message)
	}
	rest := message[idx+len(keyword):]
	rest = strings.TrimLeft(rest, " \t:,.!?-")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return strings.TrimSpace(message)
	}
	return rest
}
