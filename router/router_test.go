package router

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteGreetingIsStatic(t *testing.T) {
	r := Default()

	route := r.Route("xin chào")
	assert.Equal(t, "greeting", route.Rule)
	assert.True(t, route.IsStatic())
	assert.NotEmpty(t, route.Reply)
	assert.Empty(t, route.Agent)
}

func TestRouteWebSearchExtractsQuery(t *testing.T) {
	r := Default()

	route := r.Route("tìm kiếm AI trong giáo dục")
	assert.Equal(t, "web_search", route.Rule)
	assert.False(t, route.IsStatic())
	assert.Equal(t, "web_search_agent", route.Agent)
	assert.Equal(t, "web_search", route.Task)
	assert.Equal(t, "AI trong giáo dục", route.Data["query"])
}

func TestRouteCaseInsensitive(t *testing.T) {
	r := Default()

	route := r.Route("TÌM KIẾM học máy")
	assert.Equal(t, "web_search_agent", route.Agent)
	assert.Equal(t, "học máy", route.Data["query"])
}

func TestRouteNoMatchReturnsDefaultReply(t *testing.T) {
	r := Default()

	route := r.Route("lorem ipsum dolor")
	assert.Equal(t, DefaultReplyKey, route.Rule)
	assert.True(t, route.IsStatic())
	assert.NotEmpty(t, route.Reply)
}

func TestRouteDeterministic(t *testing.T) {
	r := Default()

	msg := "dịch sang tiếng Anh: xin lỗi"
	first := r.Route(msg)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Route(msg))
	}
}

func TestRoutePriorityOrderWins(t *testing.T) {
	rules := []Rule{
		{Name: "second", Priority: 2, Keywords: []string{"hello"}, ReplyKey: "b"},
		{Name: "first", Priority: 1, Keywords: []string{"hello"}, ReplyKey: "a"},
	}
	r := New(rules, map[string]string{"a": "A", "b": "B", DefaultReplyKey: "D"})

	route := r.Route("hello there")
	assert.Equal(t, "first", route.Rule)
	assert.Equal(t, "A", route.Reply)
}

func TestRouteAdvancedPath(t *testing.T) {
	r := Default()

	route := r.Route("cần phân tích chuyên sâu về biến đổi khí hậu")
	assert.True(t, route.Advanced)
	assert.False(t, route.IsStatic())
	assert.Empty(t, route.Agent)
	assert.Equal(t, "cần phân tích chuyên sâu về biến đổi khí hậu", route.Data["query"])
}

func TestQueryFallsBackToFullMessage(t *testing.T) {
	r := Default()

	// Nothing follows the keyword; agents still get a usable query.
	route := r.Route("tìm kiếm")
	assert.Equal(t, "tìm kiếm", route.Data["query"])
}

func TestGreetingDoesNotShadowSearch(t *testing.T) {
	r := Default()

	// A search message containing "chào" in content must reach the search
	// rule, not the greeting rule.
	route := r.Route("tìm kiếm cách chào hỏi trong tiếng Nhật")
	assert.Equal(t, "web_search", route.Rule)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	doc := `
rules:
  - name: ping
    priority: 1
    keywords: ["ping"]
    reply: pong
  - name: echo
    priority: 2
    keywords: ["echo"]
    agent: general
    task: echo
    data:
      text: "{query}"
replies:
  pong: "pong!"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	r, err := LoadFile(path)
	require.NoError(t, err)

	route := r.Route("ping")
	assert.Equal(t, "pong!", route.Reply)

	route = r.Route("echo hello world")
	assert.Equal(t, "general", route.Agent)
	assert.Equal(t, "hello world", route.Data["text"])

	// Built-in replies survive partial override.
	assert.NotEmpty(t, r.Route("???").Reply)
}

func TestLoadFileRejectsAmbiguousRule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	doc := `
rules:
  - name: broken
    priority: 1
    keywords: ["x"]
    reply: a
    agent: general
    task: echo
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
