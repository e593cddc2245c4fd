package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamvt/aigate/model"
)

func TestBaseAgentIdentity(t *testing.T) {
	b := NewBaseAgent("math_agent", "Giải toán", "Giải bài toán.", "toán", "math")

	assert.Equal(t, "math_agent", b.Name())
	assert.Equal(t, "Giải toán", b.DisplayName())
	assert.Equal(t, "Giải bài toán.", b.Description())

	caps := b.Capabilities()
	assert.Equal(t, []string{"toán", "math"}, caps)

	// Mutating the returned slice must not leak into the agent.
	caps[0] = "mutated"
	assert.Equal(t, []string{"toán", "math"}, b.Capabilities())
}

func TestModelAgentProcess(t *testing.T) {
	llm := model.NewMock("test-model")
	llm.AddResponse("Truy vấn: AI trong giáo dục", "kết quả tổng hợp")

	a := NewModelAgent(
		NewBaseAgent("web_search_agent", "Tìm kiếm", "Tìm kiếm thông tin."),
		llm,
		func(o *ModelAgentOptions) {
			o.Template = "Truy vấn: {{.Query}}"
			o.Confidence = 0.9
			o.Suggestions = []string{"thử từ khóa khác"}
		},
	)

	result, err := a.Process(context.Background(), "web_search", map[string]any{"query": "AI trong giáo dục"}, nil)
	require.NoError(t, err)

	assert.True(t, result.Success())
	assert.Equal(t, "kết quả tổng hợp", result["text"])
	assert.Equal(t, "test-model", result["model"])
	assert.InDelta(t, 0.9, result.Confidence(), 1e-9)
	assert.Equal(t, []string{"thử từ khóa khác"}, result.Suggestions())
}

func TestModelAgentBackendError(t *testing.T) {
	llm := model.NewMock("test-model")
	llm.FailWith(errors.New("connection refused"))

	a := NewModelAgent(NewBaseAgent("general", "Trợ lý", "Trợ lý chung."), llm)

	_, err := a.Process(context.Background(), "process", map[string]any{"query": "x"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model generate")
}

func TestModelAgentBadTemplate(t *testing.T) {
	a := NewModelAgent(NewBaseAgent("general", "Trợ lý", "Trợ lý chung."), model.NewMock("m"),
		func(o *ModelAgentOptions) { o.Template = "{{.Broken" })

	_, err := a.Process(context.Background(), "process", map[string]any{}, nil)
	assert.Error(t, err)
}

func TestCatalogNamesValidAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, spec := range Catalog() {
		assert.NotEmpty(t, spec.DisplayName, spec.Name)
		assert.NotEmpty(t, spec.Capabilities, spec.Name)
		assert.False(t, seen[spec.Name], "duplicate catalog name %s", spec.Name)
		seen[spec.Name] = true
	}
	// Agents referenced by the default rule table must exist.
	for _, name := range []string{"academic", "web_search_agent", "translation_agent", "math_agent", "code_agent", "writing_agent", "general"} {
		assert.True(t, seen[name], "catalog missing %s", name)
	}
}

func TestBuildRegistry(t *testing.T) {
	reg, err := BuildRegistry(model.NewMock("m"), nil)
	require.NoError(t, err)

	assert.True(t, reg.Frozen())
	assert.Equal(t, len(Catalog()), reg.Len())

	a, ok := reg.Lookup("web_search_agent")
	require.True(t, ok)
	assert.Equal(t, "Tìm kiếm thông tin", a.DisplayName())
}

func TestBuildRegistryDuplicate(t *testing.T) {
	specs := []Spec{
		{Name: "general", DisplayName: "A", Description: "a"},
		{Name: "general", DisplayName: "B", Description: "b"},
	}
	_, err := BuildRegistry(model.NewMock("m"), specs)
	assert.Error(t, err)
}
