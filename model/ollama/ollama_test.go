package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerate(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)

		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "test-model", payload.Model)
		require.NotEmpty(t, payload.Messages)
		assert.Equal(t, "user", payload.Messages[len(payload.Messages)-1].Role)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "chào bạn"}, "finish_reason": "stop"}]
		}`))
	})

	m := NewModel(func(o *Options) {
		o.BaseURL = srv.URL
		o.Model = "test-model"
	})

	resp, err := m.Generate(context.Background(), modelRequest("hỏi gì đó"))
	require.NoError(t, err)
	assert.Equal(t, "chào bạn", resp.Text)
	assert.Equal(t, "test-model", resp.Model)
}

func TestGenerateNoChoices(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "chatcmpl-1", "object": "chat.completion", "choices": []}`))
	})

	m := NewModel(func(o *Options) { o.BaseURL = srv.URL })

	_, err := m.Generate(context.Background(), modelRequest("x"))
	assert.Error(t, err)
}

func TestListModels(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models": [{"name": "qwen2.5:7b"}, {"name": "llama3:8b"}]}`))
	})

	m := NewModel(func(o *Options) { o.BaseURL = srv.URL })

	names, err := m.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"qwen2.5:7b", "llama3:8b"}, names)
}

func TestHealthy(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	m := NewModel(func(o *Options) { o.BaseURL = srv.URL })
	assert.True(t, m.Healthy(context.Background()))

	down := NewModel(func(o *Options) { o.BaseURL = "http://127.0.0.1:1" })
	assert.False(t, down.Healthy(context.Background()))
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	m := NewModel(func(o *Options) { o.BaseURL = srv.URL })

	for i := 0; i < breakerMaxFailures; i++ {
		_, err := m.Generate(context.Background(), modelRequest("x"))
		require.Error(t, err)
	}

	_, err := m.Generate(context.Background(), modelRequest("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreakerOpenErr())
}
