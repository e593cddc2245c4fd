// Package ollama implements model.Model against a local Ollama server.
//
// Chat generation goes through Ollama's OpenAI-compatible /v1 endpoint via
// the official openai client; Ollama-specific features (model listing,
// health probe) use the native API. Generation is wrapped in a circuit
// breaker so a wedged local server fails fast instead of stacking up
// requests behind long model-load timeouts.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sony/gobreaker/v2"

	"github.com/lamvt/aigate/model"
)

// DefaultBaseURL is the conventional local Ollama address.
const DefaultBaseURL = "http://localhost:11434"

const (
	defaultRespTimeout   = 300 * time.Second // model loading can be slow
	defaultMaxTokens     = 2048
	breakerMaxFailures   = 5
	breakerOpenTimeout   = 30 * time.Second
	breakerResetInterval = 60 * time.Second
)

// Options configure the Ollama model adapter.
type Options struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int64
	HTTPClient  *http.Client
}

// Model wraps a local Ollama server behind the generic model.Model interface.
type Model struct {
	client  openai.Client
	http    *http.Client
	baseURL string
	opts    Options
	breaker *gobreaker.CircuitBreaker[*model.Response]
}

// NewModel creates an Ollama-backed model with sensible local defaults.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		BaseURL:     DefaultBaseURL,
		Model:       "qwen2.5:7b",
		Temperature: 0.7,
		MaxTokens:   defaultMaxTokens,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRespTimeout}
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL+"/v1"),
		option.WithAPIKey("ollama"), // the SDK requires a key; Ollama ignores it
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0), // failure policy lives in the breaker, not the SDK
	)

	m := &Model{
		client:  client,
		http:    httpClient,
		baseURL: baseURL,
		opts:    opts,
	}
	m.breaker = gobreaker.NewCircuitBreaker[*model.Response](gobreaker.Settings{
		Name:        "ollama:" + opts.Model,
		MaxRequests: 1, // one probe in half-open state
		Interval:    breakerResetInterval,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerMaxFailures
		},
	})
	return m
}

// Generate implements model.Model via the OpenAI-compatible chat endpoint.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	return m.breaker.Execute(func() (*model.Response, error) {
		return m.generate(ctx, req)
	})
}

func (m *Model) generate(ctx context.Context, req model.Request) (*model.Response, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("ollama returned no choices")
	}

	return &model.Response{
		Text:  resp.Choices[0].Message.Content,
		Model: m.opts.Model,
	}, nil
}

// ListModels returns the names of locally available models from the native
// /api/tags endpoint.
func (m *Model) ListModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpResp, err := m.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, 10*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama API error %d: %s", httpResp.StatusCode, string(body))
	}

	var parsed struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	names := make([]string, 0, len(parsed.Models))
	for _, entry := range parsed.Models {
		names = append(names, entry.Name)
	}
	return names, nil
}

// Healthy implements model.HealthChecker by probing the server root.
func (m *Model) Healthy(ctx context.Context) bool {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/", nil)
	if err != nil {
		return false
	}
	httpResp, err := m.http.Do(httpReq)
	if err != nil {
		return false
	}
	httpResp.Body.Close()
	return httpResp.StatusCode == http.StatusOK
}

// Info implements model.Model.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "ollama"}
}
