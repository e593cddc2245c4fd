// Package gateway exposes the chat service over HTTP.
//
// The gateway is a thin transport adapter: it decodes envelopes, applies
// cross-cutting middleware (CORS, per-client rate limiting, request logging,
// metrics) and maps the service error taxonomy to status codes. No routing
// or dispatch logic lives here.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/lamvt/aigate"
	"github.com/lamvt/aigate/core"
	"github.com/lamvt/aigate/logging"
	"github.com/lamvt/aigate/metrics"
	"github.com/lamvt/aigate/model"
)

// Options configure the HTTP server.
type Options struct {
	// Logger receives per-request records. Defaults to no-op.
	Logger logging.Logger

	// Metrics receives request counters and serves /metrics. Optional; when
	// nil the /metrics endpoint responds 404.
	Metrics *metrics.Metrics

	// Health probes the model backend for /health. Optional.
	Health model.HealthChecker

	// Backend is consulted by /health for the available model list. Optional.
	Backend model.Model

	// RequestTimeout bounds each chat or dispatch request. Zero disables the
	// per-request deadline.
	RequestTimeout time.Duration

	// RateLimit is the sustained per-client request rate. Zero disables
	// rate limiting.
	RateLimit float64

	// RateBurst is the per-client burst allowance.
	RateBurst int

	// AllowedOrigin is the CORS Access-Control-Allow-Origin value.
	// Defaults to "*".
	AllowedOrigin string
}

// Server is the HTTP front of an aigate.Service.
type Server struct {
	svc     *aigate.Service
	opts    Options
	logger  *logging.ServiceLogger
	limiter *clientLimiter
	handler http.Handler
}

// NewServer builds the gateway around svc.
func NewServer(svc *aigate.Service, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger:        logging.NoOpLogger{},
		AllowedOrigin: "*",
		RateBurst:     1,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		svc:    svc,
		opts:   opts,
		logger: logging.NewServiceLogger(opts.Logger).WithComponent("gateway"),
	}
	if opts.RateLimit > 0 {
		s.limiter = newClientLimiter(opts.RateLimit, opts.RateBurst)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.instrument("/api/chat", s.handleChat))
	mux.HandleFunc("POST /api/agents/{name}", s.instrument("/api/agents/{name}", s.handleDispatch))
	mux.HandleFunc("GET /api/agents", s.instrument("/api/agents", s.handleListAgents))
	mux.HandleFunc("GET /health", s.instrument("/health", s.handleHealth))
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics.Handler())
	}

	s.handler = s.cors(s.rateLimit(mux))
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// chatRequest is the POST /api/chat body.
type chatRequest struct {
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, &core.BadRequestError{Reason: "invalid JSON body: " + err.Error()})
		return
	}

	ctx, cancel := s.requestContext(r.Context())
	defer cancel()

	reply, err := s.svc.Chat(ctx, req.Message, req.Context)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req core.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, &core.BadRequestError{Reason: "invalid JSON body: " + err.Error()})
		return
	}
	req.AgentName = r.PathValue("name")

	ctx, cancel := s.requestContext(r.Context())
	defer cancel()

	resp, err := s.svc.Dispatcher().Dispatch(ctx, &req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"agents": s.svc.Registry().Descriptors(),
		"count":  s.svc.Registry().Len(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status": "ok",
		"agents": s.svc.Registry().Len(),
	}

	if s.opts.Health != nil {
		backend := "up"
		if !s.opts.Health.Healthy(r.Context()) {
			backend = "down"
		}
		body["backend"] = backend
	}

	if s.opts.Backend != nil {
		if models, err := s.opts.Backend.ListModels(r.Context()); err == nil {
			body["models"] = models
		}
	}

	s.writeJSON(w, http.StatusOK, body)
}

func (s *Server) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.opts.RequestTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, s.opts.RequestTimeout)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "error", err.Error())
	}
}
