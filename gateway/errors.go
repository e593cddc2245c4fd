package gateway

import (
	"errors"
	"net/http"

	"github.com/lamvt/aigate/core"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Code    string                    `json:"code"`
	Message string                    `json:"message"`
	Agent   string                    `json:"agent,omitempty"`
	Stage   string                    `json:"stage,omitempty"`
	Partial map[string]map[string]any `json:"partial,omitempty"`
}

// writeError maps the service error taxonomy to HTTP status codes:
// bad request 400, unknown agent 404, timeout 504, everything else 500.
// Aborted pipeline runs carry the failing stage and the partial stage
// outputs so clients can inspect how far the run got.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := errorBody{Code: "internal", Message: err.Error()}

	var (
		bad     *core.BadRequestError
		unknown *core.UnknownAgentError
		timeout *core.TimeoutError
		failure *core.AgentFailureError
		aborted *core.PipelineAbortedError
	)

	switch {
	case errors.As(err, &bad):
		status = http.StatusBadRequest
		body.Code = "bad_request"
	case errors.As(err, &unknown):
		status = http.StatusNotFound
		body.Code = "unknown_agent"
		body.Agent = unknown.Name
	case errors.As(err, &aborted):
		body.Code = "pipeline_aborted"
		body.Stage = aborted.Stage
		body.Partial = aborted.Partial
		if errors.As(err, &timeout) {
			status = http.StatusGatewayTimeout
		}
	case errors.As(err, &timeout):
		status = http.StatusGatewayTimeout
		body.Code = "timeout"
	case errors.As(err, &failure):
		body.Code = "agent_failure"
		body.Agent = failure.Agent
	}

	s.writeJSON(w, status, map[string]any{"error": body})
}
