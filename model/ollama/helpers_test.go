package ollama

import (
	"github.com/sony/gobreaker/v2"

	"github.com/lamvt/aigate/model"
)

func modelRequest(prompt string) model.Request {
	return model.Request{Prompt: prompt}
}

func gobreakerOpenErr() error { return gobreaker.ErrOpenState }
