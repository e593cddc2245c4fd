// Command aigate runs the AI gateway: keyword routing, agent dispatch and
// the multi-tier pipeline behind an HTTP front.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/lamvt/aigate"
	"github.com/lamvt/aigate/config"
	"github.com/lamvt/aigate/gateway"
	"github.com/lamvt/aigate/logging"
	"github.com/lamvt/aigate/metrics"
	"github.com/lamvt/aigate/model"
	"github.com/lamvt/aigate/model/anthropic"
	"github.com/lamvt/aigate/model/ollama"
	"github.com/lamvt/aigate/pipeline"
	"github.com/lamvt/aigate/router"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "aigate:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	m := metrics.New()

	backend, err := buildBackend(cfg)
	if err != nil {
		return err
	}

	rt, err := buildRouter(cfg)
	if err != nil {
		return err
	}

	svc, err := aigate.New(func(o *aigate.Options) {
		o.Model = backend
		o.Router = rt
		o.Logger = logger
		o.Metrics = m
		o.PipelineOptions = []func(po *pipeline.Options){func(po *pipeline.Options) {
			po.MaxCandidates = cfg.PipelineMaxCandidates
			po.FanOut = cfg.PipelineFanOut
			po.FilterThreshold = cfg.PipelineFilterThreshold
		}}
	})
	if err != nil {
		return fmt.Errorf("build service: %w", err)
	}

	srv := gateway.NewServer(svc, func(o *gateway.Options) {
		o.Logger = logger
		o.Metrics = m
		o.Backend = backend
		if hc, ok := backend.(model.HealthChecker); ok {
			o.Health = hc
		}
		o.RequestTimeout = cfg.RequestTimeout
		o.RateLimit = cfg.RateLimit
		o.RateBurst = cfg.RateBurst
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway listening",
			"addr", cfg.HTTPAddr,
			"backend", backend.Info().Provider,
			"model", backend.Info().Name,
			"agents", svc.Registry().Len(),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildBackend selects the model backend from configuration.
func buildBackend(cfg *config.Config) (model.Model, error) {
	switch cfg.Backend {
	case "ollama":
		return ollama.NewModel(func(o *ollama.Options) {
			o.BaseURL = cfg.OllamaURL
			o.Model = cfg.Model
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = cfg.AnthropicAPIKey
			if cfg.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Model)
			}
		}), nil
	case "mock":
		return model.NewMock(cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported backend %q", cfg.Backend)
	}
}

func buildRouter(cfg *config.Config) (*router.Router, error) {
	if cfg.RulesFile == "" {
		return router.Default(), nil
	}
	rt, err := router.LoadFile(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("load rules file %s: %w", cfg.RulesFile, err)
	}
	return rt, nil
}
