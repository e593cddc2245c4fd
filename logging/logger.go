// Package logging provides a minimal logging interface and adapters for the
// aigate service.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the dispatcher, pipeline and gateway use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - ServiceLogger with domain helpers for dispatch, model and pipeline calls
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging

import (
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled
// from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// ParseLevel maps a config string ("debug", "info", "warn", "error") to a
// LogLevel, defaulting to info.
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LogLevelDebug
	case "warn":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger defines the minimal logging interface used across the service.
// Args are slog-style alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// New builds a Logger writing to stdout in the requested format ("json" or
// "text") at the requested level.
func New(level LogLevel, format string) Logger {
	opts := &slog.HandlerOptions{Level: slogLevel(level)}
	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return NewSlogAdapter(slog.New(handler))
}

// NoOpLogger discards all log messages. Useful for testing or when logging
// is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// ServiceLogger adds domain convenience methods on top of a Logger. It is
// cheap to copy via WithComponent.
type ServiceLogger struct {
	logger    Logger
	component string
}

// NewServiceLogger wraps l; a nil l yields a no-op ServiceLogger.
func NewServiceLogger(l Logger) *ServiceLogger {
	if l == nil {
		l = NoOpLogger{}
	}
	return &ServiceLogger{logger: l}
}

// WithComponent returns a copy tagged with the logical component (dispatch,
// pipeline, gateway, etc.).
func (l *ServiceLogger) WithComponent(c string) *ServiceLogger {
	nl := *l
	nl.component = c
	return &nl
}

// Logger returns the underlying Logger.
func (l *ServiceLogger) Logger() Logger { return l.logger }

func (l *ServiceLogger) attrs(args []any) []any {
	if l.component == "" {
		return args
	}
	return append([]any{"component", l.component}, args...)
}

// Debug logs a debug message.
func (l *ServiceLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, l.attrs(args)...) }

// Info logs an info message.
func (l *ServiceLogger) Info(msg string, args ...any) { l.logger.Info(msg, l.attrs(args)...) }

// Warn logs a warning message.
func (l *ServiceLogger) Warn(msg string, args ...any) { l.logger.Warn(msg, l.attrs(args)...) }

// Error logs an error message.
func (l *ServiceLogger) Error(msg string, args ...any) { l.logger.Error(msg, l.attrs(args)...) }

// LogDispatch records one agent dispatch.
func (l *ServiceLogger) LogDispatch(agent, task string, dur time.Duration, success bool, err error) {
	args := []any{"agent", agent, "task", task, "duration", dur, "success", success}
	if err != nil {
		args = append(args, "error", err.Error())
		l.Error("dispatch failed", args...)
		return
	}
	l.Info("dispatch completed", args...)
}

// LogLLMCall records model call latency and success.
func (l *ServiceLogger) LogLLMCall(model string, dur time.Duration, err error) {
	args := []any{"model", model, "duration", dur, "success", err == nil}
	if err != nil {
		args = append(args, "error", err.Error())
		l.Error("model call failed", args...)
		return
	}
	l.Info("model call completed", args...)
}

// LogPipelineRun records aggregate pipeline run metrics.
func (l *ServiceLogger) LogPipelineRun(pipelineID string, stages int, dur time.Duration, err error) {
	args := []any{"pipeline_id", pipelineID, "stages", stages, "duration", dur, "success", err == nil}
	if err != nil {
		args = append(args, "error", err.Error())
		l.Error("pipeline run failed", args...)
		return
	}
	l.Info("pipeline run completed", args...)
}
