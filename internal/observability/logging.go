// Package observability provides the logger used throughout distscope.
//
// The TUI owns the terminal, so nothing here writes to stdout or stderr;
// logs go to a debug file when enabled and to the void otherwise, with
// optional Sentry capture for errors.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/distscope/distscope/internal/sentry_ext"
)

type Tags map[string]string

// NewTags creates Tags from a mix of slog.Attr values and key-value
// string pairs. Incomplete pairs and unsupported types are ignored.
func NewTags(args ...any) Tags {
	var done bool
	tags := Tags{}
	for len(args) > 0 && !done {
		switch x := args[0].(type) {
		case slog.Attr:
			tags[x.Key] = x.Value.String()
			args = args[1:]
		case string:
			if len(args) < 2 {
				done = true
				break
			}
			attr := slog.Any(x, args[1])
			tags[attr.Key] = attr.Value.String()
			args = args[2:]
		default:
			args = args[1:]
		}
	}
	return tags
}

const LevelFatal = slog.Level(12)

type CoreLoggerParams struct {
	Sentry *sentry_ext.Client
	Tags   Tags
}

// CoreLogger wraps slog with Sentry capture and a base tag set.
type CoreLogger struct {
	*slog.Logger
	baseTags Tags
	sentry   *sentry_ext.Client
}

func NewCoreLogger(logger *slog.Logger, params *CoreLoggerParams) *CoreLogger {
	if params == nil {
		params = &CoreLoggerParams{}
	}

	tags := Tags{}
	var args []any
	for key, value := range params.Tags {
		args = append(args, slog.String(key, value))
		tags[key] = value
	}

	return &CoreLogger{
		Logger:   logger.With(args...),
		sentry:   params.Sentry,
		baseTags: tags,
	}
}

// withArgs merges the given args into the logger's base tags; base tags
// take precedence.
func (cl *CoreLogger) withArgs(args ...any) Tags {
	tags := NewTags(args...)
	for key, value := range cl.baseTags {
		tags[key] = value
	}
	return tags
}

// With returns a derived logger that attaches the given args to every
// message it logs.
func (cl *CoreLogger) With(args ...any) *CoreLogger {
	return &CoreLogger{
		Logger:   cl.Logger.With(args...),
		baseTags: cl.baseTags,
		sentry:   cl.sentry,
	}
}

// CaptureError logs an error and reports it to Sentry.
func (cl *CoreLogger) CaptureError(err error, args ...any) {
	cl.Error(err.Error(), args...)

	if cl.sentry != nil {
		cl.sentry.CaptureException(err, cl.withArgs(args...))
	}
}

// CaptureFatal logs an error at fatal level and reports it to Sentry.
func (cl *CoreLogger) CaptureFatal(err error, args ...any) {
	cl.Log(context.Background(), LevelFatal, err.Error(), args...)

	if cl.sentry != nil {
		cl.sentry.CaptureException(err, cl.withArgs(args...))
	}
}

// CaptureFatalAndPanic logs a fatal error, sends it to Sentry and panics
// with it. A nil error still panics, with a placeholder.
func (cl *CoreLogger) CaptureFatalAndPanic(err error, args ...any) {
	if err == nil {
		err = errors.New("observability: panicked with nil error")
	}
	cl.CaptureFatal(err, args...)
	panic(err)
}

// CaptureWarn logs a warning and reports it to Sentry.
func (cl *CoreLogger) CaptureWarn(msg string, args ...any) {
	cl.Warn(msg, args...)

	if cl.sentry != nil {
		cl.sentry.CaptureMessage(msg, cl.withArgs(args...))
	}
}

// Reraise logs a panic, reports it to Sentry, and panics again with the
// recovered value converted to an error. Use in a defer around code the
// UI loop runs.
func (cl *CoreLogger) Reraise(args ...any) {
	if val := recover(); val != nil {
		cl.reraise(val, args...)
	}
}

func (cl *CoreLogger) reraise(val any, args ...any) {
	err, ok := val.(error)
	if !ok {
		err = fmt.Errorf("%v", val)
	}
	cl.Error(err.Error(), args...)
	if cl.sentry != nil {
		// Does not return; panics again after reporting.
		cl.sentry.Reraise(err, cl.withArgs(args...))
	}
	panic(err)
}

// GetTags returns the logger's base tag set.
//
// Used for testing.
func (cl *CoreLogger) GetTags() Tags {
	return cl.baseTags
}

// NewNoOpLogger returns a logger that throws everything away.
//
// Used for testing.
func NewNoOpLogger() *CoreLogger {
	return NewCoreLogger(
		slog.New(slog.NewJSONHandler(io.Discard, nil)),
		nil,
	)
}
