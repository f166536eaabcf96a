// Package sentry_ext wraps the Sentry SDK with error deduplication and
// stack trace cleanup for distscope's crash reporting.
package sentry_ext

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

type Params struct {
	// Disabled turns off error reporting regardless of the DSN.
	Disabled bool

	// DSN selects the Sentry project to report to.
	//
	// Leaving it empty disables reporting.
	DSN string

	// AttachStacktrace requests stack traces on message events too,
	// not just on exceptions.
	AttachStacktrace bool

	// Release is the distscope version string.
	Release string

	// Commit is the git commit the binary was built from.
	Commit string

	// Environment separates production reports from development ones.
	Environment string

	// BeforeSend edits each event before it leaves the process.
	//
	// Defaults to RemoveLoggerFrames.
	BeforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event

	// LRUSize caps how many distinct errors the deduplication cache
	// tracks. Zero means a reasonable default.
	LRUSize int
}

type Client struct {
	// Recent tracks errors reported lately so that repeats stay quiet.
	Recent *cache
}

// New initializes the sentry client.
//
// If the client is disabled or the DSN is not set, it will not send any
// errors to sentry, but it still tracks what it would have sent.
// If we can't create the cache, we will log an error and return nil.
func New(params Params) *Client {
	if params.Disabled {
		params.DSN = ""
	}
	if params.BeforeSend == nil {
		params.BeforeSend = RemoveLoggerFrames
	}
	if err := sentry.Init(
		sentry.ClientOptions{
			Dsn:              params.DSN,
			AttachStacktrace: params.AttachStacktrace,
			Release:          params.Release,
			Dist:             params.Commit,
			BeforeSend:       params.BeforeSend,
			Environment:      params.Environment,
		}); err != nil {
		slog.Error("sentry_ext: failed to initialize sentry", "err", err)
	}

	if params.DSN == "" {
		slog.Debug("sentry_ext: error reporting is off, no DSN set")
	} else {
		slog.Debug("sentry_ext: error reporting is on", "dsn", params.DSN)
	}

	cache, err := newCache(params.LRUSize)
	if err != nil {
		slog.Error("sentry_ext: failed to create the error cache", "err", err)
		return nil
	}

	// With no DSN the SDK drops events, but Recent still records them.
	return &Client{
		Recent: cache,
	}
}

// CaptureException sends an error to sentry as an error-level event
// tagged with the given tags.
//
// Errors identical to one reported recently are dropped.
func (s *Client) CaptureException(err error, tags map[string]string) {
	if !s.Recent.shouldCapture(err) {
		return
	}

	// A cloned hub so the tags don't leak into unrelated events.
	localHub := sentry.CurrentHub().Clone()
	localHub.ConfigureScope(
		func(scope *sentry.Scope) {
			scope.SetTags(tags)
		},
	)
	localHub.CaptureException(err)
}

// CaptureMessage sends a non-error message to sentry as an info-level
// event tagged with the given tags.
//
// Deduplicated the same way as errors.
func (s *Client) CaptureMessage(msg string, tags map[string]string) {
	if !s.Recent.shouldCapture(errors.New(msg)) {
		return
	}

	localHub := sentry.CurrentHub().Clone()
	localHub.ConfigureScope(
		func(scope *sentry.Scope) {
			scope.SetTags(tags)
		},
	)
	localHub.CaptureMessage(msg)
}

// Reraise reports a recovered panic value, waits briefly for the report
// to go out, then panics again with the same value.
//
// A nil value is ignored.
func (s *Client) Reraise(err any, tags map[string]string) {
	if err == nil {
		return
	}

	e, ok := err.(error)
	if !ok {
		e = fmt.Errorf("%v", err)
	}
	s.CaptureException(e, tags)

	sentry.Flush(time.Second * 2)
	panic(err)
}

// Flush waits for buffered events to be delivered, up to the timeout.
func (s *Client) Flush(timeout time.Duration) bool {
	hub := sentry.CurrentHub()
	return hub.Flush(timeout)
}
