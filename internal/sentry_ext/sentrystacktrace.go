package sentry_ext

import (
	"reflect"
	"strings"

	"github.com/getsentry/sentry-go"
)

// coreLoggerPackage is the import path of the observability package.
//
// Spelled out as a literal because importing observability here would create
// a cycle. A unit test compares it to the real path via reflection.
var coreLoggerPackage = "github.com/distscope/distscope/internal/observability"

// sentryExtPackage is this package's own import path.
var sentryExtPackage = reflect.TypeFor[Client]().PkgPath()

// RemoveLoggerFrames is a [sentry.EventProcessor] that trims error reporting
// plumbing off the top of every stack trace.
//
// Errors reach Sentry through CoreLogger.CaptureError and similar helpers,
// which would otherwise show up as the innermost frames of every report.
// With those trimmed, the top frame is the line that logged the error.
func RemoveLoggerFrames(
	event *sentry.Event,
	hint *sentry.EventHint,
) *sentry.Event {
	for i := range event.Exception {
		trace := event.Exception[i].Stacktrace
		if trace == nil {
			continue
		}

		// Sentry orders frames caller-first, so the plumbing sits at the end.
		frames := trace.Frames
		for len(frames) > 0 && isReportingFrame(&frames[len(frames)-1]) {
			frames = frames[:len(frames)-1]
		}
		trace.Frames = frames
	}

	return event
}

// isReportingFrame reports whether the frame belongs to logging or error
// reporting plumbing rather than to application code.
//
// Takes a pointer because sentry.Frame is a large struct.
func isReportingFrame(frame *sentry.Frame) bool {
	// The Sentry SDK filters its own frames by module prefix the same way.
	return strings.HasPrefix(frame.Module, coreLoggerPackage) ||
		strings.HasPrefix(frame.Module, sentryExtPackage)
}
