// Package debounce coalesces bursts of events into single actions.
package debounce

import (
	"github.com/distscope/distscope/internal/observability"

	"golang.org/x/time/rate"
)

// Debouncer limits how often a pending action runs.
//
// Callers mark work as pending with SetNeedsDebounce and repeatedly offer
// to run it with Debounce. The action runs at most as often as the rate
// limiter allows, and only while work is pending. A burst of data file
// change events therefore turns into a single reload.
//
// Most methods are safe to call on a nil receiver.
type Debouncer struct {
	limiter       *rate.Limiter
	finished      bool
	needsDebounce bool
	logger        *observability.CoreLogger
}

func NewDebouncer(
	eventRate rate.Limit,
	burstSize int,
	logger *observability.CoreLogger,
) *Debouncer {
	return &Debouncer{
		limiter: rate.NewLimiter(eventRate, burstSize),
		logger:  logger,
	}
}

// SetNeedsDebounce marks the action as pending.
func (d *Debouncer) SetNeedsDebounce() {
	if d == nil {
		return
	}
	d.needsDebounce = true
}

// UnsetNeedsDebounce clears the pending mark without running anything.
func (d *Debouncer) UnsetNeedsDebounce() {
	if d == nil {
		return
	}
	d.needsDebounce = false
}

// Debounce runs f if the action is pending and the rate limiter allows it.
func (d *Debouncer) Debounce(f func()) {
	if d == nil || d.finished {
		return
	}
	if !d.needsDebounce || !d.limiter.Allow() {
		return
	}
	d.Flush(f)
}

// Flush runs f immediately if the action is pending, ignoring the limiter.
func (d *Debouncer) Flush(f func()) {
	if d == nil || d.finished {
		return
	}
	if d.needsDebounce {
		d.logger.Debug("debounce: flushing")
		f()
		d.UnsetNeedsDebounce()
	}
}

// Stop makes all future debounce operations no-ops.
func (d *Debouncer) Stop() {
	d.finished = true
}
