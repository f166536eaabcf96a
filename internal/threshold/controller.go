// Package threshold owns the interactive cutoff over a dataset: a small
// drag state machine that converts pointer positions into threshold
// values and keeps the passing count current.
package threshold

import (
	"github.com/distscope/distscope/internal/cdf"
	"github.com/distscope/distscope/internal/scale"
)

// State is a snapshot of the threshold. Count is always derived from
// the current dataset, mode and value; it is never set independently.
type State struct {
	Value    float64
	Mode     cdf.Mode
	Count    int
	Dragging bool
}

// Rect is the plotting area's bounding box along the drag axis, in
// whatever horizontal unit the rendering layer uses (pixels, cells).
type Rect struct {
	Left  float64
	Width float64
}

// Pointer is one pointer event: a position plus the plotting rect it is
// relative to. The rendering layer supplies both on every event; the
// controller never queries layout itself.
type Pointer struct {
	X    float64
	Rect Rect
}

// ChangeFunc receives the new threshold and its count. It is invoked
// synchronously from the mutating call, before that call returns.
type ChangeFunc func(value float64, count int)

// Config describes one dataset session.
type Config struct {
	Values   []float64
	Mode     cdf.Mode
	LogScale bool

	// InitialThreshold overrides the default midpoint start when set.
	InitialThreshold *float64

	OnChange ChangeFunc
}

// Controller is the drag state machine. All methods must be called from
// a single goroutine (the UI event loop); events are handled one at a
// time and every mutation is synchronous.
type Controller struct {
	dist     cdf.Distribution
	logScale bool
	state    State
	onChange ChangeFunc
	sub      *Subscription
	disposed bool
}

// NewController builds a controller over cfg.Values. The threshold
// starts at cfg.InitialThreshold clamped into range, or at the midpoint
// of [min,max].
func NewController(cfg Config) *Controller {
	c := &Controller{
		dist:     cdf.Build(cfg.Values),
		logScale: cfg.LogScale,
		onChange: cfg.OnChange,
	}
	c.state.Mode = cdf.ParseMode(string(cfg.Mode))

	if cfg.InitialThreshold != nil {
		c.state.Value = scale.Clamp(*cfg.InitialThreshold, c.dist.Min, c.dist.Max)
	} else {
		c.state.Value = (c.dist.Min + c.dist.Max) / 2
	}
	c.state.Count = cdf.Count(c.dist.Sorted, c.state.Mode, c.state.Value)
	return c
}

// State returns the current threshold snapshot.
func (c *Controller) State() State { return c.state }

// Distribution returns the dataset snapshot the controller counts over.
func (c *Controller) Distribution() cdf.Distribution { return c.dist }

// Bounds returns the dataset's [min,max].
func (c *Controller) Bounds() (min, max float64) { return c.dist.Min, c.dist.Max }

// LogScale reports whether positions map through log space.
func (c *Controller) LogScale() bool { return c.logScale }

// Start begins a drag on pointer-down. The non-nil Subscription hands
// the caller the global move/up capture for this drag; callers treat a
// non-nil return as the event being consumed and stop routing it
// further. Returns nil when already dragging or disposed.
func (c *Controller) Start(p Pointer) *Subscription {
	if c.disposed || c.state.Dragging {
		return nil
	}
	c.state.Dragging = true
	c.sub = &Subscription{c: c}
	return c.sub
}

// HandleMove processes a pointer-move while dragging. The position is
// clamped into the rect, mapped to a value, and the change callback
// fires with the recomputed count before HandleMove returns. Moves
// outside a drag are ignored.
func (c *Controller) HandleMove(p Pointer) {
	if c.disposed || !c.state.Dragging {
		return
	}
	pct := dragFraction(p) * 100
	c.apply(scale.PercentToValue(c.dist.Min, c.dist.Max, pct, c.logScale))
}

// Stop ends the drag on pointer-up, wherever the pointer is. The final
// threshold is whatever the last move produced. Safe to call when idle.
func (c *Controller) Stop() {
	c.sub.Cancel()
}

// Dispose releases any active capture and makes the controller inert:
// no further transitions and no callbacks, even mid-drag. Idempotent.
func (c *Controller) Dispose() {
	c.sub.Cancel()
	c.disposed = true
	c.onChange = nil
}

// Disposed reports whether Dispose has been called.
func (c *Controller) Disposed() bool { return c.disposed }

// SetDistribution swaps in a new dataset snapshot (live reload). The
// threshold is clamped into the new range and the count re-derived.
func (c *Controller) SetDistribution(d cdf.Distribution) {
	if c.disposed {
		return
	}
	c.dist = d
	c.apply(scale.Clamp(c.state.Value, d.Min, d.Max))
}

// SetMode switches the comparison operator and re-derives the count.
func (c *Controller) SetMode(m cdf.Mode) {
	if c.disposed {
		return
	}
	c.state.Mode = cdf.ParseMode(string(m))
	c.apply(c.state.Value)
}

// SetThreshold moves the threshold directly (keyboard path), clamped
// into range.
func (c *Controller) SetThreshold(v float64) {
	if c.disposed {
		return
	}
	c.apply(scale.Clamp(v, c.dist.Min, c.dist.Max))
}

// Nudge shifts the threshold by deltaPct along the current scale, so a
// step is visually uniform whether the axis is linear or logarithmic.
func (c *Controller) Nudge(deltaPct float64) {
	if c.disposed {
		return
	}
	pct := scale.ValueToPercent(c.dist.Min, c.dist.Max, c.state.Value, c.logScale)
	pct = scale.Clamp(pct+deltaPct, 0, 100)
	c.apply(scale.PercentToValue(c.dist.Min, c.dist.Max, pct, c.logScale))
}

// SetLogScale changes the position mapping. The threshold value and
// count are unaffected, so no change notification fires.
func (c *Controller) SetLogScale(on bool) {
	c.logScale = on
}

// apply installs a new threshold value, re-derives the count, and
// notifies synchronously.
func (c *Controller) apply(v float64) {
	c.state.Value = v
	c.state.Count = cdf.Count(c.dist.Sorted, c.state.Mode, v)
	if c.onChange != nil {
		c.onChange(c.state.Value, c.state.Count)
	}
}

// dragFraction maps the pointer into [0,1] across the rect. A rect with
// no width divides by one instead of zero and still clamps, so a
// degenerate layout yields a pinned fraction rather than garbage.
func dragFraction(p Pointer) float64 {
	w := p.Rect.Width
	if w <= 0 {
		w = 1
	}
	return scale.Clamp((p.X-p.Rect.Left)/w, 0, 1)
}

// Subscription represents the global pointer capture held while a drag
// is in progress. Cancel is idempotent and returns the controller to
// Idle; after Cancel, no moves are delivered through this drag.
type Subscription struct {
	c        *Controller
	released bool
}

// Cancel releases the capture. Nil-safe.
func (s *Subscription) Cancel() {
	if s == nil || s.released {
		return
	}
	s.released = true
	if s.c.sub == s {
		s.c.sub = nil
		s.c.state.Dragging = false
	}
}

// Active reports whether this subscription still holds the capture.
func (s *Subscription) Active() bool { return s != nil && !s.released }
