// Package waiting abstracts timers so that tests can control time.
package waiting

import (
	"sync/atomic"
	"time"
)

// Delay is a pause of fixed length.
type Delay interface {
	// IsZero reports whether waiting would return immediately.
	IsZero() bool

	// Wait returns a channel that closes once the delay has passed and a
	// cancel function to release resources if the wait is abandoned.
	Wait() (<-chan struct{}, func())
}

func NewDelay(duration time.Duration) Delay {
	return &realDelay{duration}
}

// NoDelay returns a delay that is already over.
func NoDelay() Delay {
	return NewDelay(0)
}

// Stopwatch is a countdown that can be wound back to its start.
type Stopwatch interface {
	// IsDone reports whether the countdown has run out.
	IsDone() bool

	// Reset winds the countdown back to its full duration.
	Reset()
}

func NewStopwatch(duration time.Duration) Stopwatch {
	s := &realStopwatch{duration, &atomic.Int64{}}
	s.Reset()
	return s
}

type realDelay struct {
	duration time.Duration
}

func (d *realDelay) IsZero() bool {
	return d.duration == 0
}

func (d *realDelay) Wait() (<-chan struct{}, func()) {
	if d.IsZero() {
		return completedDelay(), func() {}
	}

	ch := make(chan struct{})
	cancel := make(chan struct{})

	go func() {
		select {
		case <-time.After(d.duration):
		case <-cancel:
		}
		close(ch)
	}()
	return ch, func() { close(cancel) }
}

func completedDelay() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type realStopwatch struct {
	duration        time.Duration
	startTimeMicros *atomic.Int64
}

func (s *realStopwatch) IsDone() bool {
	startTime := time.UnixMicro(s.startTimeMicros.Load())
	return time.Now().After(startTime.Add(s.duration))
}

func (s *realStopwatch) Reset() {
	s.startTimeMicros.Store(time.Now().UnixMicro())
}
