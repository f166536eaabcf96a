package observability

import (
	"fmt"
	"sync"
	"time"
)

// Severity indicates how prominently a user-facing message should be shown.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// PrinterMessage is a user-facing message with a severity.
type PrinterMessage struct {
	Severity Severity
	Text     string
}

// Printer buffers user-facing messages for the status bar.
//
// The terminal belongs to the TUI, so messages are never written
// directly. The UI polls Read and renders what it gets.
type Printer struct {
	sync.Mutex
	messages []PrinterMessage

	// For rate-limited messages, this is the next time a message may be sent.
	rateLimits map[string]time.Time

	// getNow allows stubbing out [time.Now] in tests.
	getNow func() time.Time
}

func NewPrinter() *Printer {
	printer := &Printer{
		rateLimits: make(map[string]time.Time),
		getNow:     time.Now,
	}

	// Occasionally clean up the rateLimits map.
	go func() {
		for {
			<-time.After(time.Minute)

			printer.Lock()
			now := printer.getNow()
			for msg, blockUntil := range printer.rateLimits {
				if now.After(blockUntil) {
					delete(printer.rateLimits, msg)
				}
			}
			printer.Unlock()
		}
	}()

	return printer
}

// Read returns all buffered messages and clears the buffer.
func (p *Printer) Read() []PrinterMessage {
	p.Lock()
	defer p.Unlock()

	polledMessages := p.messages
	p.messages = make([]PrinterMessage, 0)

	return polledMessages
}

// Infof buffers a Sprintf-formatted informational message.
func (p *Printer) Infof(format string, args ...any) {
	p.writef(Info, 0, format, args...)
}

// Warnf buffers a Sprintf-formatted warning.
func (p *Printer) Warnf(format string, args ...any) {
	p.writef(Warning, 0, format, args...)
}

// Errorf buffers a Sprintf-formatted error message.
func (p *Printer) Errorf(format string, args ...any) {
	p.writef(Error, 0, format, args...)
}

// AtMostEvery allows rate-limiting how often a message is shown.
//
// Usage:
//
//	printer.
//		AtMostEvery(time.Minute).
//		Infof("Got number %d", dynamicNumber)
//
// The format string is used as the key for rate limiting. In the
// above example, the statement may run with different values of
// `dynamicNumber`, but a message will only be buffered once a minute.
//
// Note, this doesn't affect regular `printer.Infof(...)` calls.
// The duration is only checked when `AtMostEvery()` is used.
//
// This should always be used with the same duration. If the duration
// changes, the message is blocked until its last duration completes.
func (p *Printer) AtMostEvery(duration time.Duration) writeDSL {
	return writeDSL{
		printer:         p,
		rateLimitPeriod: duration,
	}
}

type writeDSL struct {
	printer         *Printer
	rateLimitPeriod time.Duration
}

// See [Printer.Infof].
func (dsl writeDSL) Infof(format string, args ...any) {
	dsl.printer.writef(Info, dsl.rateLimitPeriod, format, args...)
}

// See [Printer.Warnf].
func (dsl writeDSL) Warnf(format string, args ...any) {
	dsl.printer.writef(Warning, dsl.rateLimitPeriod, format, args...)
}

// See [Printer.Errorf].
func (dsl writeDSL) Errorf(format string, args ...any) {
	dsl.printer.writef(Error, dsl.rateLimitPeriod, format, args...)
}

func (p *Printer) writef(
	severity Severity,
	rateLimitPeriod time.Duration,
	format string,
	args ...any,
) {
	p.Lock()
	defer p.Unlock()

	if rateLimitPeriod > 0 {
		blockUntil := p.rateLimits[format]

		now := p.getNow()
		if now.Before(blockUntil) {
			return
		}

		p.rateLimits[format] = now.Add(rateLimitPeriod)
	}

	p.messages = append(p.messages,
		PrinterMessage{severity, fmt.Sprintf(format, args...)})
}
