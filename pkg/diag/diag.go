// Package diag implements the error taxonomy and per-frame diagnostic
// aggregation described for the core: value-level failures are recoverable
// and travel up as typed results, then get aggregated into a diagnostic list
// for the frame. Fatal conditions (InvariantViolation) abandon the frame
// instead of aggregating.
package diag

import (
	"fmt"

	"go.uber.org/multierr"
)

// Kind classifies a recoverable or fatal failure.
type Kind int

const (
	// ParseError: CSS value, XML, font file, or image data failed to parse.
	// The offending fragment is dropped and parsing continues.
	ParseError Kind = iota
	// ResourceNotFound: a font or image lookup by id failed. Recoverable
	// with a fallback (tofu glyph, transparent image).
	ResourceNotFound
	// CapacityExceeded: a cache eviction or an over-large blob. Recoverable;
	// the cache evicts and the caller retries.
	CapacityExceeded
	// InvariantViolation: a DOM cycle or a negative size after layout.
	// Fatal — the frame is abandoned and the prior frame stays presented.
	InvariantViolation
	// HostError: surface lost or decoder unavailable. The core reports it
	// and waits for the host to recover.
	HostError
)

func (k Kind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case ResourceNotFound:
		return "ResourceNotFound"
	case CapacityExceeded:
		return "CapacityExceeded"
	case InvariantViolation:
		return "InvariantViolation"
	case HostError:
		return "HostError"
	default:
		return "UnknownKind"
	}
}

// Error is a typed, recoverable-or-fatal diagnostic. It wraps an optional
// underlying cause so callers can still errors.Is/errors.As through it.
type Error struct {
	Kind    Kind
	Subject string // e.g. the property name, node id, or resource key
	Detail  string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s(%s): %s: %v", e.Kind, e.Subject, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s(%s): %s", e.Kind, e.Subject, e.Detail)
}

func (e *Error) Unwrap() error { return e.Cause }

// Fatal reports whether an error of this kind must abandon the frame.
func (k Kind) Fatal() bool { return k == InvariantViolation }

// New constructs a diag.Error.
func New(kind Kind, subject, detail string, cause error) *Error {
	return &Error{Kind: kind, Subject: subject, Detail: detail, Cause: cause}
}

// List accumulates non-fatal diagnostics produced during a single frame.
// Layout and paint never panic on user input; anything unexpected is
// recorded here instead, mirroring fb2cng's *Report accumulator.
type List struct {
	errs error
}

// Add appends a diagnostic. Add does not panic or stop on a fatal one —
// callers are expected to check Kind.Fatal() themselves and abandon the
// frame before continuing to accumulate.
func (l *List) Add(err error) {
	if err == nil {
		return
	}
	l.errs = multierr.Append(l.errs, err)
}

// Errors returns the accumulated diagnostics as a slice, newest last.
func (l *List) Errors() []error {
	return multierr.Errors(l.errs)
}

// Empty reports whether no diagnostics were recorded this frame.
func (l *List) Empty() bool { return l.errs == nil }

// Reset clears the list for the next frame.
func (l *List) Reset() { l.errs = nil }

// Combined returns a single error combining every diagnostic, or nil if
// none were recorded.
func (l *List) Combined() error { return l.errs }
