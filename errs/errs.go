// Package errs provides typed error handling for ertgo's daemon subsystems.
//
// It defines the error taxonomy from spec section 7 (IO, Resource, Timeout,
// Protocol, Invariant, Injected) so that callers can classify and inspect
// failures with the standard errors.Is/errors.As machinery instead of
// matching on message text.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies the origin of a failure.
type Kind int

const (
	// KindIO indicates a syscall or I/O failure (e.g. EBADF on read).
	KindIO Kind = iota
	// KindResource indicates an allocation or resource-acquisition failure.
	KindResource
	// KindTimeout indicates a deadline expired.
	KindTimeout
	// KindProtocol indicates a peer or wire-format error (short read, bad frame).
	KindProtocol
	// KindInvariant indicates a broken internal invariant.
	KindInvariant
	// KindInjected indicates a failure manufactured by the test-injection harness.
	KindInjected
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io error"
	case KindResource:
		return "resource error"
	case KindTimeout:
		return "timeout"
	case KindProtocol:
		return "protocol error"
	case KindInvariant:
		return "invariant violation"
	case KindInjected:
		return "injected error"
	default:
		return "unknown error"
	}
}

// Error is the error type carried across every ertgo subsystem.
type Error struct {
	// Op is the operation that failed (e.g. "fdset.Insert", "procfork.Fork").
	Op string
	// Kind classifies the failure.
	Kind Kind
	// Detail provides additional human-readable context.
	Detail string
	// Err is the underlying error, usually a syscall.Errno.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	msg := e.Op
	if msg != "" {
		msg += ": "
	}
	if e.Detail != "" {
		msg += e.Detail
	} else {
		msg += e.Kind.String()
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether the error matches target, comparing by Kind when
// target is also an *Error.
func (e *Error) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// New creates an *Error of the given kind.
func New(kind Kind, op, detail string) *Error {
	return &Error{Op: op, Kind: kind, Detail: detail}
}

// Wrap wraps err with operation and kind context.
func Wrap(err error, kind Kind, op string) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// WrapDetail wraps err with operation, kind, and additional detail.
func WrapDetail(err error, kind Kind, op, detail string) *Error {
	return &Error{Op: op, Kind: kind, Detail: detail, Err: err}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)
