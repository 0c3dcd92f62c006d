// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errx implements the structured error model used throughout
// rootwalk: a small set of distinguishable error kinds, plus a
// wrap-with-context chain built on Go's native error-wrapping (%w) instead
// of a bespoke chain type.
package errx

import (
	"errors"
	"fmt"
)

// Kind identifies the broad category of an *Error, so that callers can
// branch on "what sort of thing went wrong" without string-matching a
// message.
type Kind int

const (
	// KindNotImplemented means the operation shape is one rootwalk
	// deliberately declines to perform.
	KindNotImplemented Kind = iota
	// KindNotSupported means the running kernel lacks a syscall or feature
	// required by the requested operation.
	KindNotSupported
	// KindInvalidArgument means the caller violated a contract (a trailing
	// slash on a single-name operation, reserved mode bits, an empty path).
	KindInvalidArgument
	// KindSafetyViolation means the resolver detected an escape attempt, an
	// inode swap, or an internal invariant breakage.
	KindSafetyViolation
	// KindBadSymlinkStack means a symlink-stack invariant was broken. This
	// is folded into KindSafetyViolation at the public boundary but is kept
	// distinguishable for internal diagnostics.
	KindBadSymlinkStack
	// KindOsError is a passthrough kernel error; use Errno to recover the
	// originating errno where available.
	KindOsError
)

func (k Kind) String() string {
	switch k {
	case KindNotImplemented:
		return "not implemented"
	case KindNotSupported:
		return "not supported"
	case KindInvalidArgument:
		return "invalid argument"
	case KindSafetyViolation:
		return "safety violation"
	case KindBadSymlinkStack:
		return "bad symlink stack"
	case KindOsError:
		return "os error"
	default:
		return "unknown error"
	}
}

// Error is the structured error type returned by rootwalk's public API. It
// carries a Kind plus a chain of wrapping context strings, the innermost of
// which is usually an *os.PathError or *os.LinkError from internal/sysx.
type Error struct {
	kind    Kind
	op      string
	message string
	err     error
}

// Error implements the error interface. It returns this link's context
// followed by the wrapped error's own text ("op: inner message"), so the
// string already spans the whole chain; use errors.Is/errors.As or Chain to
// inspect the individual links.
func (e *Error) Error() string {
	if e.op == "" {
		return e.message
	}
	return e.op + ": " + e.message
}

// Unwrap allows errors.Is/errors.As to walk through the wrap chain.
func (e *Error) Unwrap() error { return e.err }

// Kind returns the error's category.
func (e *Error) Kind() Kind { return e.kind }

// New constructs a leaf *Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Newf is like New but with fmt.Sprintf-style formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap attaches an operation-context string to err, without changing its
// Kind (KindOf(err) on the result equals KindOf(err) on the input). If err
// is nil, Wrap returns nil, so it is safe to use as:
//
//	return errx.Wrap(doThing(), "resolve parent directory")
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	k := KindOf(err)
	return &Error{kind: k, op: op, message: err.Error(), err: err}
}

// Wrapf is like Wrap but with fmt.Sprintf-style formatting for the context.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// FromOS wraps a raw OS-level error (an *os.PathError, *os.LinkError, or
// plain syscall.Errno) as a KindOsError *Error with the given operation
// name recorded for context.
func FromOS(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{kind: KindOsError, op: op, message: err.Error(), err: err}
}

// KindOf walks err's wrap chain looking for the first *Error and returns its
// Kind. Errors that never touched this package are reported as KindOsError,
// since in practice every such error reaching a caller originated from a
// syscall.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindOsError
}

// Chain returns the ordered sequence of error messages from err (inclusive)
// down to the root cause, using errors.Unwrap.
func Chain(err error) []string {
	var msgs []string
	for err != nil {
		msgs = append(msgs, err.Error())
		err = errors.Unwrap(err)
	}
	return msgs
}
