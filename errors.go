// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rootwalk

import (
	"errors"
	"os"

	"github.com/cyphar/rootwalk/internal/errx"
)

// ErrNotImplemented is returned by operations this package deliberately
// does not perform (see each operation's doc comment for specifics).
var ErrNotImplemented = errors.New("rootwalk: not implemented")

// ErrNotSupported is returned when the running kernel lacks a feature an
// operation (or an explicitly requested Backend) needs.
var ErrNotSupported = errors.New("rootwalk: not supported by this kernel")

// ErrInvalidArgument is returned when a caller violates an operation's
// contract: a trailing slash on a single-name operation, reserved mode
// bits, an unusable trailing component (".", ".."), and similar.
var ErrInvalidArgument = errors.New("rootwalk: invalid argument")

// ErrSafetyViolation is returned when the resolver detects that it would
// otherwise escape the root -- an adversarial rename/symlink-swap mid-walk,
// or an internal invariant failure. Seeing this error means the operation
// was correctly aborted, not that anything was left in an inconsistent
// state.
var ErrSafetyViolation = errors.New("rootwalk: safety violation")

// sentinelFor maps an internal errx.Kind to the corresponding exported
// sentinel, for use by wrapErr below.
func sentinelFor(kind errx.Kind) error {
	switch kind {
	case errx.KindNotImplemented:
		return ErrNotImplemented
	case errx.KindNotSupported:
		return ErrNotSupported
	case errx.KindInvalidArgument:
		return ErrInvalidArgument
	case errx.KindSafetyViolation, errx.KindBadSymlinkStack:
		return ErrSafetyViolation
	default:
		return nil
	}
}

// wrapErr adapts an internal error (an *errx.Error, a raw *os.PathError, or
// any other error coming out of internal/resolver or internal/sysx) into
// something this package's public API can return: op provides context,
// and, if the error's Kind maps to one of the sentinels above, that
// sentinel is joined in so that callers can use errors.Is against it.
func wrapErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if sentinel := sentinelFor(errx.KindOf(err)); sentinel != nil {
		return &os.PathError{Op: op, Path: path, Err: joinedErr{sentinel: sentinel, inner: err}}
	}
	return &os.PathError{Op: op, Path: path, Err: err}
}

// joinedErr lets errors.Is match against both the public sentinel and the
// original OS-level error it was derived from.
type joinedErr struct {
	sentinel error
	inner    error
}

func (j joinedErr) Error() string        { return j.inner.Error() }
func (j joinedErr) Unwrap() error        { return j.inner }
func (j joinedErr) Is(target error) bool { return target == j.sentinel }

// invalidArg builds the error every caller-side contract violation turns
// into: a KindInvalidArgument error carrying the offending argument's name,
// which wrapErr then joins with ErrInvalidArgument for errors.Is matching.
func invalidArg(name, description string) error {
	return errx.Newf(errx.KindInvalidArgument, "%s: %s", name, description)
}

// IsNotExist reports whether err indicates that a path component did not
// exist, mirroring os.IsNotExist's behavior for ordinary filesystem errors.
func IsNotExist(err error) bool { return errors.Is(err, os.ErrNotExist) }

// IsExist reports whether err indicates that a path already existed where
// the operation required it not to.
func IsExist(err error) bool { return errors.Is(err, os.ErrExist) }
