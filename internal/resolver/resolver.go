//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolver implements the interchangeable path-resolution
// backends: an emulated, component-by-component userspace
// walker that works on any Linux kernel, a kernel-native backend that
// delegates to openat2(2)'s RESOLVE_IN_ROOT resolve mode where available,
// and, only in builds with -tags cgo_pathrs, a libpathrs-backed one.
// The public rootwalk package only ever talks to the Resolver type in this
// file; everything else here is an implementation detail.
package resolver

import (
	"errors"
	"os"

	"github.com/cyphar/rootwalk/internal/errx"
	"github.com/cyphar/rootwalk/internal/fd"
)

// backend is the interface every concrete backend satisfies.
type backend interface {
	Resolve(root fd.Fd, path string, nofollowTrailing bool, flags Flags) (*os.File, error)
	ResolvePartial(root fd.Fd, path string, flags Flags) (*os.File, string, error)
}

// Resolver dispatches path resolution to whichever backend its
// configuration selects. The zero value (BackendAuto, no flags) is a
// perfectly usable Resolver.
type Resolver struct {
	Backend Backend
	Flags   Flags
}

// resolve picks the concrete backend to use for one call, honoring
// BackendAuto's probe-and-fall-back behavior: libpathrs if compiled in,
// then openat2, then the userspace walker.
func (r Resolver) resolve() (backend, error) {
	switch r.Backend {
	case BackendEmulated:
		return emulated{}, nil
	case BackendKernelNative:
		if !(kernelNative{}).available() {
			return nil, errx.New(errx.KindNotSupported, "kernel does not support openat2(RESOLVE_IN_ROOT)")
		}
		return kernelNative{}, nil
	case BackendCgoPathrs:
		if b, ok := cgoPathrsBackend(); ok {
			return b, nil
		}
		return nil, errx.New(errx.KindNotSupported, "built without the cgo_pathrs build tag")
	case BackendAuto:
		if b, ok := cgoPathrsBackend(); ok {
			return b, nil
		}
		if (kernelNative{}).available() {
			return kernelNative{}, nil
		}
		return emulated{}, nil
	default:
		return nil, errx.Newf(errx.KindInvalidArgument, "unknown resolver backend %v", r.Backend)
	}
}

// Resolve fully resolves path relative to root, following intermediate
// symlinks (and the trailing one too, unless nofollowTrailing is set),
// failing with ENOENT if any named component is missing.
func (r Resolver) Resolve(root fd.Fd, path string, nofollowTrailing bool) (*os.File, error) {
	b, err := r.resolve()
	if err != nil {
		return nil, err
	}
	f, err := b.Resolve(root, path, nofollowTrailing, r.Flags)
	if err != nil {
		return nil, wrapBackendErr("resolve", err)
	}
	return f, nil
}

// wrapBackendErr classifies a raw backend error before handing it to the
// public API: a *StackError means the containment re-check (or a symlink-
// stack invariant) caught an escape attempt, which must surface as
// KindSafetyViolation rather than an ordinary KindOsError -- callers use
// errors.Is against rootwalk.ErrSafetyViolation to distinguish "the root
// was escaped" from "a component didn't exist".
func wrapBackendErr(op string, err error) error {
	var stackErr *StackError
	if errors.As(err, &stackErr) {
		return errx.Wrap(errx.New(errx.KindSafetyViolation, stackErr.Error()), op)
	}
	return errx.FromOS(op, err)
}

// ResolvePartial resolves as much of path as exists, never failing merely
// because a named component is missing, and returns the unresolved suffix
// alongside the deepest handle reached.
func (r Resolver) ResolvePartial(root fd.Fd, path string) (*os.File, string, error) {
	b, err := r.resolve()
	if err != nil {
		return nil, "", err
	}
	f, remaining, err := b.ResolvePartial(root, path, r.Flags)
	if err != nil {
		return nil, "", wrapBackendErr("resolve_partial", err)
	}
	return f, remaining, nil
}
