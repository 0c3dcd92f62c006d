//go:build linux && cgo_pathrs

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"os"

	pathrs "cyphar.com/go-pathrs"
	"golang.org/x/sys/unix"

	"github.com/cyphar/rootwalk/internal/fd"
)

// cgoPathrs is an opt-in third backend, built only with -tags cgo_pathrs,
// that delegates to libpathrs's C implementation via its Go bindings. It
// exists alongside (not instead of) the emulated and kernel-native Go
// backends, for deployments that already link libpathrs and want all path
// resolution to go through one hardened implementation.
type cgoPathrs struct{}

// cgoPathrsBackend reports that the libpathrs backend is compiled in. The
// !cgo_pathrs build supplies the always-false variant.
func cgoPathrsBackend() (backend, bool) { return cgoPathrs{}, true }

func (cgoPathrs) Resolve(root fd.Fd, path string, nofollowTrailing bool, flags Flags) (*os.File, error) {
	rootFile, ok := root.(*os.File)
	if !ok {
		rootFile = os.NewFile(root.Fd(), root.Name())
	}
	pr, err := pathrs.RootFromFile(rootFile)
	if err != nil {
		return nil, err
	}
	defer pr.Close()

	var handle *pathrs.Handle
	if nofollowTrailing {
		handle, err = pr.ResolveNoFollow(path)
	} else {
		handle, err = pr.Resolve(path)
	}
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	return handle.Reopen(unix.O_PATH)
}

func (cgoPathrs) ResolvePartial(root fd.Fd, path string, flags Flags) (*os.File, string, error) {
	// libpathrs doesn't expose a partial-resolution primitive, so
	// MkdirAll and friends always go through the emulated walker for it,
	// whichever backend handles full resolution.
	return emulated{}.ResolvePartial(root, path, flags)
}
