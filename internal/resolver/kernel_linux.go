//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/cyphar/rootwalk/internal/fd"
	"github.com/cyphar/rootwalk/internal/gocompat"
)

// kernelNative implements the resolver backend that delegates directly to
// openat2(2)'s RESOLVE_IN_ROOT resolve-mode: the kernel itself guarantees
// the containment and symlink-loop invariants this package's emulated
// backend has to build by hand, at the cost of only being available on
// Linux 5.6+.
type kernelNative struct{}

// openat2Supported is probed once, against a harmless always-present path,
// since there is no dedicated "does the kernel support openat2" query.
var openat2Supported = gocompat.SyncOnceValue(probeOpenat2)

func probeOpenat2() bool {
	how := unix.OpenHow{
		Flags:   unix.O_PATH | unix.O_CLOEXEC,
		Resolve: unix.RESOLVE_IN_ROOT,
	}
	rawFd, err := unix.Openat2(unix.AT_FDCWD, ".", &how)
	if err != nil {
		return err != unix.ENOSYS && err != unix.EINVAL
	}
	unix.Close(rawFd)
	return true
}

func (kernelNative) available() bool { return openat2Supported() }

// Resolve implements the "full" resolution contract via openat2.
func (k kernelNative) Resolve(root fd.Fd, path string, nofollowTrailing bool, flags Flags) (*os.File, error) {
	how := unix.OpenHow{
		Flags:   unix.O_PATH | unix.O_CLOEXEC,
		Resolve: unix.RESOLVE_IN_ROOT | unix.RESOLVE_NO_MAGICLINKS,
	}
	if nofollowTrailing {
		how.Flags |= unix.O_NOFOLLOW
	}
	if flags.Has(NoSymlinks) {
		how.Resolve |= unix.RESOLVE_NO_SYMLINKS
	}

	rawFd, err := unix.Openat2(int(root.Fd()), path, &how)
	if err != nil {
		return nil, &os.PathError{Op: "openat2", Path: path, Err: err}
	}
	return os.NewFile(uintptr(rawFd), path), nil
}

// ResolvePartial has no direct openat2 equivalent (the kernel either
// resolves the whole path or fails outright), so the kernel-native backend
// falls back to the emulated walker for it. This keeps BackendKernelNative
// usable for mkdir_all and friends while still using openat2 for the common
// full-resolution path.
func (k kernelNative) ResolvePartial(root fd.Fd, path string, flags Flags) (*os.File, string, error) {
	return emulated{}.ResolvePartial(root, path, flags)
}
