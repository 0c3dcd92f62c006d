//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rootwalk

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/cyphar/rootwalk/internal/procfs"
)

// Handle is a resolved reference to a single inode inside a Root's
// directory tree. It is usually an O_PATH descriptor (Resolve/
// ResolveNoFollow never need read/write access just to identify an inode),
// and must be Reopened with concrete flags before it can be read from or
// written to.
type Handle struct {
	f *os.File
}

// Close releases the handle's underlying file descriptor.
func (h *Handle) Close() error { return h.f.Close() }

// Fd returns the raw O_PATH file descriptor. Most callers should use
// Reopen instead of doing I/O on this descriptor directly.
func (h *Handle) Fd() uintptr { return h.f.Fd() }

// Stat returns the handle's inode metadata, without following it if it
// happens to be a symlink.
func (h *Handle) Stat() (os.FileInfo, error) {
	return h.f.Stat()
}

// Reopen upgrades the handle to a file descriptor usable for ordinary I/O,
// with the given open(2) flags (access mode plus O_TRUNC/O_APPEND -- the
// path-resolution flags are not meaningful here since the inode is already
// resolved). This goes through /proc/self/fd/<n>, exactly as
// openat2(RESOLVE_IN_ROOT) handles do in practice, since an O_PATH
// descriptor cannot have its open mode changed in place.
func (h *Handle) Reopen(flags OpenFlags) (*os.File, error) {
	proc, err := procfs.Open()
	if err != nil {
		return nil, wrapErr("reopen", h.f.Name(), err)
	}
	defer proc.Close()

	reopened, err := proc.OpenSelfFd(h.f, translateOpenFlags(flags), 0)
	if err != nil {
		return nil, wrapErr("reopen", h.f.Name(), err)
	}
	return reopened, nil
}

func translateOpenFlags(flags OpenFlags) int {
	real := 0
	switch {
	case flags.has(OpenReadWrite):
		real |= unix.O_RDWR
	case flags.has(OpenWriteOnly):
		real |= unix.O_WRONLY
	default:
		real |= unix.O_RDONLY
	}
	if flags.has(OpenCreate) {
		real |= unix.O_CREAT
	}
	if flags.has(OpenExclusive) {
		real |= unix.O_EXCL
	}
	if flags.has(OpenTruncate) {
		real |= unix.O_TRUNC
	}
	if flags.has(OpenAppend) {
		real |= unix.O_APPEND
	}
	if flags.has(OpenNoFollowTrailing) {
		real |= unix.O_NOFOLLOW
	}
	real |= unix.O_CLOEXEC
	return real
}
