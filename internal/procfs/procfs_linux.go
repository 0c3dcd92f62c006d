//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package procfs provides the /proc plumbing behind the emulated
// resolver's containment check: determining the kernel-canonical path of a
// held directory handle, so that a resolver walk can tell whether the
// handle it is about to advance into has been moved outside the root by a
// concurrent adversary. The opened /proc is verified to really be procfs
// before anything read through it is trusted; defending against an
// adversary who can remount /proc itself is a different threat model and
// deliberately not attempted here.
package procfs

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/cyphar/rootwalk/internal/fd"
)

const (
	procSuperMagic = 0x9fa0 // PROC_SUPER_MAGIC
	procRootIno    = 1      // PROC_ROOT_INO
)

var errUnsafeProcfs = errors.New("unsafe procfs detected")

// Handle is a verified handle to the root of a procfs mount.
type Handle struct {
	root *os.File
}

// Open opens "/proc" and verifies that it is really a procfs mount (and not
// something an attacker has mounted over it), returning a Handle that can
// be used to canonicalize other file descriptors' paths.
//
// Open returns a nil *Handle and a non-nil error if /proc is not mounted or
// does not look like procfs; callers (the emulated resolver's containment
// check) must fall back to the device+inode ancestor walk in that case.
func Open() (*Handle, error) {
	root, err := os.OpenFile("/proc", unix.O_PATH|unix.O_NOFOLLOW|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	if err := verifyRoot(root); err != nil {
		_ = root.Close()
		return nil, err
	}
	return &Handle{root: root}, nil
}

// Close releases the underlying /proc handle.
func (h *Handle) Close() error { return h.root.Close() }

func verifyRoot(f *os.File) error {
	var statfs unix.Statfs_t
	if err := unix.Fstatfs(int(f.Fd()), &statfs); err != nil {
		return err
	}
	if statfs.Type != procSuperMagic {
		return fmt.Errorf("%w: incorrect procfs filesystem type 0x%x", errUnsafeProcfs, statfs.Type)
	}
	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		return err
	}
	if st.Ino != procRootIno {
		return fmt.Errorf("%w: incorrect procfs root inode %d", errUnsafeProcfs, st.Ino)
	}
	return nil
}

// SelfFdPath returns the kernel-canonical path of the given held file
// descriptor, by reading the "/proc/self/fd/<n>" magic-link. This is the
// primary mechanism behind the containment re-check: a handle's canonical
// path is only trustworthy if it was obtained this way, since a plain
// Readlink of a user-controlled path could itself be attacked.
func (h *Handle) SelfFdPath(f fd.Fd) (string, error) {
	name := "self/fd/" + strconv.Itoa(int(f.Fd()))
	size := 1024
	for {
		buf := make([]byte, size)
		n, err := unix.Readlinkat(int(h.root.Fd()), name, buf)
		if err != nil {
			return "", &os.PathError{Op: "readlinkat", Path: "/proc/" + name, Err: err}
		}
		if n < size {
			return string(buf[:n]), nil
		}
		size *= 2
	}
}

// OpenSelfFd reopens f's magic-link under "/proc/self/fd/<n>" with new
// open(2) flags, resolved relative to this verified /proc handle rather
// than by looking up "/proc" fresh -- the whole point of carrying a
// verified Handle around is to never repeat that lookup against a
// potentially-attacker-influenced "/proc" path string.
func (h *Handle) OpenSelfFd(f fd.Fd, flags int, mode uint32) (*os.File, error) {
	name := "self/fd/" + strconv.Itoa(int(f.Fd()))
	rawFd, err := unix.Openat(int(h.root.Fd()), name, flags, mode)
	if err != nil {
		return nil, &os.PathError{Op: "openat", Path: "/proc/" + name, Err: err}
	}
	return os.NewFile(uintptr(rawFd), f.Name()), nil
}
