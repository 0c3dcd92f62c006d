//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sysx is the syscall shim: thin, typed wrappers over the
// directory-handle-relative syscall family (openat, mkdirat, mknodat,
// symlinkat, linkat, unlinkat, renameat2, readlinkat, fstatat). Every
// wrapper takes a directory fd.Fd plus a single slash-free (or, for
// Openat, possibly multi-component but never root-escaping) name and
// surfaces the raw *os.PathError / *os.LinkError from the kernel --
// wrapping those into rootwalk's structured error model is the caller's
// job, not this package's.
package sysx

import (
	"os"
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/cyphar/rootwalk/internal/fd"
)

// dirFd extracts a raw fd number from dir, or AT_FDCWD's invalid-fd
// equivalent (-EBADF) if dir is nil. We deliberately never fall back to
// AT_FDCWD for a nil dir, since rootwalk never wants an implicit
// relative-to-cwd lookup.
func dirFd(dir fd.Fd) (int, string) {
	if dir == nil {
		return -int(unix.EBADF), "."
	}
	return int(dir.Fd()), dir.Name()
}

// Openat opens name relative to dir with the given flags/mode. The caller
// is responsible for choosing flags that prevent this from being used to
// traverse multiple components unsafely (the resolver only ever passes a
// single path component or ".." here; the root itself is opened with
// os.OpenFile, not through this function).
func Openat(dir fd.Fd, name string, flags int, mode uint32) (*os.File, error) {
	dfd, dpath := dirFd(dir)
	flags |= unix.O_CLOEXEC
	rawFd, err := unix.Openat(dfd, name, flags, mode)
	if err != nil {
		return nil, &os.PathError{Op: "openat", Path: dpath + "/" + name, Err: err}
	}
	runtime.KeepAlive(dir)
	return os.NewFile(uintptr(rawFd), name), nil
}

// Fstatat runs fstatat(dir, name, flags). Pass unix.AT_SYMLINK_NOFOLLOW to
// avoid following a trailing symlink.
func Fstatat(dir fd.Fd, name string, flags int) (unix.Stat_t, error) {
	dfd, dpath := dirFd(dir)
	var st unix.Stat_t
	if err := unix.Fstatat(dfd, name, &st, flags); err != nil {
		return st, &os.PathError{Op: "fstatat", Path: dpath + "/" + name, Err: err}
	}
	runtime.KeepAlive(dir)
	return st, nil
}

// Fstat runs fstat(dir.Fd()).
func Fstat(f fd.Fd) (unix.Stat_t, error) {
	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		return st, &os.PathError{Op: "fstat", Path: f.Name(), Err: err}
	}
	return st, nil
}

// Readlinkat reads the symlink target of name relative to dir, growing the
// read buffer until the whole target fits.
func Readlinkat(dir fd.Fd, name string) (string, error) {
	dfd, dpath := dirFd(dir)
	size := 1024
	for {
		buf := make([]byte, size)
		n, err := unix.Readlinkat(dfd, name, buf)
		if err != nil {
			return "", &os.PathError{Op: "readlinkat", Path: dpath + "/" + name, Err: err}
		}
		runtime.KeepAlive(dir)
		if n < size {
			return string(buf[:n]), nil
		}
		size *= 2
	}
}

// Mkdirat creates a directory named name inside dir with the given mode.
func Mkdirat(dir fd.Fd, name string, mode uint32) error {
	dfd, dpath := dirFd(dir)
	if err := unix.Mkdirat(dfd, name, mode); err != nil {
		return &os.PathError{Op: "mkdirat", Path: dpath + "/" + name, Err: err}
	}
	runtime.KeepAlive(dir)
	return nil
}

// Mknodat creates a device/regular/fifo inode named name inside dir.
// mode must already include the S_IFMT type bits (S_IFREG, S_IFIFO, ...).
func Mknodat(dir fd.Fd, name string, mode uint32, dev uint64) error {
	dfd, dpath := dirFd(dir)
	if err := unix.Mknodat(dfd, name, mode, int(dev)); err != nil {
		return &os.PathError{Op: "mknodat", Path: dpath + "/" + name, Err: err}
	}
	runtime.KeepAlive(dir)
	return nil
}

// Symlinkat creates a symlink named name inside dir pointing at target.
// target is never interpreted or validated -- it is written verbatim; a
// symlink's target is just data until something resolves through it.
func Symlinkat(target string, dir fd.Fd, name string) error {
	dfd, dpath := dirFd(dir)
	if err := unix.Symlinkat(target, dfd, name); err != nil {
		return &os.PathError{Op: "symlinkat", Path: dpath + "/" + name, Err: err}
	}
	runtime.KeepAlive(dir)
	return nil
}

// Linkat creates a hardlink: the existing inode oldname inside olddir
// becomes reachable as newname inside newdir too.
func Linkat(olddir fd.Fd, oldname string, newdir fd.Fd, newname string, flags int) error {
	odfd, odpath := dirFd(olddir)
	ndfd, ndpath := dirFd(newdir)
	if err := unix.Linkat(odfd, oldname, ndfd, newname, flags); err != nil {
		return &os.LinkError{Op: "linkat", Old: odpath + "/" + oldname, New: ndpath + "/" + newname, Err: err}
	}
	runtime.KeepAlive(olddir)
	runtime.KeepAlive(newdir)
	return nil
}

// Unlinkat removes a directory entry. Pass unix.AT_REMOVEDIR to remove an
// (empty) directory instead of a non-directory inode.
func Unlinkat(dir fd.Fd, name string, flags int) error {
	dfd, dpath := dirFd(dir)
	if err := unix.Unlinkat(dfd, name, flags); err != nil {
		return &os.PathError{Op: "unlinkat", Path: dpath + "/" + name, Err: err}
	}
	runtime.KeepAlive(dir)
	return nil
}

// Renameat2 performs an atomic rename with the given renameat2(2) flags
// (RENAME_NOREPLACE, RENAME_EXCHANGE, RENAME_WHITEOUT).
func Renameat2(olddir fd.Fd, oldname string, newdir fd.Fd, newname string, flags uint) error {
	odfd, odpath := dirFd(olddir)
	ndfd, ndpath := dirFd(newdir)
	if err := unix.Renameat2(odfd, oldname, ndfd, newname, flags); err != nil {
		return &os.LinkError{Op: "renameat2", Old: odpath + "/" + oldname, New: ndpath + "/" + newname, Err: err}
	}
	runtime.KeepAlive(olddir)
	runtime.KeepAlive(newdir)
	return nil
}

// DupCloexec duplicates f's underlying descriptor with F_DUPFD_CLOEXEC, for
// use whenever a Root needs an independent copy of its directory handle
// (e.g. to reset the walk's current directory back to the root).
func DupCloexec(f *os.File) (*os.File, error) {
	newFd, err := unix.FcntlInt(f.Fd(), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return nil, os.NewSyscallError("fcntl(F_DUPFD_CLOEXEC)", err)
	}
	return os.NewFile(uintptr(newFd), f.Name()), nil
}
