//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/cyphar/rootwalk/internal/fd"
	"github.com/cyphar/rootwalk/internal/procfs"
)

// maxAncestorWalk bounds the fstat-based fallback ancestor walk: the
// number of physical ".." hops it will take looking for the root's
// (dev, ino) before giving up and reporting a safety violation.
const maxAncestorWalk = 4096

// containmentChecker re-verifies, after every directory advance the walker
// makes, that the walker's current directory handle is still a descendant
// of the root. Re-checking only after ".." would not be enough: a
// concurrent adversary can rename an already-open ancestor directory out
// of the root between two steps of the walk, and the fd's identity
// survives the rename while its canonical path does not.
type containmentChecker struct {
	proc      *procfs.Handle // nil if /proc is unavailable
	rootCanon string         // only meaningful if proc != nil
	rootDev   uint64
	rootIno   uint64
}

// newContainmentChecker builds a checker bound to root for the duration of a
// single resolve() call. It opens (and owns) its own /proc handle so that
// concurrent resolves don't contend over one shared handle.
func newContainmentChecker(root fd.Fd) (*containmentChecker, error) {
	var st unix.Stat_t
	if err := unix.Fstat(int(root.Fd()), &st); err != nil {
		return nil, err
	}
	c := &containmentChecker{
		rootDev: uint64(st.Dev),
		rootIno: st.Ino,
	}

	proc, err := procfs.Open()
	if err != nil {
		// No usable /proc: the fallback ancestor walk below is the only
		// option.
		return c, nil
	}
	canon, err := proc.SelfFdPath(root)
	if err != nil {
		_ = proc.Close()
		return c, nil
	}
	c.proc = proc
	c.rootCanon = canon
	return c, nil
}

// Close releases the checker's /proc handle, if any.
func (c *containmentChecker) Close() {
	if c.proc != nil {
		_ = c.proc.Close()
	}
}

// Check verifies that dir is still contained within the root this checker
// was built against, returning a *StackError-shaped error (mapped to
// KindSafetyViolation by the resolver) if not.
func (c *containmentChecker) Check(dir fd.Fd) error {
	if c.proc != nil {
		return c.checkViaProcfs(dir)
	}
	return c.checkViaAncestorWalk(dir)
}

func (c *containmentChecker) checkViaProcfs(dir fd.Fd) error {
	canon, err := c.proc.SelfFdPath(dir)
	if err != nil {
		return err
	}
	prefix := c.rootCanon
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if canon != c.rootCanon && !strings.HasPrefix(canon, prefix) {
		return &StackError{Description: fmt.Sprintf("escaped root: %q is not contained in %q", canon, c.rootCanon)}
	}
	return nil
}

// checkViaAncestorWalk is the fstat-based fallback used when /proc is
// unavailable: physically walk ".." from dir, comparing (dev, ino) at each
// step against the root's, until either a match is found (contained) or the
// real filesystem root is reached without one (escaped).
func (c *containmentChecker) checkViaAncestorWalk(dir fd.Fd) error {
	dupFd, err := unix.FcntlInt(dir.Fd(), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return err
	}
	cur := os.NewFile(uintptr(dupFd), dir.Name())
	defer cur.Close()

	for i := 0; i < maxAncestorWalk; i++ {
		var st unix.Stat_t
		if err := unix.Fstat(int(cur.Fd()), &st); err != nil {
			return err
		}
		if uint64(st.Dev) == c.rootDev && st.Ino == c.rootIno {
			return nil
		}

		parentFd, err := unix.Openat(int(cur.Fd()), "..", unix.O_PATH|unix.O_NOFOLLOW|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
		if err != nil {
			return err
		}
		var parentSt unix.Stat_t
		if err := unix.Fstat(parentFd, &parentSt); err != nil {
			unix.Close(parentFd)
			return err
		}
		reachedFsRoot := uint64(parentSt.Dev) == uint64(st.Dev) && parentSt.Ino == st.Ino
		cur.Close()
		cur = os.NewFile(uintptr(parentFd), "..")
		if reachedFsRoot {
			return &StackError{Description: "escaped root: ancestor walk reached the real filesystem root without finding it"}
		}
	}
	return &StackError{Description: "escaped root: ancestor walk exceeded maximum depth"}
}
