//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rootwalk

import (
	"errors"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/cyphar/rootwalk/internal/sysx"
)

// MkdirAll creates path and any missing parent directories inside the
// root, using mode for every directory it creates (existing directories
// along the way are left untouched). It succeeds silently if path already
// exists and is a directory.
//
// mode is validated more strictly than os.MkdirAll: besides rejecting any
// bits outside the usual 07777 permission range, it also rejects the
// setuid/setgid bits (06000) specifically, since mkdirat silently drops
// them and a caller asking for them is almost certainly confused about
// what they would get back.
func (r *Root) MkdirAll(path string, mode os.FileMode) error {
	h, err := r.MkdirAllHandle(path, mode)
	if err != nil {
		return err
	}
	return h.Close()
}

// MkdirAllHandle is like MkdirAll, but also returns a Handle to the
// deepest directory named by path (whether it was just created or already
// existed). This is the form to use when the directory is about to be
// operated on anyway: the returned handle refers to the inode this call
// actually made or verified, not whatever a later re-resolution of path
// might find.
func (r *Root) MkdirAllHandle(path string, mode os.FileMode) (*Handle, error) {
	// mode is treated as a raw POSIX mode_t, not run through
	// os.FileMode.Perm() -- that would silently discard the setuid/setgid/
	// sticky bits (above os.ModePerm's low 9) that this check exists to
	// catch in the first place.
	raw := uint32(mode)
	if raw&^0o7777 != 0 {
		return nil, wrapErr("mkdir_all", path, invalidArg("mode", "contains non-mode bits"))
	}
	if raw&^0o1777 != 0 {
		return nil, wrapErr("mkdir_all", path, invalidArg("mode", "setuid and setgid bits are silently dropped by mkdirat"))
	}
	perm := raw

	cur, remaining, err := r.resolvePartial(path)
	if err != nil {
		return nil, wrapErr("mkdir_all", path, err)
	}

	if remaining == "" {
		st, err := cur.Stat()
		if err != nil {
			cur.Close()
			return nil, wrapErr("mkdir_all", path, err)
		}
		if !st.IsDir() {
			cur.Close()
			return nil, wrapErr("mkdir_all", path, unix.ENOTDIR)
		}
		return cur, nil
	}

	comps := strings.Split(remaining, "/")
	for _, name := range comps {
		switch name {
		case "", ".":
			continue
		case "..":
			// A ".." after resolve_partial has already found the deepest
			// existing prefix is semantically undefined (there is nothing
			// recorded about what, if anything, used to be above that
			// prefix), so it is rejected rather than guessed at.
			cur.Close()
			return nil, wrapErr("mkdir_all", path, unix.ENOENT)
		}

		if err := sysx.Mkdirat(cur.f, name, perm); err != nil && !errors.Is(err, os.ErrExist) {
			cur.Close()
			return nil, wrapErr("mkdir_all", path, err)
		}

		// Re-open by name rather than trusting the mkdirat to have
		// succeeded on the inode we expect: a concurrent adversary could
		// have raced us and swapped the new entry for something that is
		// no longer a directory between the mkdirat and this openat.
		next, err := sysx.Openat(cur.f, name, unix.O_PATH|unix.O_DIRECTORY|unix.O_NOFOLLOW, 0)
		cur.Close()
		if err != nil {
			return nil, wrapErr("mkdir_all", path, err)
		}
		cur = &Handle{f: next}
	}
	return cur, nil
}
