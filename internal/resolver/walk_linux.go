//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"errors"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/cyphar/rootwalk/internal/fd"
	"github.com/cyphar/rootwalk/internal/pathutil"
	"github.com/cyphar/rootwalk/internal/sysx"
)

// emulated implements the userspace, component-by-component walker: the
// fallback backend used whenever BackendKernelNative isn't available or
// wasn't asked for, and the reference implementation the kernel-native
// backend's results are expected to match.
type emulated struct{}

// Resolve implements the "full" resolution contract: it fails with ENOENT if
// any named component never showed up, rather than returning a partial
// result.
func (e emulated) Resolve(root fd.Fd, path string, nofollowTrailing bool, flags Flags) (*os.File, error) {
	f, remaining, err := e.walk(root, path, nofollowTrailing, flags)
	if err != nil {
		return nil, err
	}
	if len(remaining) > 0 {
		f.Close()
		return nil, &os.PathError{Op: "resolve", Path: path, Err: unix.ENOENT}
	}
	return f, nil
}

// ResolvePartial implements the "partial" resolution contract: it never
// fails merely because a named component is missing, instead returning the
// deepest handle it managed to reach plus the unresolved suffix joined back
// into a relative path.
func (e emulated) ResolvePartial(root fd.Fd, path string, flags Flags) (*os.File, string, error) {
	f, remaining, err := e.walk(root, path, false, flags)
	if err != nil {
		return nil, "", err
	}
	return f, strings.Join(remaining, "/"), nil
}

// walk is the shared algorithm behind both Resolve and ResolvePartial. It
// returns the deepest directory or file handle it managed to reach, plus
// whatever path components (if any) it was unable to resolve because a
// named component did not exist. A non-nil error always means the walk
// failed outright: a safety violation, a budget exceeded, or an
// intermediate non-directory. Deciding whether leftover components are an
// error is the caller's business (Resolve says yes, ResolvePartial no).
func (emulated) walk(root fd.Fd, path string, nofollowTrailing bool, flags Flags) (*os.File, []string, error) {
	if root == nil {
		return nil, nil, unix.EBADF
	}

	components, trailingSlash := pathutil.Split(path)
	if len(components) == 0 && !trailingSlash {
		return nil, nil, &os.PathError{Op: "resolve", Path: path, Err: unix.ENOENT}
	}

	checker, err := newContainmentChecker(root)
	if err != nil {
		return nil, nil, err
	}
	defer checker.Close()

	rootDup, err := sysx.DupCloexec(asFile(root))
	if err != nil {
		return nil, nil, err
	}
	current := rootDup

	var stack Stack
	remaining := components

	for len(remaining) > 0 {
		c := remaining[0]
		remaining = remaining[1:]
		isLast := len(remaining) == 0

		switch c {
		case "", ".":
			continue
		case "..":
			if err := handleDotDot(root, &current, &stack, checker); err != nil {
				current.Close()
				return nil, nil, err
			}
			continue
		}

		next, err := sysx.Openat(current, c, unix.O_PATH|unix.O_NOFOLLOW, 0)
		if err != nil {
			if errors.Is(err, unix.ENOENT) || errors.Is(err, unix.ENOTDIR) {
				remaining = append([]string{c}, remaining...)
				return current, remaining, nil
			}
			current.Close()
			return nil, nil, err
		}

		st, err := sysx.Fstatat(next, "", unix.AT_SYMLINK_NOFOLLOW|unix.AT_EMPTY_PATH)
		if err != nil {
			next.Close()
			current.Close()
			return nil, nil, err
		}

		switch st.Mode & unix.S_IFMT {
		case unix.S_IFDIR:
			current.Close()
			current = next
			if err := checker.Check(current); err != nil {
				current.Close()
				return nil, nil, err
			}
			stack.ConsumeComponent()

		case unix.S_IFLNK:
			if flags.Has(NoSymlinks) {
				next.Close()
				current.Close()
				return nil, nil, unix.ELOOP
			}
			if isLast && nofollowTrailing {
				if trailingSlash {
					next.Close()
					current.Close()
					return nil, nil, unix.ENOTDIR
				}
				current.Close()
				return next, nil, nil
			}

			target, err := sysx.Readlinkat(current, c)
			next.Close()
			if err != nil {
				current.Close()
				return nil, nil, err
			}
			if target == "" {
				current.Close()
				return nil, nil, &os.PathError{Op: "readlinkat", Path: c, Err: unix.ENOENT}
			}
			if err := stack.Push(current, c, len(target)); err != nil {
				current.Close()
				return nil, nil, err
			}
			remaining = pathutil.Join(target, remaining)
			if pathutil.IsAbs(target) {
				newRoot, err := sysx.DupCloexec(asFile(root))
				if err != nil {
					current.Close()
					return nil, nil, err
				}
				current.Close()
				current = newRoot
			}

		default:
			if !isLast {
				next.Close()
				current.Close()
				return nil, nil, unix.ENOTDIR
			}
			current.Close()
			current = next
		}
	}

	if trailingSlash {
		st, err := sysx.Fstatat(current, "", unix.AT_SYMLINK_NOFOLLOW|unix.AT_EMPTY_PATH)
		if err != nil {
			current.Close()
			return nil, nil, err
		}
		if st.Mode&unix.S_IFMT != unix.S_IFDIR {
			current.Close()
			return nil, nil, unix.ENOTDIR
		}
	}

	return current, nil, nil
}

// handleDotDot implements one ".." step. The symlink stack is unwound
// first: frames that contributed no directory advances are discarded (they
// have nothing for a ".." to reverse, so it accounts against whatever
// encloses them), and the topmost frame with advances to its name gets one
// deducted. Either way the step then acts physically, with a ".." at the
// root itself being a silent no-op rather than an error (matching
// RESOLVE_IN_ROOT semantics). A physical ascent is immediately followed by
// a containment re-check: ascending is the one step an adversary renaming
// our ancestors out of the root can directly turn into an escape, so the
// walk never proceeds on an unchecked parent.
func handleDotDot(root fd.Fd, current **os.File, stack *Stack, checker *containmentChecker) error {
	for {
		ok, deducted := stack.PopForDotDot()
		if !ok || deducted {
			break
		}
	}

	var rootSt, curSt unix.Stat_t
	if err := unix.Fstat(int(root.Fd()), &rootSt); err != nil {
		return err
	}
	if err := unix.Fstat(int((*current).Fd()), &curSt); err != nil {
		return err
	}
	if uint64(rootSt.Dev) == uint64(curSt.Dev) && rootSt.Ino == curSt.Ino {
		return nil
	}

	next, err := sysx.Openat(*current, "..", unix.O_PATH|unix.O_NOFOLLOW|unix.O_DIRECTORY, 0)
	if err != nil {
		return err
	}
	if err := checker.Check(next); err != nil {
		next.Close()
		return err
	}
	(*current).Close()
	*current = next
	return nil
}

// asFile adapts an fd.Fd to *os.File for sysx.DupCloexec, which needs a
// concrete *os.File. Every fd.Fd rootwalk actually constructs is
// backed by *os.File, so this type assertion never fails in practice; it
// exists so internal/fd's Fd interface doesn't need an explicit "AsFile"
// method just for this package.
func asFile(f fd.Fd) *os.File {
	if file, ok := f.(*os.File); ok {
		return file
	}
	// Fall back to re-deriving a *os.File from the raw descriptor. This
	// path is only reachable if a caller supplies a non-*os.File fd.Fd
	// implementation, which rootwalk itself never does.
	return os.NewFile(f.Fd(), f.Name())
}
