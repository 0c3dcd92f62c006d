//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/cyphar/rootwalk/internal/fd"
)

// maxSymlinkLimit bounds the number of symlink expansions a single
// resolve() call will perform before giving up with ELOOP. Linux's own
// internal limit is 40; we allow 255 since the emulated resolver's budget
// is a denial-of-service guard, not a correctness requirement.
const maxSymlinkLimit = 255

// maxSymlinkBytes bounds the combined length of every symlink target
// expanded during one resolve() call, independent of how many symlinks
// that involves (a single symlink with a very long target is just as much
// of a resource-exhaustion vector as many short ones).
const maxSymlinkBytes = 32 * 1024

// frame records one pushed symlink expansion: the (dev, ino) of the
// directory it was encountered in (recorded only; checkInvariants and
// PopForDotDot do not consult it) and how many
// directory-advancing components the walker has consumed while inside this
// expansion, so that a later ".." knows whether to unwind physically or
// just close out the frame.
type frame struct {
	dirDev   uint64
	dirIno   uint64
	name     string
	consumed int
}

// StackError is returned when a Stack invariant is violated. The resolver
// maps this to a safety violation at its boundary, but keeps it
// distinguishable internally.
type StackError struct {
	Description string
}

func (e *StackError) Error() string {
	return fmt.Sprintf("broken symlink stack: %s", e.Description)
}

// Stack is the explicit data structure driving ".."-through-symlink
// correctness and adversarial-swap detection. The walker owns the single
// shared "remaining components" queue directly (prepending a symlink's
// target when it is expanded); Stack only tracks, per pushed symlink, how
// many directory-advancing components have been attributed to it so far.
// Modeling this as an explicit slice of frames -- rather than expanding
// symlinks with recursion -- is what lets the expansion and byte-length
// budgets be enforced globally. The invariants are checked after every
// Push; ConsumeComponent and PopForDotDot do not re-check them.
type Stack struct {
	frames      []frame
	expansions  int
	bytesWalked int
}

// Active reports whether there is at least one pushed symlink frame still
// live (i.e. the walker is currently inside an expanded symlink's target).
func (s *Stack) Active() bool { return len(s.frames) > 0 }

// Push records a new symlink expansion encountered while the walker's
// current directory is dir and the symlink's own name is name. targetLen is
// the byte length of the symlink's target, used for the total-bytes budget.
func (s *Stack) Push(dir fd.Fd, name string, targetLen int) error {
	s.expansions++
	if s.expansions > maxSymlinkLimit {
		return unix.ELOOP
	}
	s.bytesWalked += targetLen
	if s.bytesWalked > maxSymlinkBytes {
		return unix.ELOOP
	}

	var st unix.Stat_t
	if err := unix.Fstat(int(dir.Fd()), &st); err != nil {
		return err
	}

	s.frames = append(s.frames, frame{
		dirDev: uint64(st.Dev),
		dirIno: st.Ino,
		name:   name,
	})
	return s.checkInvariants()
}

// ConsumeComponent records that the walker just advanced into a real
// directory component (not "." or ".."), attributing that step to the
// top-most active frame if one exists.
func (s *Stack) ConsumeComponent() {
	if len(s.frames) == 0 {
		return
	}
	s.frames[len(s.frames)-1].consumed++
}

// PopForDotDot accounts one ".." against the stack: if the top frame has
// consumed > 0 directory-advances, decrement the counter (ok=true,
// deducted=true). If the top frame contributed no directory steps at all
// (e.g. a symlink to "." or to another symlink), pop it outright
// (deducted=false) -- it has nothing for a ".." to reverse, so the walker
// should retry the deduction against whatever encloses it. If the stack is
// empty there is nothing to account (ok=false). The physical ".." itself
// is always the walker's job, performed after the stack is settled.
func (s *Stack) PopForDotDot() (ok, deducted bool) {
	if len(s.frames) == 0 {
		return false, false
	}
	top := &s.frames[len(s.frames)-1]
	if top.consumed > 0 {
		top.consumed--
		return true, true
	}
	s.frames = s.frames[:len(s.frames)-1]
	return true, false
}

// checkInvariants verifies the structural invariant every mutation must
// preserve: no frame's consumed counter is ever negative.
func (s *Stack) checkInvariants() error {
	for i, f := range s.frames {
		if f.consumed < 0 {
			return &StackError{Description: fmt.Sprintf("frame %d (%q) has negative consumed count %d", i, f.name, f.consumed)}
		}
	}
	return nil
}
