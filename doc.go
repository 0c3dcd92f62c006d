// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rootwalk provides race-free path resolution rooted at a
// directory, on Linux. A Root is a "safe" handle to a directory tree:
// every operation performed through it is guaranteed to stay within that
// tree, even in the presence of concurrent renames, symlink swaps, or a
// malicious directory structure, by emulating the semantics of
// openat2(2)'s RESOLVE_IN_ROOT resolve mode (using openat2 directly where
// the running kernel supports it, and a userspace walker otherwise).
//
// A Root is unrelated to os.Root: this package predates it, is Linux-only,
// and exposes considerably more of the underlying directory-fd machinery
// (explicit resolve/resolve_nofollow, typed inode creation, and
// MkdirAllHandle, which builds directories incrementally on top of an
// unexported resolve_partial primitive).
//
// The zero-value safety story rests entirely on never interpolating a
// resolved path back into a new lookup. Every operation in this package
// resolves each Root-relative path it works on down to an open file
// descriptor before doing anything else with it.
package rootwalk
