//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rootwalk

import "github.com/cyphar/rootwalk/internal/pathutil"

// splitForRawOp splits path into a resolvable parent path and a trailing
// name, for every operation that ultimately issues a single directory-fd-
// relative syscall (create, mkdir, mknod, symlink, link, unlink, rename).
// ok is false if path has no usable trailing name (empty, ".", "..", or a
// trailing slash), which callers should turn into an InvalidArgument error.
func splitForRawOp(path string) (parentPath, name string, ok bool) {
	return pathutil.SplitParent(path)
}
