//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rootwalk

import (
	"github.com/cyphar/rootwalk/internal/sysx"
)

// Rename moves src to dst, both resolved inside the root, using the given
// renameat2(2) flags (RenameExchange, RenameNoReplace, RenameWhiteout).
// Both endpoints' parent directories are resolved independently, so a
// rename across two different subdirectories of the same root works
// exactly as renameat2 itself would.
func (r *Root) Rename(src, dst string, flags RenameFlags) error {
	srcParentPath, srcName, ok := splitForRawOp(src)
	if !ok {
		return wrapErr("rename", src, invalidArg("src", "no usable trailing name"))
	}
	dstParentPath, dstName, ok := splitForRawOp(dst)
	if !ok {
		return wrapErr("rename", dst, invalidArg("dst", "no usable trailing name"))
	}

	srcParent, err := r.resolveParentDir(srcParentPath)
	if err != nil {
		return wrapErr("rename", src, err)
	}
	defer srcParent.Close()

	dstParent, err := r.resolveParentDir(dstParentPath)
	if err != nil {
		return wrapErr("rename", dst, err)
	}
	defer dstParent.Close()

	if err := sysx.Renameat2(srcParent.f, srcName, dstParent.f, dstName, uint(flags)); err != nil {
		return wrapErr("rename", src+" -> "+dst, err)
	}
	return nil
}
