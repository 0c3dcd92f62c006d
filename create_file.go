//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rootwalk

import (
	"os"

	"github.com/cyphar/rootwalk/internal/sysx"
)

// CreateFile opens (optionally creating) a regular file at path inside the
// root and returns a ready-to-use *os.File, combining resolution and the
// final open into one call. flags controls access mode and O_CREAT et al.
// mode is only consulted if OpenCreate is set, and is taken as a raw mode_t
// (permission, setuid/setgid and sticky bits), the same as Create.
//
// This differs from Root.Create(path, FileType{Mode: mode}) followed by
// Root.Resolve(path).Reopen(flags) in that it does the whole thing with a
// single trailing-component open, rather than a create-then-reopen
// round-trip: between those two steps another process could swap the newly
// created file for something else, which a single openat cannot be raced
// on.
func (r *Root) CreateFile(path string, flags OpenFlags, mode os.FileMode) (*os.File, error) {
	parentPath, name, ok := splitForRawOp(path)
	if !ok {
		return nil, wrapErr("create_file", path, invalidArg("path", "no usable trailing name"))
	}
	parent, err := r.resolveParentDir(parentPath)
	if err != nil {
		return nil, wrapErr("create_file", path, err)
	}
	defer parent.Close()

	realFlags := translateOpenFlags(flags)
	f, err := sysx.Openat(parent.f, name, realFlags, rawMode(mode))
	if err != nil {
		return nil, wrapErr("create_file", path, err)
	}
	return f, nil
}
