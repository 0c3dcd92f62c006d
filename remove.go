//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rootwalk

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"

	"github.com/cyphar/rootwalk/internal/sysx"
)

// RemoveFile removes a non-directory entry at path inside the root.
func (r *Root) RemoveFile(path string) error {
	return r.unlink(path, 0)
}

// RemoveDir removes an empty directory at path inside the root.
func (r *Root) RemoveDir(path string) error {
	return r.unlink(path, unix.AT_REMOVEDIR)
}

func (r *Root) unlink(path string, flags int) error {
	parentPath, name, ok := splitForRawOp(path)
	if !ok {
		return wrapErr("unlink", path, invalidArg("path", "no usable trailing name"))
	}
	parent, err := r.resolveParentDir(parentPath)
	if err != nil {
		return wrapErr("unlink", path, err)
	}
	defer parent.Close()

	if err := sysx.Unlinkat(parent.f, name, flags); err != nil {
		return wrapErr("unlink", path, err)
	}
	return nil
}

// RemoveAll removes path and, if it is a directory, everything inside it,
// recursing depth-first. It succeeds silently if path doesn't exist.
//
// Each recursive step re-resolves its own parent directory rather than
// holding one long-lived handle for the whole subtree, so that a
// concurrent rename of an ancestor during a (potentially very long) removal
// is still caught by the containment re-check on the next step, instead of
// silently continuing to delete through a handle that has been moved
// outside the root.
func (r *Root) RemoveAll(path string) error {
	handle, err := r.ResolveNoFollow(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return wrapErr("remove_all", path, err)
	}

	st, err := handle.Stat()
	handle.Close()
	if err != nil {
		return wrapErr("remove_all", path, err)
	}

	if st.IsDir() {
		names, err := r.readDirNames(path)
		if err != nil {
			return wrapErr("remove_all", path, err)
		}
		for _, name := range names {
			if err := r.RemoveAll(path + "/" + name); err != nil {
				return err
			}
		}
		return r.RemoveDir(path)
	}
	return r.RemoveFile(path)
}

func (r *Root) readDirNames(path string) ([]string, error) {
	handle, err := r.Resolve(path)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	dirFile, err := handle.Reopen(OpenReadOnly)
	if err != nil {
		return nil, err
	}
	defer dirFile.Close()

	return dirFile.Readdirnames(-1)
}
