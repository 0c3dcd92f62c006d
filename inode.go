//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rootwalk

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/cyphar/rootwalk/internal/sysx"
)

// rawMode treats mode as a raw POSIX mode_t, keeping the permission,
// setuid/setgid, and sticky bits (0o7777) and discarding os.FileMode's
// high type/flag bits. Callers wanting setuid/setgid/sticky pass them as
// the literal octal bits (0o4000/0o2000/0o1000), the same convention
// MkdirAll uses.
func rawMode(mode os.FileMode) uint32 {
	return uint32(mode) & 0o7777
}

// Create makes a new inode of the given type at path inside the root,
// failing with an error for which IsExist reports true (it wraps
// os.ErrExist) if something is already there. The parent directory portion of path is resolved (following
// symlinks); the trailing component itself is never followed, since it is
// the thing being created.
func (r *Root) Create(path string, inode InodeType) error {
	parentPath, name, ok := splitForRawOp(path)
	if !ok {
		return wrapErr("create", path, invalidArg("path", "no usable trailing name"))
	}
	parent, err := r.resolveParentDir(parentPath)
	if err != nil {
		return wrapErr("create", path, err)
	}
	defer parent.Close()

	switch t := inode.(type) {
	case FileType:
		f, err := sysx.Openat(parent.f, name, unix.O_CREAT|unix.O_EXCL|unix.O_NOFOLLOW, rawMode(t.Mode))
		if err != nil {
			return wrapErr("create", path, err)
		}
		return f.Close()

	case DirectoryType:
		// Directories additionally drop setuid/setgid: mkdirat silently
		// ignores them, so accepting them would create something other
		// than what the caller asked for.
		if err := sysx.Mkdirat(parent.f, name, rawMode(t.Mode)&0o1777); err != nil {
			return wrapErr("create", path, err)
		}
		return nil

	case SymlinkType:
		if err := sysx.Symlinkat(t.Target, parent.f, name); err != nil {
			return wrapErr("create", path, err)
		}
		return nil

	case HardlinkType:
		srcParentPath, srcName, ok := splitForRawOp(t.Source)
		if !ok {
			return wrapErr("create", path, invalidArg("source", "no usable trailing name"))
		}
		srcParent, err := r.resolveParentDir(srcParentPath)
		if err != nil {
			return wrapErr("create", path, err)
		}
		defer srcParent.Close()
		if err := sysx.Linkat(srcParent.f, srcName, parent.f, name, 0); err != nil {
			return wrapErr("create", path, err)
		}
		return nil

	case FifoType:
		if err := sysx.Mknodat(parent.f, name, unix.S_IFIFO|rawMode(t.Mode), 0); err != nil {
			return wrapErr("create", path, err)
		}
		return nil

	case CharDeviceType:
		dev := unix.Mkdev(t.Major, t.Minor)
		if err := sysx.Mknodat(parent.f, name, unix.S_IFCHR|rawMode(t.Mode), dev); err != nil {
			return wrapErr("create", path, err)
		}
		return nil

	case BlockDeviceType:
		dev := unix.Mkdev(t.Major, t.Minor)
		if err := sysx.Mknodat(parent.f, name, unix.S_IFBLK|rawMode(t.Mode), dev); err != nil {
			return wrapErr("create", path, err)
		}
		return nil

	default:
		return wrapErr("create", path, invalidArg("inode", "unknown inode type"))
	}
}
