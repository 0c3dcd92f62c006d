// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rootwalk

import "os"

// InodeType describes what kind of inode Root.Create should make: a sum
// type expressed as an interface plus one concrete type per variant,
// rather than a single struct with "mode" and "payload" fields that are
// only valid in certain combinations.
type InodeType interface {
	inodeType()
}

// FileType creates a regular file. Create with FileType is equivalent to
// CreateFile with OpenCreate|OpenExclusive, minus the returned descriptor.
type FileType struct {
	Mode os.FileMode
}

// DirectoryType creates a single directory. See Root.MkdirAll for creating
// an entire chain of missing parent directories at once.
type DirectoryType struct {
	Mode os.FileMode
}

// SymlinkType creates a symlink with the given target. The target string
// is written verbatim -- it is never resolved, validated, or rejected for
// pointing outside the root, since a symlink's target is just data until
// something resolves through it.
type SymlinkType struct {
	Target string
}

// HardlinkType creates a new name for an inode that already exists
// elsewhere in the same root. Source is resolved inside the root too (not
// just the new name being created); a hardlink to something outside the
// tree is never created.
type HardlinkType struct {
	Source string
}

// FifoType creates a named pipe.
type FifoType struct {
	Mode os.FileMode
}

// CharDeviceType creates a character device inode. Creating device nodes
// normally requires CAP_MKNOD; this is provided for completeness (e.g.
// container image unpacking) rather than as something most callers need.
type CharDeviceType struct {
	Mode  os.FileMode
	Major uint32
	Minor uint32
}

// BlockDeviceType creates a block device inode.
type BlockDeviceType struct {
	Mode  os.FileMode
	Major uint32
	Minor uint32
}

func (FileType) inodeType()        {}
func (DirectoryType) inodeType()   {}
func (SymlinkType) inodeType()     {}
func (HardlinkType) inodeType()    {}
func (FifoType) inodeType()        {}
func (CharDeviceType) inodeType()  {}
func (BlockDeviceType) inodeType() {}
