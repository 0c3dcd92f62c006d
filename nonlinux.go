//go:build !linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// rootwalk's safety guarantees rest on Linux-specific syscalls
// (openat2/RESOLVE_IN_ROOT and the directory-fd-relative *at family with
// /proc/self/fd reopening); there is no correct way to emulate them on
// other kernels, so every exported operation here just fails with
// ErrNotSupported rather than silently offering weaker guarantees.
package rootwalk

import (
	"fmt"
	"os"
)

type Root struct{}
type Handle struct{}

func Open(path string) (*Root, error) { return nil, errNotSupportedPlatform }

func OpenWithFlags(path string, backend ResolverBackend, flags ResolverFlags) (*Root, error) {
	return nil, errNotSupportedPlatform
}

func FromFile(f *os.File, backend ResolverBackend, flags ResolverFlags) (*Root, error) {
	return nil, errNotSupportedPlatform
}

var errNotSupportedPlatform = fmt.Errorf("%w: only supported on linux", ErrNotSupported)

func (r *Root) Close() error                                 { return errNotSupportedPlatform }
func (r *Root) AsRef() *Root                                 { return r }
func (r *Root) ResolverFlags() ResolverFlags                 { return 0 }
func (r *Root) SetResolverFlags(flags ResolverFlags)         {}
func (r *Root) WithResolverFlags(flags ResolverFlags) *Root  { return r }
func (r *Root) TryClone() (*Root, error)                     { return nil, errNotSupportedPlatform }
func (r *Root) Resolve(path string) (*Handle, error)         { return nil, errNotSupportedPlatform }
func (r *Root) ResolveNoFollow(path string) (*Handle, error) { return nil, errNotSupportedPlatform }
func (r *Root) Readlink(path string) (string, error)         { return "", errNotSupportedPlatform }
func (r *Root) Create(path string, inode InodeType) error    { return errNotSupportedPlatform }
func (r *Root) MkdirAll(path string, mode os.FileMode) error { return errNotSupportedPlatform }
func (r *Root) MkdirAllHandle(path string, mode os.FileMode) (*Handle, error) {
	return nil, errNotSupportedPlatform
}
func (r *Root) RemoveFile(path string) error                    { return errNotSupportedPlatform }
func (r *Root) RemoveDir(path string) error                     { return errNotSupportedPlatform }
func (r *Root) RemoveAll(path string) error                     { return errNotSupportedPlatform }
func (r *Root) Rename(src, dst string, flags RenameFlags) error { return errNotSupportedPlatform }
func (r *Root) CreateFile(path string, flags OpenFlags, mode os.FileMode) (*os.File, error) {
	return nil, errNotSupportedPlatform
}

func (h *Handle) Close() error                             { return errNotSupportedPlatform }
func (h *Handle) Fd() uintptr                              { return ^uintptr(0) }
func (h *Handle) Stat() (os.FileInfo, error)               { return nil, errNotSupportedPlatform }
func (h *Handle) Reopen(flags OpenFlags) (*os.File, error) { return nil, errNotSupportedPlatform }
