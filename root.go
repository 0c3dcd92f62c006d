//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rootwalk

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/cyphar/rootwalk/internal/resolver"
	"github.com/cyphar/rootwalk/internal/sysx"
)

// Root is a handle to the root of a directory tree. Every operation issued
// through it resolves its path arguments entirely inside that tree,
// regardless of concurrent modifications to the tree by other processes.
//
// libpathrs, which this package mirrors, splits this into a Root (owns
// the fd, closes it on drop) and a borrowed RootRef. Go's pointer
// semantics make that split unnecessary: a *Root passed to a helper
// doesn't implicitly transfer closing responsibility the way a Rust move
// would, so there is only one type here, and AsRef returns a view of it.
type Root struct {
	f        *os.File
	resolver resolver.Resolver
}

// Open opens path as a Root, using BackendAuto and no resolver flags. Use
// OpenWithFlags for more control.
func Open(path string) (*Root, error) {
	return OpenWithFlags(path, BackendAuto, 0)
}

// OpenWithFlags opens path as a Root with an explicit backend and resolver
// flags.
func OpenWithFlags(path string, backend ResolverBackend, flags ResolverFlags) (*Root, error) {
	f, err := os.OpenFile(path, unix.O_PATH|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, wrapErr("open_root", path, err)
	}
	return &Root{f: f, resolver: resolver.Resolver{Backend: backend, Flags: flags}}, nil
}

// FromFile adopts an already-open directory file descriptor as a Root. The
// Root takes ownership of f; callers should not use or close f afterwards.
func FromFile(f *os.File, backend ResolverBackend, flags ResolverFlags) (*Root, error) {
	st, err := sysx.Fstat(f)
	if err != nil {
		return nil, wrapErr("from_file", f.Name(), err)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFDIR {
		return nil, wrapErr("from_file", f.Name(), unix.ENOTDIR)
	}
	return &Root{f: f, resolver: resolver.Resolver{Backend: backend, Flags: flags}}, nil
}

// Close releases the Root's underlying file descriptor. Handles previously
// obtained through the Root remain valid; only future operations through
// this Root will fail.
func (r *Root) Close() error { return r.f.Close() }

// AsRef returns a borrowed view of r: it shares r's file descriptor but
// carries its own copy of the resolver configuration, so SetResolverFlags
// on the view never affects r (and vice versa). In libpathrs this is a
// distinct RootRef type, needed because Rust's ownership model requires an
// explicit non-owning reference; here it is just another *Root over the
// same descriptor. The view must not be Closed -- the descriptor belongs
// to r. Use TryClone for an independently-closeable Root.
func (r *Root) AsRef() *Root {
	return &Root{f: r.f, resolver: r.resolver}
}

// ResolverFlags returns the flags this Root's resolver currently uses.
func (r *Root) ResolverFlags() ResolverFlags { return r.resolver.Flags }

// SetResolverFlags replaces this Root's resolver flags in place.
func (r *Root) SetResolverFlags(flags ResolverFlags) { r.resolver.Flags = flags }

// WithResolverFlags returns r after setting its resolver flags, for
// call-site chaining (e.g. rootwalk.Open(p) paired with
// root.WithResolverFlags(rootwalk.NoSymlinks) on the next line).
func (r *Root) WithResolverFlags(flags ResolverFlags) *Root {
	r.resolver.Flags = flags
	return r
}

// TryClone returns an independent Root over the same directory tree, with
// its own file descriptor, so that the original and the clone can be
// closed independently.
func (r *Root) TryClone() (*Root, error) {
	dup, err := sysx.DupCloexec(r.f)
	if err != nil {
		return nil, wrapErr("try_clone", r.f.Name(), err)
	}
	return &Root{f: dup, resolver: r.resolver}, nil
}

// Resolve resolves path inside the root, following the trailing component
// if it is a symlink, and returns a Handle to it.
func (r *Root) Resolve(path string) (*Handle, error) {
	f, err := r.resolver.Resolve(r.f, path, false)
	if err != nil {
		return nil, wrapErr("resolve", path, err)
	}
	return &Handle{f: f}, nil
}

// ResolveNoFollow is like Resolve, but if the final component is a symlink
// it returns a Handle to the symlink itself rather than following it.
func (r *Root) ResolveNoFollow(path string) (*Handle, error) {
	f, err := r.resolver.Resolve(r.f, path, true)
	if err != nil {
		return nil, wrapErr("resolve_nofollow", path, err)
	}
	return &Handle{f: f}, nil
}

// resolvePartial resolves as much of path as already exists, returning the
// deepest Handle reached and the (relative) suffix that doesn't exist yet.
// An empty suffix means path was fully resolved. This is the primitive
// MkdirAll builds on; it is deliberately not
// exported, since a partial result is only safe to act on if the caller
// follows the same resolve-then-act discipline the operations here do.
func (r *Root) resolvePartial(path string) (*Handle, string, error) {
	f, remaining, err := r.resolver.ResolvePartial(r.f, path)
	if err != nil {
		return nil, "", wrapErr("resolve_partial", path, err)
	}
	return &Handle{f: f}, remaining, nil
}

// Readlink returns the target of the symlink at path inside the root. path
// itself is resolved with ResolveNoFollow semantics (any symlinks in the
// parent portion of path are followed; only the final component must be a
// symlink).
func (r *Root) Readlink(path string) (string, error) {
	parentPath, name, ok := splitForRawOp(path)
	if !ok {
		return "", wrapErr("readlink", path, invalidArg("path", "no usable trailing name"))
	}
	parent, err := r.resolveParentDir(parentPath)
	if err != nil {
		return "", wrapErr("readlink", path, err)
	}
	defer parent.Close()

	target, err := sysx.Readlinkat(parent.f, name)
	if err != nil {
		return "", wrapErr("readlink", path, err)
	}
	return target, nil
}

// resolveParentDir resolves parentPath (which may be "" to mean the root
// itself) to a directory Handle, for use by the raw *at(2)-shaped
// operations (create, mkdir, mknod, symlink, rename, remove) that need a
// parent directory fd plus a single trailing name.
func (r *Root) resolveParentDir(parentPath string) (*Handle, error) {
	if parentPath == "" {
		dup, err := sysx.DupCloexec(r.f)
		if err != nil {
			return nil, err
		}
		return &Handle{f: dup}, nil
	}
	return r.Resolve(parentPath)
}
