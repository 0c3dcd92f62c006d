// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rootwalk

import "github.com/cyphar/rootwalk/internal/resolver"

// ResolverFlags configures how a Root's resolver walks paths. See the
// NoSymlinks constant.
type ResolverFlags = resolver.Flags

// NoSymlinks causes resolution to fail with ELOOP on any symlink component,
// whether intermediate or trailing.
const NoSymlinks = resolver.NoSymlinks

// ResolverBackend selects which implementation a Root uses to walk paths.
type ResolverBackend = resolver.Backend

const (
	// BackendAuto probes the kernel once and picks the fastest backend it
	// supports. This is the default for a zero-value Root.
	BackendAuto = resolver.BackendAuto
	// BackendEmulated always uses the userspace walker.
	BackendEmulated = resolver.BackendEmulated
	// BackendKernelNative always uses openat2(RESOLVE_IN_ROOT), failing
	// with ErrNotSupported if the kernel lacks it.
	BackendKernelNative = resolver.BackendKernelNative
	// BackendCgoPathrs always uses the libpathrs C library via its Go
	// bindings, failing with ErrNotSupported unless the module was built
	// with -tags cgo_pathrs. BackendAuto prefers it when it is compiled
	// in.
	BackendCgoPathrs = resolver.BackendCgoPathrs
)

// OpenFlags mirrors the subset of open(2)'s flags that make sense for a
// Root-relative open: access mode, O_CREAT/O_EXCL/O_TRUNC/O_APPEND, and
// O_NOFOLLOW for the trailing component. Path-resolution flags
// (O_NOFOLLOW on intermediate components, O_PATH-style containment) are
// the resolver's job, not the caller's, and so have no bit here.
type OpenFlags uint32

const (
	OpenReadOnly  OpenFlags = 0
	OpenWriteOnly OpenFlags = 1 << 0
	OpenReadWrite OpenFlags = 1 << 1
	OpenCreate    OpenFlags = 1 << 2
	OpenExclusive OpenFlags = 1 << 3
	OpenTruncate  OpenFlags = 1 << 4
	OpenAppend    OpenFlags = 1 << 5
	// OpenNoFollowTrailing causes the open to fail with ELOOP if the final
	// path component is a symlink, rather than following it.
	OpenNoFollowTrailing OpenFlags = 1 << 6
)

func (f OpenFlags) has(want OpenFlags) bool { return f&want == want }

// RenameFlags mirrors renameat2(2)'s exchange/no-replace/whiteout flags,
// all of which Rename accepts as-is (both endpoints are still resolved
// inside the Root first). The bit values are the kernel's own RENAME_*
// values, so they pass straight through to the syscall.
type RenameFlags uint32

const (
	RenameDefault   RenameFlags = 0
	RenameNoReplace RenameFlags = 1 << 0 // RENAME_NOREPLACE
	RenameExchange  RenameFlags = 1 << 1 // RENAME_EXCHANGE
	RenameWhiteout  RenameFlags = 1 << 2 // RENAME_WHITEOUT
)
