//go:build linux && !cgo_pathrs

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

// cgoPathrsBackend reports whether the libpathrs backend is compiled in;
// in the default (no cgo_pathrs build tag) build it never is, and
// BackendCgoPathrs fails with NotSupported.
func cgoPathrsBackend() (backend, bool) { return nil, false }
