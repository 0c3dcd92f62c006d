// SPDX-License-Identifier: BSD-3-Clause

//go:build linux && !go1.21

// Copyright (C) 2021, 2022 The Go Authors. All rights reserved.
// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gocompat

import (
	"sync"
)

// SyncOnceValue is equivalent to Go 1.21's sync.OnceValue, included so that
// we can build on older Go versions. Copied from the Go 1.24 stdlib
// implementation.
func SyncOnceValue[T any](f func() T) func() T {
	var (
		once   sync.Once
		valid  bool
		p      any
		result T
	)
	g := func() {
		defer func() {
			p = recover()
			if !valid {
				panic(p)
			}
		}()
		result = f()
		f = nil
		valid = true
	}
	return func() T {
		once.Do(g)
		if !valid {
			panic(p)
		}
		return result
	}
}
