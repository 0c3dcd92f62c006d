// Copyright (C) 2024 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pathutil implements the raw path-splitting helpers the resolver
// needs: breaking a path into (parent-components, trailing-name), iterating
// raw components while keeping empty components distinct from separators,
// and classifying absolute vs relative paths. None of this does any
// filesystem I/O -- it is pure string manipulation, kept lexical on
// purpose so that the resolver (not this package) is the only place that
// ever consults the filesystem.
package pathutil

import "strings"

// Split breaks path into raw ("/"-separated) components, preserving
// information about whether path had a trailing slash. Unlike
// filepath.Clean-based splitting, this never collapses or reorders
// components: "a//b/./c/" yields ["a", "", "b", ".", "c"] with
// trailingSlash=true. The resolver is responsible for interpreting "",
// ".", and ".." components; this function only tokenizes.
func Split(path string) (components []string, trailingSlash bool) {
	trailingSlash = strings.HasSuffix(path, "/")
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return nil, trailingSlash
	}
	return strings.Split(path, "/"), trailingSlash
}

// IsAbs reports whether path is an absolute Unix path. Per spec, an
// absolute path is not rejected -- it is simply anchored at the root,
// exactly as a relative path would be.
func IsAbs(path string) bool {
	return strings.HasPrefix(path, "/")
}

// SplitParent splits path into its parent directory's raw path and its
// final (slash-free) component name, for use by operations that must
// resolve a parent handle and then issue a single directory-relative
// syscall against a trailing name (create, remove_*, rename). It returns
// ok=false if path has no usable trailing name (i.e. it is empty, or is
// "." / ".." / "/", or ends in a trailing slash) -- callers should turn
// that into an InvalidArgument error.
func SplitParent(path string) (parent, name string, ok bool) {
	comps, trailingSlash := Split(path)
	if trailingSlash || len(comps) == 0 {
		return "", "", false
	}
	name = comps[len(comps)-1]
	switch name {
	case "", ".", "..":
		return "", "", false
	}
	parent = strings.Join(comps[:len(comps)-1], "/")
	return parent, name, true
}

// Join lexically joins target onto the tail of a walk, used when a symlink
// target is pushed onto the resolver's remaining-component queue. It is
// intentionally dumb: target is tokenized with Split and tail is appended
// to its components -- no Clean, no filesystem access -- because the
// resolver consumes the result component by component rather than as a
// single string. A trailing slash on target is not preserved.
func Join(target string, tail []string) []string {
	targetComps, _ := Split(target)
	return append(targetComps, tail...)
}
