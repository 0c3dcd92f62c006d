//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDir(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestStackPopForDotDotEmpty(t *testing.T) {
	var s Stack
	ok, deducted := s.PopForDotDot()
	assert.False(t, ok)
	assert.False(t, deducted)
}

func TestStackPushConsumePop(t *testing.T) {
	dir := openDir(t, t.TempDir())

	var s Stack
	require.NoError(t, s.Push(dir, "up", 2))
	assert.True(t, s.Active())

	// The symlink contributed no directory-advancing components yet
	// (consumed == 0), so the first ".." pops the frame outright with
	// nothing deducted; the walker retries the deduction against the
	// enclosing context (and performs the physical ".." itself).
	ok, deducted := s.PopForDotDot()
	assert.True(t, ok)
	assert.False(t, deducted)
	assert.False(t, s.Active())
}

func TestStackConsumeThenDotDotDeducts(t *testing.T) {
	dir := openDir(t, t.TempDir())

	var s Stack
	require.NoError(t, s.Push(dir, "link", 1))
	s.ConsumeComponent()

	// The frame has one directory-advance attributed to it, so the first
	// ".." deducts it. The frame itself stays live (consumed is back to 0)
	// until a further ".." pops it.
	ok, deducted := s.PopForDotDot()
	assert.True(t, ok)
	assert.True(t, deducted)
	assert.True(t, s.Active())

	ok, deducted = s.PopForDotDot()
	assert.True(t, ok)
	assert.False(t, deducted)
	assert.False(t, s.Active())
}

func TestStackExpansionBudget(t *testing.T) {
	dir := openDir(t, t.TempDir())

	var s Stack
	var err error
	for i := 0; i < maxSymlinkLimit; i++ {
		err = s.Push(dir, "link", 1)
		require.NoError(t, err)
	}
	err = s.Push(dir, "link", 1)
	assert.Error(t, err)
}

func TestStackByteBudget(t *testing.T) {
	dir := openDir(t, t.TempDir())

	var s Stack
	err := s.Push(dir, "huge", maxSymlinkBytes+1)
	assert.Error(t, err)
}

func TestStackNested(t *testing.T) {
	tmp := t.TempDir()
	sub := filepath.Join(tmp, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	outer := openDir(t, tmp)
	inner := openDir(t, sub)

	var s Stack
	require.NoError(t, s.Push(outer, "a", 1))
	s.ConsumeComponent()
	require.NoError(t, s.Push(inner, "b", 1))
	s.ConsumeComponent()

	// Unwind the inner frame first: one deduction for its directory
	// advance, then an empty pop to retire the frame.
	ok, deducted := s.PopForDotDot()
	assert.True(t, ok)
	assert.True(t, deducted)
	assert.True(t, s.Active())

	ok, deducted = s.PopForDotDot()
	assert.True(t, ok)
	assert.False(t, deducted)
	assert.True(t, s.Active())

	// Then the outer frame the same way.
	ok, deducted = s.PopForDotDot()
	assert.True(t, ok)
	assert.True(t, deducted)
	assert.True(t, s.Active())

	ok, deducted = s.PopForDotDot()
	assert.True(t, ok)
	assert.False(t, deducted)
	assert.False(t, s.Active())
}
