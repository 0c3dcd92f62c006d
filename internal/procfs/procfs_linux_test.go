//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package procfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestOpenVerifiesProcMount(t *testing.T) {
	h, err := Open()
	if err != nil {
		t.Skipf("/proc not available in this environment: %v", err)
	}
	defer h.Close()
}

func TestSelfFdPathMatchesCanonicalPath(t *testing.T) {
	h, err := Open()
	if err != nil {
		t.Skipf("/proc not available in this environment: %v", err)
	}
	defer h.Close()

	dir := t.TempDir()
	f, err := os.Open(dir)
	require.NoError(t, err)
	defer f.Close()

	got, err := h.SelfFdPath(f)
	require.NoError(t, err)

	// macOS-style temp dirs can have a symlinked prefix; resolve both sides
	// before comparing so this isn't sensitive to that.
	wantReal, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	gotReal, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, wantReal, gotReal)
}

func TestOpenSelfFdReopensWithNewFlags(t *testing.T) {
	h, err := Open()
	if err != nil {
		t.Skipf("/proc not available in this environment: %v", err)
	}
	defer h.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	pathFd, err := unix.Open(path, unix.O_PATH|unix.O_CLOEXEC, 0)
	require.NoError(t, err)
	pf := os.NewFile(uintptr(pathFd), path)
	defer pf.Close()

	reopened, err := h.OpenSelfFd(pf, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	require.NoError(t, err)
	defer reopened.Close()

	data := make([]byte, 5)
	n, err := reopened.Read(data)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data[:n]))
}
