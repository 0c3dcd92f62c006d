//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rootwalk

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDirectoryType(t *testing.T) {
	root, _ := openTestRoot(t)
	require.NoError(t, root.Create("d", DirectoryType{Mode: 0o755}))

	h, err := root.Resolve("d")
	require.NoError(t, err)
	defer h.Close()
	st, err := h.Stat()
	require.NoError(t, err)
	assert.True(t, st.IsDir())
}

func TestCreateSymlinkType(t *testing.T) {
	root, _ := openTestRoot(t)
	require.NoError(t, root.Create("f", FileType{Mode: 0o644}))
	require.NoError(t, root.Create("link", SymlinkType{Target: "f"}))

	target, err := root.Readlink("link")
	require.NoError(t, err)
	assert.Equal(t, "f", target)

	h, err := root.Resolve("link")
	require.NoError(t, err)
	defer h.Close()
	st, err := h.Stat()
	require.NoError(t, err)
	assert.True(t, st.Mode().IsRegular())
}

func TestCreateHardlinkType(t *testing.T) {
	root, _ := openTestRoot(t)
	require.NoError(t, root.Create("orig", FileType{Mode: 0o644}))
	require.NoError(t, root.Create("alias", HardlinkType{Source: "orig"}))

	h1, err := root.Resolve("orig")
	require.NoError(t, err)
	defer h1.Close()
	h2, err := root.Resolve("alias")
	require.NoError(t, err)
	defer h2.Close()

	st1, err := h1.Stat()
	require.NoError(t, err)
	st2, err := h2.Stat()
	require.NoError(t, err)
	assert.True(t, os.SameFile(st1, st2))
}

func TestCreateFifoType(t *testing.T) {
	root, _ := openTestRoot(t)
	err := root.Create("fifo", FifoType{Mode: 0o644})
	if err != nil {
		t.Skipf("mknodat not permitted in this environment: %v", err)
	}

	h, err := root.Resolve("fifo")
	require.NoError(t, err)
	defer h.Close()
	st, err := h.Stat()
	require.NoError(t, err)
	assert.Equal(t, os.ModeNamedPipe, st.Mode()&os.ModeNamedPipe)
}

func TestCreateRejectsDuplicate(t *testing.T) {
	root, _ := openTestRoot(t)
	require.NoError(t, root.Create("f", FileType{Mode: 0o644}))
	err := root.Create("f", FileType{Mode: 0o644})
	require.Error(t, err)
	assert.True(t, IsExist(err))
}

func TestCreateFileKeepsSetuidBit(t *testing.T) {
	root, _ := openTestRoot(t)
	require.NoError(t, root.Create("f", FileType{Mode: 0o4644}))

	h, err := root.Resolve("f")
	require.NoError(t, err)
	defer h.Close()
	st, err := h.Stat()
	require.NoError(t, err)
	assert.NotZero(t, st.Mode()&os.ModeSetuid)
}

func TestCreateDirectoryKeepsStickyBit(t *testing.T) {
	root, _ := openTestRoot(t)
	require.NoError(t, root.Create("d", DirectoryType{Mode: 0o1777}))

	h, err := root.Resolve("d")
	require.NoError(t, err)
	defer h.Close()
	st, err := h.Stat()
	require.NoError(t, err)
	require.True(t, st.IsDir())
	assert.NotZero(t, st.Mode()&os.ModeSticky)
}
