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

func TestRenameNoReplaceFailsIfDestExists(t *testing.T) {
	root, _ := openTestRoot(t)
	require.NoError(t, root.Create("a", FileType{Mode: 0o644}))
	require.NoError(t, root.Create("b", FileType{Mode: 0o644}))

	err := root.Rename("a", "b", RenameNoReplace)
	require.Error(t, err)
	assert.True(t, IsExist(err))
}

func TestRenameExchangeSwapsBothEndpoints(t *testing.T) {
	root, _ := openTestRoot(t)
	require.NoError(t, root.Create("a", FileType{Mode: 0o644}))
	require.NoError(t, root.Create("b", FileType{Mode: 0o644}))

	ha, err := root.Resolve("a")
	require.NoError(t, err)
	sta, err := ha.Stat()
	require.NoError(t, err)
	ha.Close()

	require.NoError(t, root.Rename("a", "b", RenameExchange))

	hb, err := root.Resolve("b")
	require.NoError(t, err)
	defer hb.Close()
	stb, err := hb.Stat()
	require.NoError(t, err)
	assert.True(t, os.SameFile(sta, stb))

	// Both names must still exist after the swap.
	ha2, err := root.Resolve("a")
	require.NoError(t, err)
	ha2.Close()
}
