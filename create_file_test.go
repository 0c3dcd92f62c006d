//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rootwalk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFileWritesAndReads(t *testing.T) {
	root, _ := openTestRoot(t)

	f, err := root.CreateFile("f", OpenCreate|OpenExclusive|OpenReadWrite, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("hello")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	h, err := root.Resolve("f")
	require.NoError(t, err)
	defer h.Close()
	rf, err := h.Reopen(OpenReadOnly)
	require.NoError(t, err)
	defer rf.Close()

	buf := make([]byte, 5)
	n, err := rf.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestCreateFileExclusiveRejectsExisting(t *testing.T) {
	root, _ := openTestRoot(t)
	f, err := root.CreateFile("f", OpenCreate|OpenExclusive|OpenWriteOnly, 0o644)
	require.NoError(t, err)
	f.Close()

	_, err = root.CreateFile("f", OpenCreate|OpenExclusive|OpenWriteOnly, 0o644)
	require.Error(t, err)
	assert.True(t, IsExist(err))
}
