//go:build linux

// Copyright (C) 2024-2025 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func openDir(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestOpenatCreateAndFstat(t *testing.T) {
	dir := openDir(t, t.TempDir())

	f, err := Openat(dir, "f", unix.O_CREAT|unix.O_EXCL|unix.O_RDWR, 0o644)
	require.NoError(t, err)
	defer f.Close()

	st, err := Fstatat(dir, "f", 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(unix.S_IFREG), st.Mode&unix.S_IFMT)

	st2, err := Fstat(f)
	require.NoError(t, err)
	assert.Equal(t, st.Ino, st2.Ino)
}

func TestOpenatMissingIsNotExist(t *testing.T) {
	dir := openDir(t, t.TempDir())
	_, err := Openat(dir, "nope", unix.O_RDONLY, 0)
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestMkdiratAndOpenDirectory(t *testing.T) {
	dir := openDir(t, t.TempDir())
	require.NoError(t, Mkdirat(dir, "sub", 0o755))

	st, err := Fstatat(dir, "sub", unix.AT_SYMLINK_NOFOLLOW)
	require.NoError(t, err)
	assert.Equal(t, uint32(unix.S_IFDIR), st.Mode&unix.S_IFMT)
}

func TestSymlinkatAndReadlinkat(t *testing.T) {
	dir := openDir(t, t.TempDir())
	require.NoError(t, Symlinkat("target-value", dir, "link"))

	got, err := Readlinkat(dir, "link")
	require.NoError(t, err)
	assert.Equal(t, "target-value", got)

	st, err := Fstatat(dir, "link", unix.AT_SYMLINK_NOFOLLOW)
	require.NoError(t, err)
	assert.Equal(t, uint32(unix.S_IFLNK), st.Mode&unix.S_IFMT)
}

func TestReadlinkatGrowsBufferForLongTarget(t *testing.T) {
	dir := openDir(t, t.TempDir())
	long := make([]byte, 2048)
	for i := range long {
		long[i] = 'a'
	}
	// A symlink target can't actually be this long on most filesystems, but
	// Readlinkat's buffer-growth loop should still be exercised up to
	// whatever the kernel will accept; fall back to a shorter target if the
	// syscall itself rejects it.
	target := string(long)
	if err := Symlinkat(target, dir, "long"); err != nil {
		target = string(long[:255])
		require.NoError(t, Symlinkat(target, dir, "long"))
	}
	got, err := Readlinkat(dir, "long")
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestLinkatCreatesSecondName(t *testing.T) {
	dir := openDir(t, t.TempDir())
	f, err := Openat(dir, "orig", unix.O_CREAT|unix.O_EXCL|unix.O_RDWR, 0o644)
	require.NoError(t, err)
	f.Close()

	require.NoError(t, Linkat(dir, "orig", dir, "second", 0))

	st1, err := Fstatat(dir, "orig", unix.AT_SYMLINK_NOFOLLOW)
	require.NoError(t, err)
	st2, err := Fstatat(dir, "second", unix.AT_SYMLINK_NOFOLLOW)
	require.NoError(t, err)
	assert.Equal(t, st1.Ino, st2.Ino)
}

func TestUnlinkatRemovesFileAndRejectsDirWithoutFlag(t *testing.T) {
	dir := openDir(t, t.TempDir())
	f, err := Openat(dir, "f", unix.O_CREAT|unix.O_EXCL|unix.O_RDWR, 0o644)
	require.NoError(t, err)
	f.Close()
	require.NoError(t, Unlinkat(dir, "f", 0))

	_, err = Fstatat(dir, "f", 0)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, Mkdirat(dir, "sub", 0o755))
	err = Unlinkat(dir, "sub", 0)
	assert.Error(t, err)
	require.NoError(t, Unlinkat(dir, "sub", unix.AT_REMOVEDIR))
}

func TestRenameat2NoReplace(t *testing.T) {
	dir := openDir(t, t.TempDir())
	f, err := Openat(dir, "a", unix.O_CREAT|unix.O_EXCL|unix.O_RDWR, 0o644)
	require.NoError(t, err)
	f.Close()
	f2, err := Openat(dir, "b", unix.O_CREAT|unix.O_EXCL|unix.O_RDWR, 0o644)
	require.NoError(t, err)
	f2.Close()

	err = Renameat2(dir, "a", dir, "b", unix.RENAME_NOREPLACE)
	assert.Error(t, err)

	require.NoError(t, Renameat2(dir, "a", dir, "c", 0))
	_, err = Fstatat(dir, "a", 0)
	assert.True(t, os.IsNotExist(err))
}

func TestDupCloexecIndependentFd(t *testing.T) {
	dir := openDir(t, t.TempDir())
	dup, err := DupCloexec(dir)
	require.NoError(t, err)
	defer dup.Close()
	assert.NotEqual(t, dir.Fd(), dup.Fd())

	st1, err := Fstat(dir)
	require.NoError(t, err)
	st2, err := Fstat(dup)
	require.NoError(t, err)
	assert.Equal(t, st1.Ino, st2.Ino)
}

func TestMknodatFifo(t *testing.T) {
	dir := openDir(t, t.TempDir())
	if err := Mknodat(dir, "fifo", unix.S_IFIFO|0o644, 0); err != nil {
		t.Skipf("mknodat not permitted in this environment: %v", err)
	}
	st, err := Fstatat(dir, "fifo", unix.AT_SYMLINK_NOFOLLOW)
	require.NoError(t, err)
	assert.Equal(t, uint32(unix.S_IFIFO), st.Mode&unix.S_IFMT)
}
