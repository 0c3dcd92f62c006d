// Copyright (C) 2024 SUSE LLC. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	for _, tt := range []struct {
		path           string
		wantComponents []string
		wantTrailing   bool
	}{
		{"", nil, false},
		{"/", nil, true},
		{"a", []string{"a"}, false},
		{"a/b/c", []string{"a", "b", "c"}, false},
		{"a/b/c/", []string{"a", "b", "c"}, true},
		{"a//b/./c", []string{"a", "", "b", ".", "c"}, false},
		{"/a/b", []string{"a", "b"}, false},
		{"..", []string{".."}, false},
	} {
		comps, trailing := Split(tt.path)
		assert.Equalf(t, tt.wantComponents, comps, "Split(%q) components", tt.path)
		assert.Equalf(t, tt.wantTrailing, trailing, "Split(%q) trailingSlash", tt.path)
	}
}

func TestIsAbs(t *testing.T) {
	assert.True(t, IsAbs("/a/b"))
	assert.False(t, IsAbs("a/b"))
	assert.False(t, IsAbs(""))
}

func TestSplitParent(t *testing.T) {
	for _, tt := range []struct {
		path       string
		wantParent string
		wantName   string
		wantOK     bool
	}{
		{"a", "", "a", true},
		{"a/b/c", "a/b", "c", true},
		{"", "", "", false},
		{"/", "", "", false},
		{"a/", "", "", false},
		{"a/.", "", "", false},
		{"a/..", "", "", false},
		{".", "", "", false},
	} {
		parent, name, ok := SplitParent(tt.path)
		require.Equalf(t, tt.wantOK, ok, "SplitParent(%q) ok", tt.path)
		if !ok {
			continue
		}
		assert.Equalf(t, tt.wantParent, parent, "SplitParent(%q) parent", tt.path)
		assert.Equalf(t, tt.wantName, name, "SplitParent(%q) name", tt.path)
	}
}

func TestJoin(t *testing.T) {
	got := Join("../c", []string{"d", "e"})
	assert.Equal(t, []string{"..", "c", "d", "e"}, got)

	got = Join("/x/y", []string{"z"})
	assert.Equal(t, []string{"x", "y", "z"}, got)

	got = Join("", []string{"tail"})
	assert.Equal(t, []string{"tail"}, got)
}
