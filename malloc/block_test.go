// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackHeaderRoundTrip(t *testing.T) {
	cases := []struct {
		size             int
		alloc, prevAlloc bool
	}{
		{32, true, true},
		{32, false, false},
		{4096, true, false},
		{65536, false, true},
	}
	for _, c := range cases {
		h := packHeader(c.size, c.alloc, c.prevAlloc)
		require.Equal(t, c.size, sizeOf(h))
		require.Equal(t, c.alloc, isAlloc(h))
		require.Equal(t, c.prevAlloc, isPrevAlloc(h))
	}
}

func TestAdjustedSizeFloorsAtMinBlockSize(t *testing.T) {
	require.Equal(t, minBlockSize, adjustedSize(1))
	require.Equal(t, minBlockSize, adjustedSize(24))
	require.Equal(t, 48, adjustedSize(25))
	require.Equal(t, 48, adjustedSize(40))
	require.Equal(t, 64, adjustedSize(48))
}

func TestPayloadHeaderRoundTrip(t *testing.T) {
	a, err := New(Options{ChunkSize: 256})
	require.NoError(t, err)

	p, err := a.Allocate(40)
	require.NoError(t, err)
	require.NotNil(t, p)

	off, err := a.ownedOffset(p)
	require.NoError(t, err)
	require.Equal(t, p, a.payload(off, a.sizeAt(off)))
}
