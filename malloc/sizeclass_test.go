// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFreeIndexMonotone(t *testing.T) {
	prev := -1
	for size := 0; size <= 1<<20; size += 17 {
		idx := freeIndex(size)
		require.GreaterOrEqual(t, idx, prev)
		prev = idx
	}
}

func TestFreeIndexBoundaries(t *testing.T) {
	require.Equal(t, 1, freeIndex(32))
	require.Equal(t, 0, freeIndex(1))
	require.Equal(t, 2, freeIndex(33))
	require.Equal(t, 8, freeIndex(4096))
	require.Equal(t, 9, freeIndex(4097))
	require.Equal(t, numBuckets-1, freeIndex(1<<30))
}

func TestBucket0IsDead(t *testing.T) {
	// No real block is ever small enough to land in bucket 0: the
	// minimum block size (32) already exceeds its threshold (4).
	require.Greater(t, minBlockSize, bucketThresholds[0])
}
