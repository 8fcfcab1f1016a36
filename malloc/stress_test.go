// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRandomAllocFreeResizeStaysConsistent runs a bounded, deterministically
// seeded sequence of allocate/free/resize operations and checks heap
// integrity after every one of them.
func TestRandomAllocFreeResizeStaysConsistent(t *testing.T) {
	a, err := New(Options{ChunkSize: 256})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	live := make([][]byte, 0, 64)

	for i := 0; i < 2000; i++ {
		switch {
		case len(live) == 0 || rng.Intn(3) != 0:
			size := rng.Intn(300) + 1
			p, err := a.Allocate(size)
			require.NoError(t, err)
			require.Len(t, p, size)
			for j := range p {
				p[j] = byte(i)
			}
			live = append(live, p)

		case rng.Intn(2) == 0:
			idx := rng.Intn(len(live))
			a.Free(live[idx])
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]

		default:
			idx := rng.Intn(len(live))
			newSize := rng.Intn(300) + 1
			q, err := a.Resize(live[idx], newSize)
			require.NoError(t, err)
			require.Len(t, q, newSize)
			live[idx] = q
		}

		require.NoErrorf(t, a.CheckIntegrity(), "after operation %d", i)
	}
}
