// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestInitYieldsOneChunkSizedFreeBlock covers scenario 1: after init, the
// heap contains exactly one free block of total size ChunkSize, in the
// bucket ChunkSize maps to.
func TestInitYieldsOneChunkSizedFreeBlock(t *testing.T) {
	a, err := New(Options{ChunkSize: 4096})
	require.NoError(t, err)
	require.NoError(t, a.CheckIntegrity())

	st := a.Stats()
	require.Equal(t, 4096, st.TotalBytes)
	require.Equal(t, 0, st.AllocBytes)
	require.Equal(t, 4096, st.FreeBytes)
	require.Equal(t, 1, st.FreeBlocks)

	idx := freeIndex(4096)
	require.Equal(t, 8, idx)
	require.Equal(t, a.firstBlock, a.lists[idx].head)
}

// TestAllocateSplitsLeavingRemainder covers scenario 2: allocating 40
// bytes adjusts to 48, and the remaining 4048-byte block stays in bucket 8.
func TestAllocateSplitsLeavingRemainder(t *testing.T) {
	a, err := New(Options{ChunkSize: 4096})
	require.NoError(t, err)

	p, err := a.Allocate(40)
	require.NoError(t, err)
	off, err := a.ownedOffset(p)
	require.NoError(t, err)
	require.Equal(t, 48, a.sizeAt(off))
	require.NoError(t, a.CheckIntegrity())

	st := a.Stats()
	require.Equal(t, 4048, st.FreeBytes)
	require.Equal(t, 8, freeIndex(4048))
}

// TestExactFitConsumesWholeBlock covers scenario 4: when the leftover
// after placement would be smaller than minBlockSize, the whole free
// block is handed out rather than split.
func TestExactFitConsumesWholeBlock(t *testing.T) {
	arena := NewMemArena(1 << 20)
	a, err := NewAllocator(arena, Options{ChunkSize: 32})
	require.NoError(t, err)

	p, err := a.Allocate(24) // adjustedSize(24) == 32 == the whole free block
	require.NoError(t, err)
	require.Len(t, p, 24)
	require.NoError(t, a.CheckIntegrity())
	require.Equal(t, 0, a.Stats().FreeBlocks)
}

// TestCoalesceMiddleJoin covers scenario 3: allocate three equal blocks
// from one free region, free the outer two, then the middle one, and the
// whole region must merge back into a single free block of the original
// pre-allocation size.
func TestCoalesceMiddleJoin(t *testing.T) {
	a, err := New(Options{ChunkSize: 4096})
	require.NoError(t, err)

	before := a.Stats().FreeBytes

	pa, err := a.Allocate(40)
	require.NoError(t, err)
	pb, err := a.Allocate(40)
	require.NoError(t, err)
	pc, err := a.Allocate(40)
	require.NoError(t, err)

	a.Free(pa)
	a.Free(pc)
	a.Free(pb)

	require.NoError(t, a.CheckIntegrity())
	st := a.Stats()
	require.Equal(t, 1, st.FreeBlocks)
	require.Equal(t, before, st.FreeBytes)
}

// TestResizeGrowPreservesPrefix covers scenario 5 and the resize-preserves
// -prefix law: resizing up copies the first min(oldUsable, newSize) bytes
// unchanged.
func TestResizeGrowPreservesPrefix(t *testing.T) {
	a, err := New(Options{ChunkSize: 4096})
	require.NoError(t, err)

	p, err := a.Allocate(16)
	require.NoError(t, err)
	for i := range p {
		p[i] = byte(i + 1)
	}
	want := append([]byte(nil), p[:16]...)

	q, err := a.Resize(p, 64)
	require.NoError(t, err)
	require.Len(t, q, 64)
	require.Equal(t, want, q[:16])
	require.NoError(t, a.CheckIntegrity())
}

// TestCallocOverflowRejectsWithoutExtendingHeap covers scenario 6:
// zero-allocate(2, max_uint64) must fail with ErrOverflow and leave the
// heap exactly as it was.
func TestCallocOverflowRejectsWithoutExtendingHeap(t *testing.T) {
	a, err := New(Options{ChunkSize: 4096})
	require.NoError(t, err)

	before := a.Stats()
	p, err := a.Calloc(2, ^uint64(0))
	require.ErrorIs(t, err, ErrOverflow)
	require.Nil(t, p)
	require.Equal(t, before, a.Stats())
	require.NoError(t, a.CheckIntegrity())
}

func TestCallocZeroesMemory(t *testing.T) {
	a, err := New(Options{ChunkSize: 4096})
	require.NoError(t, err)

	p, err := a.Allocate(64)
	require.NoError(t, err)
	for i := range p {
		p[i] = 0xFF
	}
	a.Free(p)

	q, err := a.Calloc(8, 8)
	require.NoError(t, err)
	for _, b := range q {
		require.Equal(t, byte(0), b)
	}
}

func TestFreeOfForeignPointerPanics(t *testing.T) {
	a, err := New(Options{ChunkSize: 4096})
	require.NoError(t, err)

	foreign := make([]byte, 16)
	require.Panics(t, func() { a.Free(foreign) })
}

func TestDoubleFreePanics(t *testing.T) {
	a, err := New(Options{ChunkSize: 4096})
	require.NoError(t, err)

	p, err := a.Allocate(32)
	require.NoError(t, err)
	a.Free(p)
	require.Panics(t, func() { a.Free(p) })
}

func TestFreeOfNilIsNoop(t *testing.T) {
	a, err := New(Options{ChunkSize: 4096})
	require.NoError(t, err)
	a.Free(nil)
	require.NoError(t, a.CheckIntegrity())
}

func TestAllocateZeroReturnsNil(t *testing.T) {
	a, err := New(Options{ChunkSize: 4096})
	require.NoError(t, err)
	p, err := a.Allocate(0)
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestHeapExtendsWhenNoFreeBlockFits(t *testing.T) {
	a, err := New(Options{ChunkSize: 64})
	require.NoError(t, err)

	// Exhaust the initial chunk, forcing at least one extension.
	var ps [][]byte
	for i := 0; i < 8; i++ {
		p, err := a.Allocate(16)
		require.NoError(t, err)
		ps = append(ps, p)
	}
	require.NoError(t, a.CheckIntegrity())
	require.Greater(t, a.Stats().TotalBytes, 64)
}
