// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

// extendHeap grows the arena by at least nbytes (rounded up to dwordSize)
// and turns the new space into one free block, coalescing it with the
// heap's current last block if that block is free. It returns the offset
// of the resulting free block and false if the arena refused to grow.
//
// The new block's header is written at the position of the *old* epilogue:
// the epilogue's 8 bytes are recycled as the new block's header rather
// than wasted, so growing the heap by size bytes yields exactly one new
// free block of size bytes, not size-8.
func (a *Allocator) extendHeap(nbytes int) (int, bool) {
	size := roundUp(nbytes, dwordSize)
	if _, ok := a.arena.Grow(size); !ok {
		return 0, false
	}

	blockOff := a.epilogue
	prevAlloc := isPrevAlloc(a.header(blockOff))
	a.setHeader(blockOff, size, false, prevAlloc)
	a.setFooter(blockOff, size, false)

	a.epilogue = blockOff + size
	a.setHeader(a.epilogue, 0, true, false)

	if a.logger != nil {
		a.logger.Printf("malloc: extended heap by %d bytes, new block at offset %d", size, blockOff)
	}

	return a.coalesce(blockOff), true
}
