// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

// coalesce merges the free block at off with any free neighbors and pushes
// the resulting block onto the appropriate free list. It returns the
// offset of the merged block (which may differ from off, if the left
// neighbor absorbed it). The block at off must already be marked free
// (header/footer written) and must not yet be linked into any free list.
func (a *Allocator) coalesce(off int) int {
	size := a.sizeAt(off)
	prevAlloc := isPrevAlloc(a.header(off))
	nextOff := off + size
	nextAlloc := isAlloc(a.header(nextOff))

	switch {
	case prevAlloc && nextAlloc:
		// Isolated: both neighbors allocated (or sentinel). Nothing to
		// merge.
		a.addFreeBlock(off)
		return off

	case prevAlloc && !nextAlloc:
		// Right-join: absorb the free block to the right.
		nsize := a.sizeAt(nextOff)
		a.removeFreeBlock(nextOff)
		size += nsize
		a.setHeader(off, size, false, true)
		a.setFooter(off, size, false)
		a.addFreeBlock(off)
		return off

	case !prevAlloc && nextAlloc:
		// Left-join: absorb into the free block to the left.
		prevOff := a.prevBlock(off)
		prevPrevAlloc := isPrevAlloc(a.header(prevOff))
		psize := a.sizeAt(prevOff)
		a.removeFreeBlock(prevOff)
		size += psize
		a.setHeader(prevOff, size, false, prevPrevAlloc)
		a.setFooter(prevOff, size, false)
		a.addFreeBlock(prevOff)
		return prevOff

	default:
		// Middle-join: absorb both neighbors into one block.
		prevOff := a.prevBlock(off)
		prevPrevAlloc := isPrevAlloc(a.header(prevOff))
		psize := a.sizeAt(prevOff)
		nsize := a.sizeAt(nextOff)
		a.removeFreeBlock(prevOff)
		a.removeFreeBlock(nextOff)
		size += psize + nsize
		a.setHeader(prevOff, size, false, prevPrevAlloc)
		a.setFooter(prevOff, size, false)
		a.addFreeBlock(prevOff)
		return prevOff
	}
}
