// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

// place carves an allocation of asize bytes out of the free block at off,
// which must already be large enough (asize <= block size at off) and must
// currently be linked into a free list. If the leftover is large enough to
// be a block in its own right, it is split off as a new free block and
// pushed onto the appropriate list; otherwise the whole block is handed to
// the caller, internal fragmentation and all.
func (a *Allocator) place(off, asize int) {
	size := a.sizeAt(off)
	prevAlloc := isPrevAlloc(a.header(off))
	leftover := size - asize

	// Unlink before rewriting the header: removeFreeBlock computes the
	// block's bucket from its current (pre-split) size.
	a.removeFreeBlock(off)

	if leftover >= minBlockSize {
		a.setHeader(off, asize, true, prevAlloc)
		tail := off + asize
		a.setHeader(tail, leftover, false, true)
		a.setFooter(tail, leftover, false)
		a.addFreeBlock(tail)
		return
	}

	a.setHeader(off, size, true, prevAlloc)
}
