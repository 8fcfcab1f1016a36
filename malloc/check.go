// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

// Kinds of structural violation CheckIntegrity can report via ErrCorrupt.Kind.
const (
	corruptBadSize        = "block size not a positive multiple of 16"
	corruptMisaligned     = "block payload offset not a multiple of 16"
	corruptPrevAllocBit   = "prev-allocated bit disagrees with predecessor's own-allocated bit"
	corruptAdjacentFree   = "two adjacent blocks both free"
	corruptFooterMismatch = "free block footer disagrees with its header"
	corruptNotInList      = "free block not found in its size class's list"
	corruptBucketMismatch = "free block linked into the wrong size class's list"
	corruptHeapOverrun    = "block runs past the epilogue"
	corruptBadEpilogue    = "epilogue header is not (size 0, allocated)"
	corruptDeadBucket     = "bucket 0 holds a block (size <= 4 can never be a real block)"
	corruptListOrphan     = "size class list references an offset outside the scanned heap"
)

// AllocStats summarizes the current state of the heap, grounded directly
// on lldb.AllocStats.
type AllocStats struct {
	TotalBytes  int // bytes between the first block and the epilogue, inclusive of both allocated and free blocks
	AllocBytes  int
	AllocBlocks int
	FreeBytes   int
	FreeBlocks  int
}

// CheckIntegrity walks the entire heap and verifies every invariant in the
// block layout and free-list index: block sizes are positive multiples of
// 16, every block's payload starts on a 16-byte boundary, the prev-allocated bit of every block agrees with its predecessor's
// real allocation state, no two free blocks are ever adjacent, every free
// block's footer agrees with its header, and every free block is linked
// into exactly the list its size maps to. It returns nil if the heap is
// consistent, or a *ErrCorrupt describing the first problem found.
func (a *Allocator) CheckIntegrity() error {
	if err := a.checkIntegrity(); err != nil {
		if a.logger != nil {
			a.logger.Printf("malloc: CheckIntegrity failed: %v", err)
		}
		return err
	}
	return nil
}

func (a *Allocator) checkIntegrity() error {
	if !a.initialized {
		return nil
	}

	free := make(map[int]bool)
	off := a.firstBlock
	prevAlloc := true // the prologue counts as an allocated predecessor
	prevWasFree := false

	for off < a.epilogue {
		h := a.header(off)
		size := sizeOf(h)
		alloc := isAlloc(h)

		if size <= 0 || size%dwordSize != 0 {
			return &ErrCorrupt{Kind: corruptBadSize, Offset: off, Got: size}
		}
		if err := checkAligned(off); err != nil {
			return err
		}
		if off+size > a.epilogue {
			return &ErrCorrupt{Kind: corruptHeapOverrun, Offset: off, Got: size}
		}
		if isPrevAlloc(h) != prevAlloc {
			return &ErrCorrupt{Kind: corruptPrevAllocBit, Offset: off}
		}
		if !alloc {
			if prevWasFree {
				return &ErrCorrupt{Kind: corruptAdjacentFree, Offset: off}
			}
			footer := a.readWord(a.footerOffset(off, size))
			if sizeOf(footer) != size || isAlloc(footer) {
				return &ErrCorrupt{Kind: corruptFooterMismatch, Offset: off, Want: size, Got: sizeOf(footer)}
			}
			free[off] = true
		}

		prevAlloc = alloc
		prevWasFree = !alloc
		off += size
	}
	if off != a.epilogue {
		return &ErrCorrupt{Kind: corruptHeapOverrun, Offset: off}
	}
	eh := a.header(a.epilogue)
	if sizeOf(eh) != 0 || !isAlloc(eh) {
		return &ErrCorrupt{Kind: corruptBadEpilogue, Offset: a.epilogue}
	}

	return a.checkFreeLists(free)
}

// checkAligned reports an error when the payload of the block at off does
// not start on a 16-byte boundary of the arena.
func checkAligned(off int) error {
	if (off+wordSize)%dwordSize != 0 {
		return &ErrCorrupt{Kind: corruptMisaligned, Offset: off, Got: (off + wordSize) % dwordSize}
	}
	return nil
}

// checkFreeLists verifies that scanned (the free blocks found by the
// linear scan in checkIntegrity) is exactly the set of blocks reachable by
// walking every bucket's list, each in its correctly-computed bucket.
func (a *Allocator) checkFreeLists(scanned map[int]bool) error {
	if a.lists[0].head != 0 || a.lists[0].tail != 0 {
		return &ErrCorrupt{Kind: corruptDeadBucket, Offset: a.lists[0].head}
	}

	seen := make(map[int]bool, len(scanned))
	for idx := range a.lists {
		b := &a.lists[idx]
		prev := 0
		for off := b.head; off != 0; off = a.linkNext(off) {
			if !scanned[off] {
				return &ErrCorrupt{Kind: corruptListOrphan, Offset: off}
			}
			if a.linkPrev(off) != prev {
				return &ErrCorrupt{Kind: corruptNotInList, Offset: off}
			}
			if freeIndex(a.sizeAt(off)) != idx {
				return &ErrCorrupt{Kind: corruptBucketMismatch, Offset: off, Want: idx, Got: freeIndex(a.sizeAt(off))}
			}
			seen[off] = true
			prev = off
		}
		if prev != b.tail {
			return &ErrCorrupt{Kind: corruptNotInList, Offset: b.tail}
		}
	}

	for off := range scanned {
		if !seen[off] {
			return &ErrCorrupt{Kind: corruptNotInList, Offset: off}
		}
	}
	return nil
}

// Stats reports the current size and occupancy of the heap.
func (a *Allocator) Stats() AllocStats {
	var st AllocStats
	if !a.initialized {
		return st
	}
	st.TotalBytes = a.epilogue - a.firstBlock
	for off := a.firstBlock; off < a.epilogue; {
		size := a.sizeAt(off)
		if isAlloc(a.header(off)) {
			st.AllocBytes += size
			st.AllocBlocks++
		} else {
			st.FreeBytes += size
			st.FreeBlocks++
		}
		off += size
	}
	return st
}
