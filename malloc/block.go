// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

const (
	wordSize     = 8  // size of a header/footer/free-list-link word
	dwordSize    = 16 // alignment granularity; every block size is a multiple of this
	minBlockSize = 32 // header + two link words + footer

	allocBit     = uint64(1) << 0
	prevAllocBit = uint64(1) << 1
	sizeMask     = ^uint64(0xF)
)

// packHeader encodes a boundary-tag word. size must already be a multiple
// of dwordSize; any low bits present in size are discarded, not rejected,
// mirroring the original pack()'s bitwise OR of flags into the low nibble.
func packHeader(size int, alloc, prevAlloc bool) uint64 {
	h := uint64(size) & sizeMask
	if alloc {
		h |= allocBit
	}
	if prevAlloc {
		h |= prevAllocBit
	}
	return h
}

func sizeOf(h uint64) int       { return int(h & sizeMask) }
func isAlloc(h uint64) bool     { return h&allocBit != 0 }
func isPrevAlloc(h uint64) bool { return h&prevAllocBit != 0 }

func roundUp(n, align int) int { return (n + align - 1) / align * align }

// adjustedSize maps a requested payload size to the total block size that
// must be carved out for it: room for the header plus the payload, rounded
// up to dwordSize, with minBlockSize as a floor (small requests still need
// room for two free-list link words once freed).
func adjustedSize(size int) int {
	if size <= minBlockSize-wordSize {
		return minBlockSize
	}
	return roundUp(size+wordSize, dwordSize)
}

func (a *Allocator) readWord(off int) uint64 {
	return binary.BigEndian.Uint64(a.arena.Bytes()[off:])
}

func (a *Allocator) writeWord(off int, v uint64) {
	binary.BigEndian.PutUint64(a.arena.Bytes()[off:], v)
}

func (a *Allocator) header(off int) uint64 { return a.readWord(off) }

func (a *Allocator) sizeAt(off int) int { return sizeOf(a.header(off)) }

func (a *Allocator) setHeader(off, size int, alloc, prevAlloc bool) {
	a.writeWord(off, packHeader(size, alloc, prevAlloc))
}

func (a *Allocator) footerOffset(off, size int) int { return off + size - wordSize }

// setFooter writes a free block's footer. Per the resolved Open Question,
// a footer never carries the prev-allocated bit: only (size, own-allocated)
// are encoded here.
func (a *Allocator) setFooter(off, size int, alloc bool) {
	a.writeWord(a.footerOffset(off, size), packHeader(size, alloc, false))
}

// setPrevAlloc rewrites only the prev-allocated bit of the block at off,
// leaving its size and own-allocated bit untouched.
func (a *Allocator) setPrevAlloc(off int, prevAlloc bool) {
	h := a.header(off)
	a.setHeader(off, sizeOf(h), isAlloc(h), prevAlloc)
}

// next returns the offset of the block immediately following off.
func (a *Allocator) next(off int) int { return off + a.sizeAt(off) }

// prevBlock returns the offset of the block immediately preceding off,
// read from that block's footer (the word just before off). Only valid
// when off's prev-allocated bit is clear, i.e. the predecessor is free and
// therefore carries a footer.
func (a *Allocator) prevBlock(off int) int {
	footer := a.readWord(off - wordSize)
	return off - sizeOf(footer)
}

// Free-list links are threaded through the first two payload words of a
// free block: prev at off+wordSize, next at off+2*wordSize. An offset of 0
// terminates a list in either direction; 0 is never a valid block offset
// because the prologue occupies it.
func (a *Allocator) linkPrev(off int) int      { return int(a.readWord(off + wordSize)) }
func (a *Allocator) linkNext(off int) int      { return int(a.readWord(off + 2*wordSize)) }
func (a *Allocator) setLinkPrev(off, prev int) { a.writeWord(off+wordSize, uint64(prev)) }
func (a *Allocator) setLinkNext(off, next int) { a.writeWord(off+2*wordSize, uint64(next)) }

// payload returns the usable portion of the block at off, given its total
// size: everything after the header, up to (for an allocated block, which
// carries no footer) the end of the block. The three-index slice caps
// capacity at the block's own end, so a caller appending to a payload
// slice cannot spill into the next block.
func (a *Allocator) payload(off, size int) []byte {
	lo, hi := off+wordSize, off+size
	return a.arena.Bytes()[lo:hi:hi]
}

// ownedOffset recovers the offset of the block that owns payload slice p,
// by pointer arithmetic against the arena's base address (the inverse of
// payload), and cheaply validates it: the offset must lie between the first
// block and the epilogue, and the header word there must have its allocated
// bit set. It does not verify that the offset is the start of a block. It
// is the one place Free and Resize detect a foreign pointer
// or a double free without walking the heap.
func (a *Allocator) ownedOffset(p []byte) (int, error) {
	base := unsafe.Pointer(&a.arena.Bytes()[0])
	ptr := unsafe.Pointer(&p[0])
	delta := int64(uintptr(ptr) - uintptr(base))
	off := int(delta) - wordSize

	if delta < wordSize || off < a.firstBlock || off >= a.epilogue {
		return 0, &ErrInvalid{Op: "free/resize", Detail: fmt.Sprintf("pointer does not belong to this arena (offset %d)", off)}
	}
	if !isAlloc(a.header(off)) {
		return 0, &ErrInvalid{Op: "free/resize", Detail: fmt.Sprintf("double free or corrupt pointer at offset %d", off)}
	}
	return off, nil
}
