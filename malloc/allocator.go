// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import (
	"log"
	"math"
)

// Allocator services Allocate/Free/Resize/Calloc requests against an
// Arena, using a boundary-tag block layout and a segregated free-list
// index.
//
// An Allocator is not safe for concurrent use by multiple goroutines; like
// the Arena it wraps, it expects to be driven from one goroutine, or from
// many serialized by a caller-held lock.
type Allocator struct {
	arena Arena
	opts  Options

	lists       freeLists
	firstBlock  int // offset of the heap's first real block; fixed for the Allocator's lifetime
	epilogue    int // offset of the current epilogue header; moves on every extendHeap
	initialized bool

	logger *log.Logger
}

// NewAllocator builds an Allocator over arena, performing the one-time
// prologue/epilogue setup and the first heap extension. A second call to
// Init on the result is a documented no-op.
func NewAllocator(arena Arena, opts Options) (*Allocator, error) {
	opts.setDefaults()
	a := &Allocator{arena: arena, opts: opts, logger: opts.Logger}
	if err := a.Init(); err != nil {
		return nil, err
	}
	return a, nil
}

// New is a convenience constructor that builds a memArena reserving
// opts.Reserve bytes (or the default) and wraps it in an Allocator.
func New(opts Options) (*Allocator, error) {
	opts.setDefaults()
	return NewAllocator(NewMemArena(opts.Reserve), opts)
}

// Init performs the one-time prologue/epilogue setup and the first heap
// extension. Calling Init again on an already-initialized Allocator is a
// no-op that returns nil.
func (a *Allocator) Init() error {
	if a.initialized {
		return nil
	}
	if _, ok := a.arena.Grow(2 * wordSize); !ok {
		return ErrOutOfMemory
	}
	a.writeWord(0, packHeader(0, true, false)) // prologue footer
	a.epilogue = wordSize
	a.firstBlock = wordSize
	a.writeWord(a.epilogue, packHeader(0, true, true)) // epilogue header; prev-alloc=1, nothing allocated yet
	if _, ok := a.extendHeap(a.opts.ChunkSize); !ok {
		return ErrOutOfMemory
	}
	a.initialized = true
	return nil
}

// Allocate returns a payload slice of exactly size bytes, or
// ErrOutOfMemory if the arena cannot grow enough to satisfy the request.
// Allocate(0) returns (nil, nil). The block backing it may carry more
// usable bytes than size (internal fragmentation), but the returned slice
// is trimmed to size, length and capacity both, so it cannot be grown by
// append into that padding or into the next block.
func (a *Allocator) Allocate(size int) ([]byte, error) {
	if err := a.Init(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, nil
	}
	asize := adjustedSize(size)

	off := a.findFit(asize)
	if off == 0 {
		grow := asize
		if a.opts.ChunkSize > grow {
			grow = a.opts.ChunkSize
		}
		// grow >= asize always, so the block extendHeap returns (possibly
		// enlarged further by coalescing with a free block at the old
		// break) is always big enough for this request.
		newOff, ok := a.extendHeap(grow)
		if !ok {
			return nil, ErrOutOfMemory
		}
		off = newOff
	}

	a.place(off, asize)
	full := a.payload(off, a.sizeAt(off))
	return full[:size:size], nil
}

// findFit returns the offset of the first free block of at least asize
// bytes, scanning buckets from asize's size class upward and first-fit
// within each bucket. It returns 0 if no free block is large enough.
func (a *Allocator) findFit(asize int) int {
	for i := freeIndex(asize); i < numBuckets; i++ {
		for off := a.lists[i].head; off != 0; off = a.linkNext(off) {
			if a.sizeAt(off) >= asize {
				return off
			}
		}
	}
	return 0
}

// Free returns p, previously returned by Allocate/Resize/Calloc on this
// same Allocator, to the heap. Free(nil) is a no-op. Free panics with an
// *ErrInvalid if p does not point into this Allocator's arena, or if it
// names a block that is not currently allocated (a double free): these are
// programmer-error contract violations, not recoverable runtime
// conditions, so they are reported the way an out-of-range slice index is.
func (a *Allocator) Free(p []byte) {
	if len(p) == 0 {
		return
	}
	off, err := a.ownedOffset(p)
	if err != nil {
		panic(err)
	}
	size := a.sizeAt(off)
	prevAlloc := isPrevAlloc(a.header(off))
	a.setHeader(off, size, false, prevAlloc)
	a.setFooter(off, size, false)
	a.coalesce(off)
}

// Resize changes the usable size of the allocation backing p, preserving
// the first min(size, old usable size) bytes. Resize(nil, size) behaves
// like Allocate(size); Resize(p, 0) behaves like Free(p) followed by
// returning (nil, nil).
func (a *Allocator) Resize(p []byte, size int) ([]byte, error) {
	if len(p) == 0 {
		return a.Allocate(size)
	}
	if size <= 0 {
		a.Free(p)
		return nil, nil
	}

	off, err := a.ownedOffset(p)
	if err != nil {
		return nil, err
	}
	oldFull := a.payload(off, a.sizeAt(off))

	newP, err := a.Allocate(size)
	if err != nil {
		return nil, err
	}
	n := size
	if len(oldFull) < n {
		n = len(oldFull)
	}
	copy(newP, oldFull[:n])
	a.Free(p)
	return newP, nil
}

// Calloc is the zero-allocate operation: it allocates room for count
// elements of size bytes each, zeroed, failing with ErrOverflow (without
// attempting any allocation) if count*size overflows.
func (a *Allocator) Calloc(count, size uint64) ([]byte, error) {
	if count == 0 || size == 0 {
		return a.Allocate(0)
	}
	total := count * size
	if total/count != size {
		return nil, ErrOverflow
	}
	if total > math.MaxInt {
		return nil, ErrOverflow
	}
	p, err := a.Allocate(int(total))
	if err != nil {
		return nil, err
	}
	for i := range p {
		p[i] = 0
	}
	return p, nil
}
