// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import "github.com/cznic/mathutil"

// Arena is the heap primitive the allocator core consumes: a contiguous,
// monotonically-extensible region of memory, grown sbrk-style. An Arena
// never moves or invalidates bytes already handed out by a previous Grow;
// it only ever appends.
//
// Arena is not safe for concurrent use, mirroring lldb.Filer's contract:
// it is meant to be driven from one goroutine, or from many serialized by
// a caller-held lock.
type Arena interface {
	// Grow extends the arena by n bytes, zero-filled, and returns the
	// offset of the first new byte (the old break) and true. It returns
	// (0, false) if the arena cannot grow by n bytes.
	Grow(n int) (oldBreak int, ok bool)

	// Low is the first valid byte offset; always 0.
	Low() int

	// High is the last valid byte offset, or -1 for an empty arena.
	High() int

	// Bytes returns the live region as a single slice, b[0:High()+1].
	// Across a later Grow, the slice previously returned by Bytes keeps
	// aliasing the same backing array; only its length changes, not its
	// identity, so offsets computed against an earlier Bytes() call
	// remain valid.
	Bytes() []byte
}

// memArena is an Arena backed by a Go slice whose capacity is reserved up
// front. Because capacity never needs to grow past that reservation, Grow
// never triggers the copying append() would do on overflow, so payload
// slices handed out by the allocator stay valid for the arena's lifetime.
type memArena struct {
	mem []byte
}

var _ Arena = (*memArena)(nil)

// NewMemArena returns an Arena that reserves up to reserve bytes of
// process memory and grows within that reservation without ever
// reallocating.
func NewMemArena(reserve int) Arena {
	reserve = mathutil.Max(reserve, dwordSize)
	return &memArena{mem: make([]byte, 0, reserve)}
}

func (a *memArena) Grow(n int) (int, bool) {
	old := len(a.mem)
	if n < 0 || old+n > cap(a.mem) {
		return 0, false
	}
	a.mem = a.mem[:old+n]
	return old, true
}

func (a *memArena) Low() int      { return 0 }
func (a *memArena) High() int     { return len(a.mem) - 1 }
func (a *memArena) Bytes() []byte { return a.mem }
