// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !windows

package malloc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mmapArena is an Arena backed by a single anonymous mmap reservation,
// grown sbrk-style by bumping a logical length within that reservation.
// Grounded on the pack's alewtschuk-balloc buddy allocator, which maps one
// large anonymous region up front and recovers block offsets from it via
// pointer arithmetic rather than remapping per allocation.
type mmapArena struct {
	mem []byte
}

var _ Arena = (*mmapArena)(nil)

// NewMmapArena reserves reserve bytes of anonymous, zero-filled memory via
// mmap and returns an Arena that grows within that reservation. The
// mapping, and every payload slice the allocator hands out of it, remains
// valid until Close is called.
func NewMmapArena(reserve int) (*mmapArena, error) {
	if reserve < dwordSize {
		reserve = dwordSize
	}
	mem, err := unix.Mmap(-1, 0, reserve, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("malloc: mmap reserve %d bytes: %w", reserve, err)
	}
	return &mmapArena{mem: mem[:0]}, nil
}

func (a *mmapArena) Grow(n int) (int, bool) {
	old := len(a.mem)
	if n < 0 || old+n > cap(a.mem) {
		return 0, false
	}
	a.mem = a.mem[:old+n]
	return old, true
}

func (a *mmapArena) Low() int      { return 0 }
func (a *mmapArena) High() int     { return len(a.mem) - 1 }
func (a *mmapArena) Bytes() []byte { return a.mem }

// Close unmaps the underlying reservation. After Close, no payload slice
// previously returned by an Allocator built on this arena may be touched.
func (a *mmapArena) Close() error {
	if a.mem == nil {
		return nil
	}
	full := a.mem[:cap(a.mem)]
	a.mem = nil
	return unix.Munmap(full)
}
