// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import "log"

// Options amend the behavior of NewAllocator. The zero value is usable and
// yields the defaults below.
type Options struct {
	// ChunkSize is the number of bytes the heap grows by whenever no free
	// block is large enough for a request and the request itself does
	// not demand more. Rounded up to a multiple of 16. Zero means
	// defaultChunkSize.
	ChunkSize int

	// Reserve bounds how large an Arena built by New is allowed to grow.
	// Zero means defaultReserve. Ignored when an Arena is supplied
	// directly to NewAllocator.
	Reserve int

	// Logger, when non-nil, receives one line per heap extension and one
	// line per CheckIntegrity failure. Nil disables tracing entirely, at
	// no cost on the allocation path.
	Logger *log.Logger
}

const (
	defaultChunkSize = 4096
	defaultReserve   = 1 << 30 // 1 GiB of address space, nothing committed until touched
)

func (o *Options) setDefaults() {
	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	}
	o.ChunkSize = roundUp(o.ChunkSize, dwordSize)
	if o.Reserve <= 0 {
		o.Reserve = defaultReserve
	}
}
