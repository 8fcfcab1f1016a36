// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package malloc implements a general-purpose dynamic memory allocator on
// top of a contiguous, monotonically-extensible byte arena.
//
// The heap is a sequence of blocks, each bounded by a boundary tag: an 8-byte
// header word at the front, encoding (size, own-allocated, prev-allocated).
// Free blocks additionally carry an 8-byte footer (a copy of size and
// own-allocated, without the prev-allocated bit) so that a block can locate
// its left neighbor in O(1) and decide whether to coalesce with it; allocated
// blocks never carry a footer, since their successor learns from its own
// prev-allocated bit that the neighbor is allocated and never walks back
// into it. This prev-allocated bit is
// the classic boundary-tag optimization: it buys back the 8 bytes a naive
// header+footer scheme would spend on every allocated block.
//
//	 word 0          word 1 (free only)     ...      last word (free only)
//	+---------------+---------------------+--- ... ---+---------------------+
//	| size | A | PA |   free-list prev     |  payload  |    size | A=0      |
//	+---------------+---------------------+--- ... ---+---------------------+
//	  header                                                    footer
//
// Free blocks are indexed by size class into a fixed table of segregated
// free lists (17 buckets, doubled thresholds from 32 to 512 KiB, with a
// catch-all at the top). Each list is doubly linked through the first two
// payload words of its member blocks; allocation scans from the bucket a
// request's rounded size maps to upward, first-fit within a bucket.
//
// The heap is bounded by a one-word prologue footer and a one-word epilogue
// header that never participate in coalescing; extending the heap recycles
// the old epilogue's 8 bytes as the new block's header, and writes a fresh
// epilogue at the new break.
//
// The package is not safe for concurrent use: an *Allocator, like the
// arena it wraps, is meant to be driven from a single goroutine, or from
// many goroutines serialized by a caller-held lock.
package malloc
