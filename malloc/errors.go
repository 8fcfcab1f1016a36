// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory is returned by Allocate, Resize and Calloc when the
// backing Arena cannot grow enough to satisfy a request.
var ErrOutOfMemory = errors.New("malloc: out of memory")

// ErrOverflow is returned by Calloc when count*size overflows, before any
// allocation is attempted.
var ErrOverflow = errors.New("malloc: count*size overflows")

// ErrInvalid reports a precondition violation the core detected cheaply,
// without walking the heap.
type ErrInvalid struct {
	Op     string
	Detail string
}

func (e *ErrInvalid) Error() string {
	return fmt.Sprintf("malloc: %s: %s", e.Op, e.Detail)
}

// ErrCorrupt reports a structural invariant broken somewhere in the heap,
// as found by CheckIntegrity. Kind names which invariant failed; Offset is
// the block (or word) at fault; Want/Got carry whatever the check was
// comparing, zero when not applicable.
type ErrCorrupt struct {
	Kind   string
	Offset int
	Want   int
	Got    int
}

func (e *ErrCorrupt) Error() string {
	return fmt.Sprintf("malloc: corrupt heap at offset %d: %s (want %d, got %d)", e.Offset, e.Kind, e.Want, e.Got)
}
