// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemArenaGrowIsNonMoving(t *testing.T) {
	a := NewMemArena(1024)
	off1, ok := a.Grow(16)
	require.True(t, ok)
	require.Equal(t, 0, off1)

	p1 := a.Bytes()[off1 : off1+16]
	p1[0] = 0xAB

	off2, ok := a.Grow(16)
	require.True(t, ok)
	require.Equal(t, 16, off2)

	// Growing must not move bytes already handed out.
	require.Equal(t, byte(0xAB), p1[0])
	require.Equal(t, byte(0xAB), a.Bytes()[off1])
}

func TestMemArenaGrowRefusesPastReservation(t *testing.T) {
	a := NewMemArena(16)
	_, ok := a.Grow(16)
	require.True(t, ok)
	_, ok = a.Grow(1)
	require.False(t, ok)
}

func TestMemArenaLowHigh(t *testing.T) {
	a := NewMemArena(64)
	require.Equal(t, 0, a.Low())
	require.Equal(t, -1, a.High())
	a.Grow(10)
	require.Equal(t, 9, a.High())
}
