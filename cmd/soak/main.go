// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Soak runs a long, randomized allocate/free/resize sequence against a
// malloc.Allocator and checks heap integrity at a configurable cadence,
// logging progress and failing loudly the moment an invariant breaks.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/SafiyaJan/Memory-Allocation-Package/malloc"
)

var (
	oSeed       = flag.Int64("seed", 1, "PRNG seed")
	oOps        = flag.Int("ops", 1_000_000, "number of allocate/free/resize operations to run")
	oCheckEvery = flag.Int("check-every", 1000, "run CheckIntegrity after this many operations")
	oMaxSize    = flag.Int("max-size", 4096, "largest single allocation size, in bytes")
	oChunkSize  = flag.Int("chunk-size", 0, "malloc.Options.ChunkSize override; 0 uses the default")
	oReserve    = flag.Int("reserve", 0, "malloc.Options.Reserve override; 0 uses the default")
)

func main() {
	flag.Parse()
	lg := log.New(os.Stderr, "soak: ", log.Lshortfile|log.Ltime)

	a, err := malloc.New(malloc.Options{
		ChunkSize: *oChunkSize,
		Reserve:   *oReserve,
		Logger:    lg,
	})
	if err != nil {
		lg.Fatal(err)
	}

	rng := rand.New(rand.NewSource(*oSeed))
	live := make([][]byte, 0, 4096)
	start := time.Now()

	for i := 0; i < *oOps; i++ {
		switch {
		case len(live) == 0 || rng.Intn(3) != 0:
			size := rng.Intn(*oMaxSize) + 1
			p, err := a.Allocate(size)
			if err != nil {
				lg.Fatalf("op %d: allocate(%d): %v", i, size, err)
			}
			for j := range p {
				p[j] = byte(i)
			}
			live = append(live, p)

		case rng.Intn(2) == 0:
			idx := rng.Intn(len(live))
			a.Free(live[idx])
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]

		default:
			idx := rng.Intn(len(live))
			size := rng.Intn(*oMaxSize) + 1
			q, err := a.Resize(live[idx], size)
			if err != nil {
				lg.Fatalf("op %d: resize(%d): %v", i, size, err)
			}
			live[idx] = q
		}

		if i%*oCheckEvery == 0 {
			if err := a.CheckIntegrity(); err != nil {
				lg.Fatalf("op %d: %v", i, err)
			}
		}
	}

	if err := a.CheckIntegrity(); err != nil {
		lg.Fatalf("final check: %v", err)
	}

	st := a.Stats()
	lg.Printf("%d ops in %s, final heap: %+v", *oOps, time.Since(start), st)
}
