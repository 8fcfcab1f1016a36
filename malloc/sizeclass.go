// Copyright 2024 The Memory-Allocation-Package Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import "math"

// bucketThresholds is the fixed 17-entry size-class table: bucket i holds
// free blocks with bucketThresholds[i-1] < size <= bucketThresholds[i]
// (bucketThresholds[-1] treated as 0). Doubling thresholds from 32 to
// 512 KiB, with a catch-all top bucket for anything larger.
var bucketThresholds = [...]int{
	4, 32, 64, 128, 256, 512, 1024, 2048,
	4096, 8192, 16384, 32768, 65536, 131072, 262144, 524288,
	math.MaxInt,
}

const numBuckets = len(bucketThresholds)

// freeIndex returns the bucket a block of the given total size belongs to.
// It is monotone non-decreasing in size.
//
// Bucket 0 (size <= 4) can never hold a real block: minBlockSize is 32. It
// stays in the table so bucket indices line up 1:1 with the documented
// 17-entry table, and CheckIntegrity can assert it stands permanently
// empty rather than special-casing it out of the scan.
func freeIndex(size int) int {
	for i, t := range bucketThresholds {
		if size <= t {
			return i
		}
	}
	return numBuckets - 1
}
