// Copyright 2025 go-psort Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package psort

import (
	"sync/atomic"

	"golang.org/x/exp/constraints"

	"github.com/ajroetker/go-psort/psort/forkjoin"
)

// scanGrainSize is the batch size of the parallel scans. Shorter slices are
// scanned sequentially.
const scanGrainSize = 0x500

// QuickSort sorts data in place in ascending order using parallel quicksort
// on the default pool, with the process-wide quicksort cutoff.
func QuickSort[T constraints.Ordered](data []T) error {
	return NewOrdered[T](ProcessConfig()).QuickSort(data)
}

// MergeSort sorts data in place in ascending order using parallel mergesort
// on the default pool, with the process-wide mergesort cutoff.
func MergeSort[T constraints.Ordered](data []T) error {
	return NewOrdered[T](ProcessConfig()).MergeSort(data)
}

// QuickSortFunc is like QuickSort but orders elements by cmp.
func QuickSortFunc[T any](data []T, cmp func(a, b T) int) error {
	return NewFunc(cmp, ProcessConfig()).QuickSort(data)
}

// MergeSortFunc is like MergeSort but orders elements by cmp.
func MergeSortFunc[T any](data []T, cmp func(a, b T) int) error {
	return NewFunc(cmp, ProcessConfig()).MergeSort(data)
}

// IsSorted reports whether data is sorted in ascending order. Large slices
// are checked in parallel on the default pool, stopping early once an
// inversion is found.
func IsSorted[T constraints.Ordered](data []T) bool {
	if len(data) < scanGrainSize {
		for i := 1; i < len(data); i++ {
			if data[i] < data[i-1] {
				return false
			}
		}
		return true
	}

	var unsorted atomic.Bool
	forkjoin.Default().ParallelForAtomicBatched(len(data)-1, scanGrainSize, func(start, end int) {
		if unsorted.Load() {
			return
		}
		for i := start; i < end; i++ {
			if data[i+1] < data[i] {
				unsorted.Store(true)
				return
			}
		}
	})
	return !unsorted.Load()
}

func isNaN[T constraints.Ordered](x T) bool {
	return x != x
}

// findNaN returns the lowest index holding NaN, or -1.
func findNaN[T constraints.Ordered](pool *forkjoin.Pool, data []T) int {
	if len(data) < scanGrainSize {
		for i, x := range data {
			if isNaN(x) {
				return i
			}
		}
		return -1
	}

	var found atomic.Int64
	found.Store(int64(len(data)))
	// Contiguous chunks: the chunk holding the lowest NaN stops at its first hit.
	pool.ParallelFor(len(data), func(start, end int) {
		if int64(start) > found.Load() {
			return
		}
		for i := start; i < end; i++ {
			if !isNaN(data[i]) {
				continue
			}
			for {
				cur := found.Load()
				if int64(i) >= cur || found.CompareAndSwap(cur, int64(i)) {
					return
				}
			}
		}
	})

	if i := int(found.Load()); i < len(data) {
		return i
	}
	return -1
}
