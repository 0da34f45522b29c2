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

// Package seqsort provides simple sequential in-place sorts.
//
// Insertion sort is the base case of the parallel engines in psort. The
// quadratic sorts are kept as baselines for benchmarking.
package seqsort

import "golang.org/x/exp/constraints"

// Insertion sorts data in ascending order.
func Insertion[T constraints.Ordered](data []T) {
	InsertionFunc(data, func(a, b T) bool { return a < b })
}

// InsertionFunc sorts data in ascending order as determined by less.
// It is O(n) on already sorted input and O(n²) in the worst case.
func InsertionFunc[T any](data []T, less func(a, b T) bool) {
	for i := 1; i < len(data); i++ {
		key := data[i]
		if !less(key, data[i-1]) {
			continue
		}
		j := i - 1
		for j >= 0 && less(key, data[j]) {
			data[j+1] = data[j]
			j--
		}
		data[j+1] = key
	}
}

// Shell sorts data with gapped insertion passes, halving the gap each time.
func Shell[T constraints.Ordered](data []T) {
	n := len(data)
	for gap := n / 2; gap > 0; gap /= 2 {
		for i := gap; i < n; i++ {
			tmp := data[i]
			j := i
			for ; j >= gap && data[j-gap] > tmp; j -= gap {
				data[j] = data[j-gap]
			}
			data[j] = tmp
		}
	}
}

// Selection sorts data by repeatedly moving the minimum of the unsorted
// suffix to its front.
func Selection[T constraints.Ordered](data []T) {
	n := len(data)
	for i := 0; i < n-1; i++ {
		m := i
		for j := i + 1; j < n; j++ {
			if data[j] < data[m] {
				m = j
			}
		}
		data[i], data[m] = data[m], data[i]
	}
}

// Bubble sorts data with adjacent swaps, stopping after the first pass that
// swaps nothing.
func Bubble[T constraints.Ordered](data []T) {
	n := len(data)
	for k := 1; k < n; k++ {
		swapped := false
		for i := 0; i < n-k; i++ {
			if data[i] > data[i+1] {
				data[i], data[i+1] = data[i+1], data[i]
				swapped = true
			}
		}
		if !swapped {
			return
		}
	}
}
