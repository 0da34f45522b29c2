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

// medianOfThree returns the index of the median of data[0], data[mid] and
// data[n-1], with mid = (n-1)/2. When several of the three hold the median
// value the earliest position wins.
func medianOfThree[T any](data []T, less func(a, b T) bool) int {
	hi := len(data) - 1
	mid := hi / 2
	a, b, c := data[0], data[mid], data[hi]

	var m T
	if less(a, b) {
		switch {
		case less(b, c):
			m = b
		case less(a, c):
			m = c
		default:
			m = a
		}
	} else {
		switch {
		case less(a, c):
			m = a
		case less(b, c):
			m = c
		default:
			m = b
		}
	}

	equal := func(x, y T) bool { return !less(x, y) && !less(y, x) }
	switch {
	case equal(a, m):
		return 0
	case equal(b, m):
		return mid
	}
	return hi
}

// partition rearranges data around a median-of-three pivot and returns the
// pivot's final index p:
//   - data[:p] < pivot
//   - data[p] == pivot
//   - data[p+1:] >= pivot
//
// data must hold at least two elements.
func partition[T any](data []T, less func(a, b T) bool) int {
	hi := len(data) - 1

	m := medianOfThree(data, less)
	data[m], data[hi] = data[hi], data[m]
	pivot := data[hi]

	i := 0
	for j := 0; j < hi; j++ {
		if less(data[j], pivot) {
			data[i], data[j] = data[j], data[i]
			i++
		}
	}

	data[i], data[hi] = data[hi], data[i]
	return i
}
