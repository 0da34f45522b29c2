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

package seqsort

import (
	"math/rand"
	"slices"
	"testing"
)

var sorters = []struct {
	name string
	fn   func([]int)
}{
	{"Insertion", Insertion[int]},
	{"Shell", Shell[int]},
	{"Selection", Selection[int]},
	{"Bubble", Bubble[int]},
}

func TestSortersRandom(t *testing.T) {
	sizes := []int{0, 1, 2, 3, 7, 8, 31, 32, 100, 257}
	for _, s := range sorters {
		for _, n := range sizes {
			data := make([]int, n)
			for i := range data {
				data[i] = rand.Intn(50) - 25
			}
			want := slices.Clone(data)
			slices.Sort(want)

			s.fn(data)
			if !slices.Equal(data, want) {
				t.Errorf("%s(n=%d) = %v, want %v", s.name, n, data, want)
			}
		}
	}
}

func TestSortersPatterns(t *testing.T) {
	patterns := map[string][]int{
		"sorted":    {1, 2, 3, 4, 5, 6, 7, 8},
		"reverse":   {8, 7, 6, 5, 4, 3, 2, 1},
		"allSame":   {5, 5, 5, 5, 5},
		"lastPair":  {1, 2, 3, 5, 4},
		"firstPair": {2, 1, 3, 4, 5},
	}
	for _, s := range sorters {
		for name, p := range patterns {
			data := slices.Clone(p)
			s.fn(data)
			if !slices.IsSorted(data) {
				t.Errorf("%s(%s) = %v, not sorted", s.name, name, data)
			}
		}
	}
}

func TestInsertionFuncSubslice(t *testing.T) {
	data := []int{9, 8, 4, 3, 2, 1, 0}
	InsertionFunc(data[2:5], func(a, b int) bool { return a < b })

	want := []int{9, 8, 2, 3, 4, 1, 0}
	if !slices.Equal(data, want) {
		t.Errorf("InsertionFunc(data[2:5]) = %v, want %v", data, want)
	}
}

func TestInsertionFuncStable(t *testing.T) {
	type kv struct{ k, v int }
	data := []kv{{2, 0}, {1, 1}, {2, 2}, {1, 3}, {0, 4}}
	InsertionFunc(data, func(a, b kv) bool { return a.k < b.k })

	want := []kv{{0, 4}, {1, 1}, {1, 3}, {2, 0}, {2, 2}}
	if !slices.Equal(data, want) {
		t.Errorf("InsertionFunc(stable) = %v, want %v", data, want)
	}
}

func BenchmarkInsertion_30(b *testing.B) {
	ref := make([]int, 30)
	for i := range ref {
		ref[i] = rand.Intn(1000)
	}
	data := make([]int, len(ref))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(data, ref)
		Insertion(data)
	}
}
