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

// Package datagen builds input slices for sorting tests and benchmarks.
// Generators taking a seed are deterministic.
package datagen

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/samber/lo"
)

// ErrInvalidInterval is returned by RangeStep when the interval does not
// move from a towards b.
var ErrInvalidInterval = errors.New("datagen: interval does not move towards the end")

// Range returns the integers from a to b inclusive, descending if a > b.
func Range(a, b int) []int {
	if a <= b {
		return lo.RangeWithSteps(a, b+1, 1)
	}
	return lo.RangeWithSteps(a, b-1, -1)
}

// RangeStep returns a, a+interval, a+2*interval, ... up to and including b
// when b is reached exactly. If a == b the result is [a].
func RangeStep(a, b, interval int) ([]int, error) {
	switch {
	case a == b:
		return []int{a}, nil
	case a < b && interval <= 0:
		return nil, fmt.Errorf("%w: %d to %d by %d", ErrInvalidInterval, a, b, interval)
	case a > b && interval >= 0:
		return nil, fmt.Errorf("%w: %d to %d by %d", ErrInvalidInterval, a, b, interval)
	case a < b:
		return lo.RangeWithSteps(a, b+1, interval), nil
	default:
		return lo.RangeWithSteps(a, b-1, interval), nil
	}
}

// Random returns n pseudo-random ints drawn from seed, or an empty slice
// when n <= 0.
func Random(n int, seed uint64) []int {
	if n <= 0 {
		return []int{}
	}
	r := newRand(seed)
	return lo.Times(n, func(int) int { return r.Int() })
}

// RandomFloat64 returns n pseudo-random floats in [0, 1) drawn from seed.
func RandomFloat64(n int, seed uint64) []float64 {
	if n <= 0 {
		return []float64{}
	}
	r := newRand(seed)
	return lo.Times(n, func(int) float64 { return r.Float64() })
}

// Permutation returns a shuffled copy of 0..n-1.
func Permutation(n int, seed uint64) []int {
	if n <= 0 {
		return []int{}
	}
	data := Range(0, n-1)
	Shuffle(data, newRand(seed))
	return data
}

// NearlySorted returns 0..n-1 with swaps random pairs exchanged.
func NearlySorted(n, swaps int, seed uint64) []int {
	if n <= 0 {
		return []int{}
	}
	data := Range(0, n-1)
	r := newRand(seed)
	for range swaps {
		i, j := r.IntN(n), r.IntN(n)
		data[i], data[j] = data[j], data[i]
	}
	return data
}

// Shuffle permutes data uniformly at random. A nil r uses the global source.
func Shuffle[T any](data []T, r *rand.Rand) {
	intN := rand.IntN
	if r != nil {
		intN = r.IntN
	}
	for i := 0; i < len(data)-1; i++ {
		j := i + intN(len(data)-i)
		data[i], data[j] = data[j], data[i]
	}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
