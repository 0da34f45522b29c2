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

// merge combines the sorted runs data[:m] and data[m:] into one sorted run.
// Equal elements from the left run stay ahead of those from the right run.
func merge[T any](data []T, m int, less func(a, b T) bool) {
	aux := make([]T, len(data))

	i, j, k := 0, m, 0
	for i < m && j < len(data) {
		if !less(data[j], data[i]) {
			aux[k] = data[i]
			i++
		} else {
			aux[k] = data[j]
			j++
		}
		k++
	}
	k += copy(aux[k:], data[i:m])
	copy(aux[k:], data[j:])

	copy(data, aux)
}
