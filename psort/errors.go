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
	"errors"
	"fmt"
)

var (
	// ErrInvalidThreshold is returned by the cutoff setters for values <= 0.
	ErrInvalidThreshold = errors.New("psort: threshold must be greater than 0")

	// ErrComparisonFailure is returned when two elements cannot be compared,
	// either because an element has no ordering (NaN) or because the
	// comparison function panicked. The slice is left partially reordered.
	ErrComparisonFailure = errors.New("psort: comparison failed")

	errUnordered = errors.New("NaN has no ordering")
)

// ComparisonError reports the range whose comparison failed. Low and High
// are inclusive indices into the slice passed to the top-level sort.
type ComparisonError struct {
	Low, High int
	Cause     error
}

func (e *ComparisonError) Error() string {
	if e.Low == e.High {
		return fmt.Sprintf("%v: element %d: %v", ErrComparisonFailure, e.Low, e.Cause)
	}
	return fmt.Sprintf("%v: range [%d, %d]: %v", ErrComparisonFailure, e.Low, e.High, e.Cause)
}

// Is reports ErrComparisonFailure as a match.
func (e *ComparisonError) Is(target error) bool {
	return target == ErrComparisonFailure
}

func (e *ComparisonError) Unwrap() error {
	return e.Cause
}
