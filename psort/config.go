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
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
)

// DefaultCutoff is the default for both cutoffs. Ranges with
// high-low <= cutoff are insertion sorted instead of split.
const DefaultCutoff = 30

// Environment variables read by ConfigFromEnv.
const (
	EnvQuicksortCutoff = "PSORT_QUICKSORT_CUTOFF"
	EnvMergesortCutoff = "PSORT_MERGESORT_CUTOFF"
)

// Config holds the cutoffs of one sort. The zero value reports
// DefaultCutoff for both.
type Config struct {
	quicksortCutoff int
	mergesortCutoff int
}

// NewConfig returns a Config with both cutoffs set to DefaultCutoff.
func NewConfig() Config {
	return Config{quicksortCutoff: DefaultCutoff, mergesortCutoff: DefaultCutoff}
}

// QuicksortCutoff returns the range size at or below which quicksort stops
// partitioning.
func (c Config) QuicksortCutoff() int {
	if c.quicksortCutoff == 0 {
		return DefaultCutoff
	}
	return c.quicksortCutoff
}

// MergesortCutoff returns the range size at or below which mergesort stops
// splitting.
func (c Config) MergesortCutoff() int {
	if c.mergesortCutoff == 0 {
		return DefaultCutoff
	}
	return c.mergesortCutoff
}

// SetQuicksortCutoff sets the quicksort cutoff. It returns an error wrapping
// ErrInvalidThreshold if n <= 0, leaving c unchanged.
func (c *Config) SetQuicksortCutoff(n int) error {
	if err := validateCutoff("quicksort", n); err != nil {
		return err
	}
	c.quicksortCutoff = n
	return nil
}

// SetMergesortCutoff sets the mergesort cutoff. It returns an error wrapping
// ErrInvalidThreshold if n <= 0, leaving c unchanged.
func (c *Config) SetMergesortCutoff(n int) error {
	if err := validateCutoff("mergesort", n); err != nil {
		return err
	}
	c.mergesortCutoff = n
	return nil
}

func validateCutoff(name string, n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %s cutoff is %d", ErrInvalidThreshold, name, n)
	}
	return nil
}

// ConfigFromEnv returns the defaults overridden by PSORT_QUICKSORT_CUTOFF
// and PSORT_MERGESORT_CUTOFF. Unset or empty variables keep the default.
func ConfigFromEnv() (Config, error) {
	cfg := NewConfig()
	vars := []struct {
		name string
		set  func(int) error
	}{
		{EnvQuicksortCutoff, cfg.SetQuicksortCutoff},
		{EnvMergesortCutoff, cfg.SetMergesortCutoff},
	}
	for _, v := range vars {
		val := os.Getenv(v.name)
		if val == "" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidThreshold, v.name, val)
		}
		if err := v.set(n); err != nil {
			return Config{}, fmt.Errorf("%s: %w", v.name, err)
		}
	}
	return cfg, nil
}

// Process-wide cutoffs used by the package-level sort functions. Zero
// means DefaultCutoff.
var (
	processQuicksortCutoff atomic.Int64
	processMergesortCutoff atomic.Int64
)

func init() {
	// Invalid environment values are ignored here; ConfigFromEnv reports them.
	if cfg, err := ConfigFromEnv(); err == nil {
		processQuicksortCutoff.Store(int64(cfg.QuicksortCutoff()))
		processMergesortCutoff.Store(int64(cfg.MergesortCutoff()))
	}
}

// SetQuicksortCutoff sets the process-wide quicksort cutoff. Sorts already
// running keep the value they started with.
func SetQuicksortCutoff(n int) error {
	if err := validateCutoff("quicksort", n); err != nil {
		return err
	}
	processQuicksortCutoff.Store(int64(n))
	return nil
}

// QuicksortCutoff returns the process-wide quicksort cutoff.
func QuicksortCutoff() int {
	return ProcessConfig().QuicksortCutoff()
}

// SetMergesortCutoff sets the process-wide mergesort cutoff. Sorts already
// running keep the value they started with.
func SetMergesortCutoff(n int) error {
	if err := validateCutoff("mergesort", n); err != nil {
		return err
	}
	processMergesortCutoff.Store(int64(n))
	return nil
}

// MergesortCutoff returns the process-wide mergesort cutoff.
func MergesortCutoff() int {
	return ProcessConfig().MergesortCutoff()
}

// ProcessConfig returns a snapshot of the process-wide cutoffs.
func ProcessConfig() Config {
	return Config{
		quicksortCutoff: int(processQuicksortCutoff.Load()),
		mergesortCutoff: int(processMergesortCutoff.Load()),
	}
}
