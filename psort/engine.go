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
	"reflect"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/exp/constraints"

	"github.com/ajroetker/go-psort/psort/contrib/seqsort"
	"github.com/ajroetker/go-psort/psort/forkjoin"
)

// Engine sorts slices of T on a fork-join pool. Its Config is fixed at
// construction; an Engine is safe for concurrent use.
type Engine[T any] struct {
	less func(a, b T) bool
	// unordered returns the index of an element that cannot be compared,
	// or -1. Nil when every value of T is ordered.
	unordered func(data []T) int
	cfg       Config
	pool      *forkjoin.Pool
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	pool   *forkjoin.Pool
	logger *zap.Logger
}

// WithPool runs the engine on pool instead of forkjoin.Default().
func WithPool(pool *forkjoin.Pool) Option {
	return func(o *options) { o.pool = pool }
}

// WithLogger sets the logger for failed sorts.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewOrdered returns an Engine sorting by the natural order of T. Floating
// point slices are scanned for NaN before sorting.
func NewOrdered[T constraints.Ordered](cfg Config, opts ...Option) *Engine[T] {
	e := newEngine(func(a, b T) bool { return a < b }, cfg, opts)
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Float32, reflect.Float64:
		e.unordered = func(data []T) int { return findNaN(e.pool, data) }
	}
	return e
}

// NewFunc returns an Engine ordering elements by cmp, which must return a
// negative number when a < b, a positive number when a > b and zero
// otherwise. A panic in cmp aborts the sort with ErrComparisonFailure.
func NewFunc[T any](cmp func(a, b T) int, cfg Config, opts ...Option) *Engine[T] {
	return newEngine(func(a, b T) bool { return cmp(a, b) < 0 }, cfg, opts)
}

func newEngine[T any](less func(a, b T) bool, cfg Config, opts []Option) *Engine[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.pool == nil {
		o.pool = forkjoin.Default()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return &Engine[T]{less: less, cfg: cfg, pool: o.pool, logger: o.logger}
}

// Config returns the cutoffs used by the engine.
func (e *Engine[T]) Config() Config {
	return e.cfg
}

// QuickSort sorts data in place in ascending order using parallel quicksort.
func (e *Engine[T]) QuickSort(data []T) error {
	return e.sort("quicksort", data, e.cfg.QuicksortCutoff(), (*sortRun[T]).quick)
}

// MergeSort sorts data in place in ascending order using parallel mergesort.
// Equal elements keep their relative order.
func (e *Engine[T]) MergeSort(data []T) error {
	return e.sort("mergesort", data, e.cfg.MergesortCutoff(), (*sortRun[T]).merge)
}

func (e *Engine[T]) sort(algo string, data []T, cutoff int, step func(*sortRun[T], []T, int) error) error {
	if len(data) < 2 {
		return nil
	}

	if e.unordered != nil {
		if i := e.unordered(data); i >= 0 {
			err := &ComparisonError{Low: i, High: i, Cause: errUnordered}
			e.logger.Debug("sort rejected", zap.String("algorithm", algo), zap.Int("len", len(data)), zap.Error(err))
			return err
		}
	}

	r := &sortRun[T]{less: e.less, cutoff: cutoff, pool: e.pool}
	var err error
	if len(data)-1 <= cutoff {
		err = step(r, data, 0)
	} else {
		err = e.pool.Submit(func() error { return step(r, data, 0) })
	}
	if err != nil {
		e.logger.Debug("sort failed", zap.String("algorithm", algo), zap.Int("len", len(data)), zap.Error(err))
	}
	return err
}

// sortRun is the state shared by every task of one top-level sort.
type sortRun[T any] struct {
	less   func(a, b T) bool
	cutoff int
	pool   *forkjoin.Pool
	// failed is set by the first failing task; the rest stop early.
	failed atomic.Bool
}

// quick sorts data, which starts at index lo of the top-level slice.
func (r *sortRun[T]) quick(data []T, lo int) error {
	if r.failed.Load() {
		return nil
	}

	if len(data)-1 <= r.cutoff {
		return r.guard(data, lo, func() { seqsort.InsertionFunc(data, r.less) })
	}

	var p int
	if err := r.guard(data, lo, func() { p = partition(data, r.less) }); err != nil {
		return err
	}

	return r.pool.Fork2(
		func() error { return r.quick(data[:p], lo) },
		func() error { return r.quick(data[p+1:], lo+p+1) },
	)
}

// merge sorts data, which starts at index lo of the top-level slice.
func (r *sortRun[T]) merge(data []T, lo int) error {
	if r.failed.Load() {
		return nil
	}

	if len(data)-1 <= r.cutoff {
		return r.guard(data, lo, func() { seqsort.InsertionFunc(data, r.less) })
	}

	m := (len(data)-1)/2 + 1
	err := r.pool.Fork2(
		func() error { return r.merge(data[:m], lo) },
		func() error { return r.merge(data[m:], lo+m) },
	)
	if err != nil || r.failed.Load() {
		return err
	}

	return r.guard(data, lo, func() { merge(data, m, r.less) })
}

// guard runs step and turns a panic in the comparison function into a
// ComparisonError covering data.
func (r *sortRun[T]) guard(data []T, lo int, step func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			cause, ok := p.(error)
			if !ok {
				cause = fmt.Errorf("comparison panicked: %v", p)
			}
			err = &ComparisonError{Low: lo, High: lo + len(data) - 1, Cause: cause}
			r.failed.Store(true)
		}
	}()
	step()
	return nil
}
