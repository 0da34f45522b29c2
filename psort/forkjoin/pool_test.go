// Copyright 2025 The go-psort Authors. SPDX-License-Identifier: Apache-2.0

package forkjoin

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", pool.NumWorkers())
	}
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	if pool.NumWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), runtime.GOMAXPROCS(0))
	}
}

func TestDefaultIsShared(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() returned two different pools")
	}
}

func TestSubmit(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	var ran bool
	if err := pool.Submit(func() error {
		ran = true
		return nil
	}); err != nil {
		t.Fatalf("Submit() = %v", err)
	}
	if !ran {
		t.Error("Submit returned before the task ran")
	}
}

func TestSubmitError(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	want := errors.New("boom")
	if err := pool.Submit(func() error { return want }); !errors.Is(err, want) {
		t.Errorf("Submit() = %v, want %v", err, want)
	}
}

// sum adds xs by recursive halving with Fork2.
func sum(p *Pool, xs []int, out *int) error {
	if len(xs) <= 4 {
		for _, x := range xs {
			*out += x
		}
		return nil
	}
	mid := len(xs) / 2
	var left, right int
	err := p.Fork2(
		func() error { return sum(p, xs[:mid], &left) },
		func() error { return sum(p, xs[mid:], &right) },
	)
	*out = left + right
	return err
}

func TestFork2Recursive(t *testing.T) {
	for _, workers := range []int{1, 2, 4, 16} {
		pool := New(workers)

		n := 10000
		xs := make([]int, n)
		for i := range xs {
			xs[i] = i
		}

		var total int
		err := pool.Submit(func() error { return sum(pool, xs, &total) })
		pool.Close()

		if err != nil {
			t.Fatalf("workers=%d: Submit() = %v", workers, err)
		}
		if want := n * (n - 1) / 2; total != want {
			t.Errorf("workers=%d: total = %d, want %d", workers, total, want)
		}
	}
}

func TestFork2RunsBoth(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	var count atomic.Int32
	err := pool.Submit(func() error {
		return pool.Fork2(
			func() error { count.Add(1); return nil },
			func() error { count.Add(1); return nil },
		)
	})
	if err != nil {
		t.Fatalf("Fork2() = %v", err)
	}
	if count.Load() != 2 {
		t.Errorf("count = %d, want 2", count.Load())
	}
}

func TestFork2Error(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	errA := errors.New("a failed")
	errB := errors.New("b failed")

	err := pool.Submit(func() error {
		return pool.Fork2(
			func() error { return errA },
			func() error { return nil },
		)
	})
	if !errors.Is(err, errA) {
		t.Errorf("Fork2(err, nil) = %v, want %v", err, errA)
	}

	err = pool.Submit(func() error {
		return pool.Fork2(
			func() error { return nil },
			func() error { return errB },
		)
	})
	if !errors.Is(err, errB) {
		t.Errorf("Fork2(nil, err) = %v, want %v", err, errB)
	}

	// Both children still run when one fails.
	var ran atomic.Int32
	err = pool.Submit(func() error {
		return pool.Fork2(
			func() error { ran.Add(1); return errA },
			func() error { ran.Add(1); return errB },
		)
	})
	if !errors.Is(err, errA) && !errors.Is(err, errB) {
		t.Errorf("Fork2(err, err) = %v, want one of the child errors", err)
	}
	if ran.Load() != 2 {
		t.Errorf("ran = %d, want 2", ran.Load())
	}
}

func TestFork2Panic(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	err := pool.Submit(func() error {
		return pool.Fork2(
			func() error { panic("left exploded") },
			func() error { return nil },
		)
	})

	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("Fork2() = %v, want *PanicError", err)
	}
	if pe.Value != "left exploded" {
		t.Errorf("PanicError.Value = %v, want %q", pe.Value, "left exploded")
	}
	if len(pe.Stack) == 0 {
		t.Error("PanicError.Stack is empty")
	}
}

func TestSubmitMoreThanWorkers(t *testing.T) {
	pool := New(1)
	defer pool.Close()

	const submitters = 32
	var wg sync.WaitGroup
	errs := make([]error, submitters)
	totals := make([]int, submitters)
	xs := make([]int, 1000)
	for i := range xs {
		xs[i] = 1
	}

	for i := range submitters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = pool.Submit(func() error { return sum(pool, xs, &totals[i]) })
		}()
	}
	wg.Wait()

	for i := range submitters {
		if errs[i] != nil {
			t.Errorf("submitter %d: %v", i, errs[i])
		}
		if totals[i] != len(xs) {
			t.Errorf("submitter %d: total = %d, want %d", i, totals[i], len(xs))
		}
	}
}

func TestStats(t *testing.T) {
	pool := New(1)
	defer pool.Close()

	// Roots and loop chunks are not forked tasks.
	if err := pool.Submit(func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	pool.ParallelFor(100, func(start, end int) {})
	pool.ParallelForAtomicBatched(100, 10, func(start, end int) {})
	if st := pool.Stats(); st != (Stats{}) {
		t.Errorf("Stats() = %+v after Submit and ParallelFor, want zero", st)
	}

	// 4096 elements split down to leaves of 4: 1023 Fork2 calls.
	xs := make([]int, 4096)
	var total int
	if err := pool.Submit(func() error { return sum(pool, xs, &total) }); err != nil {
		t.Fatal(err)
	}
	st := pool.Stats()
	if st.Stolen+st.Inlined != 1023 {
		t.Errorf("Stats() = %+v, want Stolen+Inlined = 1023", st)
	}
}

func TestParallelForPanic(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	helpers := []struct {
		name string
		run  func(fn func(start, end int))
	}{
		{"ParallelFor", func(fn func(start, end int)) { pool.ParallelFor(4000, fn) }},
		{"ParallelForAtomicBatched", func(fn func(start, end int)) { pool.ParallelForAtomicBatched(4000, 10, fn) }},
	}
	for _, h := range helpers {
		t.Run(h.name, func(t *testing.T) {
			var visited atomic.Int64
			r := func() (r any) {
				defer func() { r = recover() }()
				h.run(func(start, end int) {
					if start == 0 {
						panic("boom")
					}
					visited.Add(int64(end - start))
				})
				return nil
			}()

			pe, ok := r.(*PanicError)
			if !ok {
				t.Fatalf("recovered %v (%T), want *PanicError", r, r)
			}
			if pe.Value != "boom" {
				t.Errorf("PanicError.Value = %v, want %q", pe.Value, "boom")
			}
			if visited.Load() == 0 {
				t.Error("no other chunk ran")
			}
		})
	}

	// The pool stays usable afterwards.
	var count atomic.Int32
	pool.ParallelFor(100, func(start, end int) { count.Add(int32(end - start)) })
	if count.Load() != 100 {
		t.Errorf("count = %d, want 100", count.Load())
	}
}

func TestParallelFor(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)

	pool.ParallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestParallelForAtomicBatched(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)

	pool.ParallelForAtomicBatched(n, 10, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestParallelForSmallN(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	// Test with n smaller than workers
	n := 3
	var count atomic.Int32

	pool.ParallelFor(n, func(start, end int) {
		count.Add(int32(end - start))
	})

	if count.Load() != int32(n) {
		t.Errorf("count = %d, want %d", count.Load(), n)
	}
}

func TestParallelForZeroN(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	var called bool
	pool.ParallelFor(0, func(start, end int) {
		called = true
	})

	if called {
		t.Error("ParallelFor with n=0 should not call fn")
	}
}

func TestCloseMultipleTimes(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close() // Should not panic
}

func TestClosedPoolFallback(t *testing.T) {
	pool := New(4)
	pool.Close()

	n := 100
	results := make([]int, n)

	// Should still work (sequential fallback)
	pool.ParallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}

	xs := make([]int, 500)
	for i := range xs {
		xs[i] = 2
	}
	var total int
	if err := pool.Submit(func() error { return sum(pool, xs, &total) }); err != nil {
		t.Fatalf("Submit on closed pool = %v", err)
	}
	if total != 1000 {
		t.Errorf("total = %d, want 1000", total)
	}
}

func BenchmarkFork2(b *testing.B) {
	pool := New(0) // Use GOMAXPROCS
	defer pool.Close()

	xs := make([]int, 1<<16)
	for i := range xs {
		xs[i] = i
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var total int
		_ = pool.Submit(func() error { return sum(pool, xs, &total) })
	}
}

func BenchmarkParallelFor(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	n := 1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.ParallelFor(n, func(start, end int) {
			// Simulate work
			for j := start; j < end; j++ {
				_ = j * j
			}
		})
	}
}

func BenchmarkParallelForAtomicBatched(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	n := 1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.ParallelForAtomicBatched(n, 10, func(start, end int) {
			for j := start; j < end; j++ {
				_ = j * j
			}
		})
	}
}
