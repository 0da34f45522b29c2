// Copyright 2025 The go-psort Authors. SPDX-License-Identifier: Apache-2.0

package forkjoin

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

const (
	taskPending int32 = iota
	taskClaimed
)

// task is a Task queued on the pool. Whoever wins claim runs it exactly once.
type task struct {
	fn     Task
	state  atomic.Int32
	done   chan struct{}
	err    error
	forked bool
}

func newTask(fn Task) *task {
	return &task{fn: fn, done: make(chan struct{})}
}

func newForkedTask(fn Task) *task {
	t := newTask(fn)
	t.forked = true
	return t
}

func (t *task) claim() bool {
	return t.state.CompareAndSwap(taskPending, taskClaimed)
}

// run executes the task and publishes its result. err is written before
// done is closed, so readers must wait on done first.
func (t *task) run() {
	t.err = safeRun(t.fn)
	close(t.done)
}

// PanicError is returned in place of a task that panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("forkjoin: task panicked: %v", e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func safeRun(fn Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}

// firstError keeps the earliest non-nil error recorded by concurrent tasks.
type firstError struct {
	once sync.Once
	err  error
}

func (f *firstError) record(err error) error {
	if err != nil {
		f.once.Do(func() { f.err = err })
	}
	return err
}

// get must only be called once every recording task has finished.
func (f *firstError) get() error {
	return f.err
}
