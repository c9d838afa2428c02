// Package dispatch runs one operation across N boards concurrently.
//
// It is the single concurrency primitive of the fleet tools: a bounded
// pool sized to the task count, one outcome per task in input order, and
// strict failure isolation. A task that fails, or even panics, never
// blocks or cancels its siblings; the caller inspects each outcome and
// decides what a partial result means.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/xid"
)

// Outcome is the result of one task.
type Outcome[T any] struct {
	// Index is the task's position in the input order.
	Index int

	// ID identifies the task in log output.
	ID string

	Value T
	Err   error
}

// Failed reports whether the task returned an error.
func (o Outcome[T]) Failed() bool {
	return o.Err != nil
}

// Task computes the value for input index i.
type Task[T any] func(ctx context.Context, i int) (T, error)

// Run executes fn for every index in [0, n) on up to limit concurrent
// workers and returns the outcomes in input order. limit <= 0 means one
// worker per task. Run returns only after every task has finished; ctx
// cancellation is visible to the tasks through their ctx argument but
// does not make Run abandon them.
func Run[T any](ctx context.Context, n, limit int, fn Task[T]) []Outcome[T] {
	if limit <= 0 || limit > n {
		limit = n
	}

	outcomes := make([]Outcome[T], n)
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < limit; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				outcomes[i] = runOne(ctx, i, fn)
			}
		}()
	}

	for i := 0; i < n; i++ {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return outcomes
}

// All runs fn across all n tasks with one worker per task.
func All[T any](ctx context.Context, n int, fn Task[T]) []Outcome[T] {
	return Run(ctx, n, n, fn)
}

func runOne[T any](ctx context.Context, i int, fn Task[T]) (out Outcome[T]) {
	out.Index = i
	out.ID = xid.New().String()

	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("task %d panicked: %v", i, r)
		}
	}()

	out.Value, out.Err = fn(ctx, i)
	return out
}

// Succeeded filters the outcomes down to the successful values, preserving
// input order.
func Succeeded[T any](outcomes []Outcome[T]) []T {
	values := make([]T, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Failed() {
			values = append(values, o.Value)
		}
	}
	return values
}

// FirstError returns the first failed outcome's error, or nil.
func FirstError[T any](outcomes []Outcome[T]) error {
	for _, o := range outcomes {
		if o.Failed() {
			return o.Err
		}
	}
	return nil
}
