// Package recipeconc provides the bounded-concurrency fan-out shared by the
// loop and parallel steps: at most maxConcurrency tasks run at a time, an
// optional per-task stagger delay is applied, and the caller chooses
// whether the first error cancels the remaining tasks (fail-fast) or all
// tasks run to completion with every error collected.
package recipeconc

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Task is one unit of fan-out work, identified by its position in the
// caller's item/substep list.
type Task func(ctx context.Context, index int) error

// Result is the outcome of a single Task.
type Result struct {
	Index int
	Err   error
}

// Run executes tasks with at most maxConcurrency running concurrently,
// waiting delay between launching each one. If failFast is true, the
// first task error cancels the context passed to not-yet-started and
// in-flight tasks and Run returns that error immediately once every
// already-launched task has finished. If failFast is false, every task
// runs to completion regardless of earlier failures, and Run returns the
// per-task Results in task order instead of an error.
func Run(ctx context.Context, tasks []Task, maxConcurrency int, delay time.Duration, failFast bool) ([]Result, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = len(tasks)
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	if failFast {
		return runFailFast(ctx, tasks, maxConcurrency, delay)
	}
	return runCollectAll(ctx, tasks, maxConcurrency, delay), nil
}

func runFailFast(ctx context.Context, tasks []Task, maxConcurrency int, delay time.Duration) ([]Result, error) {
	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(maxConcurrency))
	results := make([]Result, len(tasks))

	for i, task := range tasks {
		i, task := i, task
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		if delay > 0 && i > 0 {
			time.Sleep(delay)
		}
		g.Go(func() error {
			defer sem.Release(1)
			err := task(gctx, i)
			results[i] = Result{Index: i, Err: err}
			return err
		})
	}

	err := g.Wait()
	return results, err
}

func runCollectAll(ctx context.Context, tasks []Task, maxConcurrency int, delay time.Duration) []Result {
	sem := semaphore.NewWeighted(int64(maxConcurrency))
	results := make([]Result, len(tasks))
	done := make(chan struct{}, len(tasks))

	for i, task := range tasks {
		i, task := i, task
		_ = sem.Acquire(ctx, 1)
		if delay > 0 && i > 0 {
			time.Sleep(delay)
		}
		go func() {
			defer sem.Release(1)
			defer func() { done <- struct{}{} }()
			results[i] = Result{Index: i, Err: task(ctx, i)}
		}()
	}

	for range tasks {
		<-done
	}
	return results
}
