package fuzzy

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Executor runs a scoped set of tasks concurrently. Scoped must not return
// until every task spawned inside fn has finished.
type Executor interface {
	NumWorkers() int
	Scoped(fn func(spawn func(task func())))
}

// PoolExecutor is an Executor backed by a bounded errgroup.
type PoolExecutor struct {
	workers int
}

// NewPoolExecutor creates an executor with the given number of workers.
// A non-positive value uses runtime.NumCPU().
func NewPoolExecutor(workers int) *PoolExecutor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &PoolExecutor{workers: workers}
}

// NumWorkers returns the maximum number of tasks run at once.
func (e *PoolExecutor) NumWorkers() int {
	return e.workers
}

// Scoped runs fn, which may spawn tasks, and waits for all of them.
func (e *PoolExecutor) Scoped(fn func(spawn func(task func()))) {
	var g errgroup.Group
	g.SetLimit(e.workers)
	fn(func(task func()) {
		g.Go(func() error {
			task()
			return nil
		})
	})
	_ = g.Wait()
}
