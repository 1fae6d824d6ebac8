package algorithm

import (
	"context"
	"fmt"
	"runtime"

	"github.com/pkg/errors"

	"github.com/outofforest/parallel"
)

// Config stores configuration of algorithm runners.
type Config struct {
	// NumWorkers is the maximum number of units of work executed concurrently. If 0, the number of CPUs is used.
	NumWorkers int

	// Serial disables concurrency, all the units are executed one after another in the calling goroutine.
	Serial bool
}

func (c Config) numWorkers() int {
	if c.Serial {
		return 1
	}
	if c.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return c.NumWorkers
}

// Task is the independent unit of work.
type Task func(ctx context.Context) error

type namedTask struct {
	name string
	task Task
}

// NewTaskAlgorithm creates runner of independent tasks.
func NewTaskAlgorithm(config Config) *TaskAlgorithm {
	return &TaskAlgorithm{
		config: config,
	}
}

// TaskAlgorithm collects independent tasks and runs them on a pool of workers.
type TaskAlgorithm struct {
	config Config
	tasks  []namedTask
}

// Execute schedules the task.
func (a *TaskAlgorithm) Execute(name string, task Task) {
	a.tasks = append(a.tasks, namedTask{name: name, task: task})
}

// Wait runs all the scheduled tasks and blocks until they finish. First error returned by a task cancels the rest.
func (a *TaskAlgorithm) Wait(ctx context.Context) error {
	tasks := a.tasks
	a.tasks = nil

	if a.config.Serial {
		for _, t := range tasks {
			if err := ctx.Err(); err != nil {
				return errors.WithStack(err)
			}
			if err := t.task(ctx); err != nil {
				return errors.Wrapf(err, "task %s failed", t.name)
			}
		}
		return nil
	}

	tasksCh := make(chan namedTask, len(tasks))
	for _, t := range tasks {
		tasksCh <- t
	}
	close(tasksCh)

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		for i := range min(a.config.numWorkers(), len(tasks)) {
			spawn(fmt.Sprintf("worker-%02d", i), parallel.Continue, func(ctx context.Context) error {
				for t := range tasksCh {
					if err := ctx.Err(); err != nil {
						return errors.WithStack(err)
					}
					if err := t.task(ctx); err != nil {
						return errors.Wrapf(err, "task %s failed", t.name)
					}
				}
				return nil
			})
		}
		return nil
	})
}

// Range is the half-open range [Start, End) of indices.
type Range struct {
	Start int
	End   int
}

// Size returns the number of indices in the range.
func (r Range) Size() int {
	return r.End - r.Start
}

// Partition splits [0, size) into at most n ranges of nearly equal size.
func Partition(size, n int) []Range {
	if size <= 0 {
		return nil
	}
	n = max(1, min(n, size))
	ranges := make([]Range, 0, n)
	chunk, rest := size/n, size%n
	var start int
	for i := range n {
		end := start + chunk
		if i < rest {
			end++
		}
		ranges = append(ranges, Range{Start: start, End: end})
		start = end
	}
	return ranges
}

// RangeFunc processes the range of indices.
type RangeFunc func(ctx context.Context, r Range) error

// NewDataAlgorithm creates runner of range-partitioned loops.
func NewDataAlgorithm(config Config) *DataAlgorithm {
	return &DataAlgorithm{
		config: config,
	}
}

// DataAlgorithm splits the index space into ranges processed concurrently.
type DataAlgorithm struct {
	config Config
}

// NumWorkers returns the number of ranges the index space is split into.
func (a *DataAlgorithm) NumWorkers() int {
	return a.config.numWorkers()
}

// Execute runs the function for disjoint ranges covering [0, size).
func (a *DataAlgorithm) Execute(ctx context.Context, size int, fn RangeFunc) error {
	ranges := Partition(size, a.config.numWorkers())
	if len(ranges) <= 1 {
		for _, r := range ranges {
			if err := fn(ctx, r); err != nil {
				return err
			}
		}
		return nil
	}

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		for i, r := range ranges {
			spawn(fmt.Sprintf("range-%02d", i), parallel.Continue, func(ctx context.Context) error {
				return fn(ctx, r)
			})
		}
		return nil
	})
}

// Cancelled reports whether context is done without blocking.
func Cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
