// Package workers provides the background execution primitives of the
// application: the Worker abstraction, a Workers aggregate that runs several
// workers under one lifecycle, and Loop, a single-goroutine cooperative task
// queue that gives the sync replica and the lesson hub their single logical
// thread of control.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until the worker is done or ctx is cancelled. Returning
// ctx.Err() after cancellation is treated as a clean stop by [Workers].
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return ctx.Err()
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a plain function to the [Worker] interface.
type WorkerFunc func(ctx context.Context) error

// Run calls f(ctx).
func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Scheduler is a single-threaded task queue.
//
// Post enqueues task behind every task already posted. Defer schedules task
// to run once the task currently executing has returned and before the next
// posted task starts; when called from outside the queue it runs as soon as
// the queue is idle. Tasks never run concurrently with each other.
type Scheduler interface {
	Post(ctx context.Context, task func()) error
	Defer(task func())
}
