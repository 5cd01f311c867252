package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrLoopStopped is returned by Post once the loop has stopped running.
	ErrLoopStopped = errors.New("loop stopped")

	// ErrLoopRunning is returned by Run when the loop is already running.
	ErrLoopRunning = errors.New("loop already running")
)

const defaultQueueSize = 100

// Loop is the production [Scheduler]: one goroutine executes posted tasks in
// FIFO order and, after each of them, drains the deferred queue until it is
// empty. A deferred task that defers another one gets it executed in a later
// drain iteration, never nested inside itself.
type Loop struct {
	tasks chan func()
	kick  chan struct{}
	done  chan struct{}

	running  atomic.Bool
	stopOnce sync.Once

	mu       sync.Mutex
	deferred []func()
}

// NewLoop creates an idle loop whose posted-task queue holds queueSize
// entries. Non-positive sizes fall back to 100.
func NewLoop(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	return &Loop{
		tasks: make(chan func(), queueSize),
		kick:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Post implements [Scheduler]. It blocks while the queue is full.
func (l *Loop) Post(ctx context.Context, task func()) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}

	select {
	case l.tasks <- task:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Defer implements [Scheduler]. It never blocks.
func (l *Loop) Defer(task func()) {
	l.mu.Lock()
	l.deferred = append(l.deferred, task)
	l.mu.Unlock()

	select {
	case l.kick <- struct{}{}:
	default:
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run implements [Worker]. It executes tasks until ctx is cancelled and
// returns ctx.Err(). A loop runs at most once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.stopOnce.Do(func() { close(l.done) })

	// work deferred before the loop started
	l.drain()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-l.tasks:
			task()
			l.drain()
		case <-l.kick:
			l.drain()
		}
	}
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.deferred) == 0 {
			l.mu.Unlock()
			return
		}
		next := l.deferred[0]
		l.deferred[0] = nil
		l.deferred = l.deferred[1:]
		l.mu.Unlock()

		next()
	}
}

// Await posts fn to s and blocks until it has run, returning its results.
// It is how callers outside the loop read or mutate state owned by it.
func Await[T any](ctx context.Context, s Scheduler, fn func() (T, error)) (T, error) {
	var zero T

	type result struct {
		value T
		err   error
	}
	resCh := make(chan result, 1)

	if err := s.Post(ctx, func() {
		v, err := fn()
		resCh <- result{v, err}
	}); err != nil {
		return zero, err
	}

	select {
	case res := <-resCh:
		return res.value, res.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
