package workers

import (
	"context"
	"errors"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/MKhiriev/go-lesson-sync/internal/logger"
)

// Workers runs a set of workers under one lifecycle: all of them start
// together, the first one to fail cancels the rest.
type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

// New creates an aggregate of the given workers.
func New(log *logger.Logger, workers ...Worker) *Workers {
	return &Workers{workers: workers, logger: log}
}

// Add appends worker to the aggregate. It must be called before Run.
func (w *Workers) Add(worker Worker) {
	w.workers = append(w.workers, worker)
}

// Run starts every worker in its own goroutine and blocks until all of them
// have returned. A worker returning ctx.Err() after ctx is done (cancelled or
// past its deadline) counts as a clean stop; any other
// error cancels the remaining workers and is returned (joined with the rest).
// A panicking worker is re-panicked on the caller's goroutine by conc.
func (w *Workers) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   conc.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for i, worker := range w.workers {
		wg.Go(func() {
			err := worker.Run(ctx)
			if err == nil || (ctx.Err() != nil && errors.Is(err, ctx.Err())) {
				return
			}

			if w.logger != nil {
				w.logger.Err(err).Int("worker", i).Msg("worker stopped with error")
			}

			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			cancel()
		})
	}

	wg.Wait()

	return errors.Join(errs...)
}
