// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// countingWorker is a test implementation of the Worker interface
// that tracks how many times Run was called and blocks until cancelled.
type countingWorker struct {
	runCount atomic.Int32
}

func (m *countingWorker) Run(ctx context.Context) error {
	m.runCount.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &countingWorker{}
	w2 := &countingWorker{}
	w3 := &countingWorker{}

	ws := New(nil, w1, w2, w3)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := ws.Run(ctx); err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}

	for i, w := range []*countingWorker{w1, w2, w3} {
		if got := w.runCount.Load(); got != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, got)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := New(nil)

	// Should not block or fail on an empty workers list
	if err := ws.Run(context.Background()); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestWorkers_Run_FailureCancelsOthers(t *testing.T) {
	boom := errors.New("boom")
	blocker := &countingWorker{}

	ws := New(nil, blocker)
	ws.Add(WorkerFunc(func(ctx context.Context) error {
		return boom
	}))

	done := make(chan error, 1)
	go func() { done <- ws.Run(context.Background()) }()

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("failing worker did not cancel the others")
	}
}

func TestWorkers_Run_ReturnsWithoutCancelWhenAllFinish(t *testing.T) {
	var order atomic.Int32

	ws := New(nil,
		WorkerFunc(func(context.Context) error { order.Add(1); return nil }),
		WorkerFunc(func(context.Context) error { order.Add(1); return nil }),
	)

	if err := ws.Run(context.Background()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if order.Load() != 2 {
		t.Errorf("expected both workers to run, got %d", order.Load())
	}
}

func TestWorkers_Run_CancelIsCleanStop(t *testing.T) {
	ws := New(nil, &countingWorker{}, &countingWorker{})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	if err := ws.Run(ctx); err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}
}

func TestWorkers_Run_OwnDeadlineErrorIsReported(t *testing.T) {
	// ошибка дедлайна самого воркера, а не общего контекста
	ws := New(nil, WorkerFunc(func(context.Context) error {
		return context.DeadlineExceeded
	}))

	if err := ws.Run(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}
