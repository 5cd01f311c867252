package replica

import (
	"fmt"
	"sync"

	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/workers"
)

// notifier collects dirty paths and delivers them to matching watchers in
// one deferred flush per scheduler turn.
type notifier struct {
	registry  *registry
	scheduler workers.Scheduler
	logger    *logger.Logger

	mu        sync.Mutex
	dirty     []string
	marked    map[string]struct{}
	scheduled bool
}

func newNotifier(reg *registry, scheduler workers.Scheduler, log *logger.Logger) *notifier {
	return &notifier{
		registry:  reg,
		scheduler: scheduler,
		logger:    log,
		marked:    make(map[string]struct{}),
	}
}

// markDirty records path and schedules a flush unless one is already pending.
// Marking the same path again before the flush is a no-op.
func (n *notifier) markDirty(path string) {
	n.mu.Lock()
	if _, ok := n.marked[path]; !ok {
		n.marked[path] = struct{}{}
		n.dirty = append(n.dirty, path)
	}
	if n.scheduled {
		n.mu.Unlock()
		return
	}
	n.scheduled = true
	n.mu.Unlock()

	n.scheduler.Defer(n.flush)
}

// flush drains the dirty set and delivers each path, in marking order, to
// every matching watcher, in registration order. Paths dirtied by the
// callbacks themselves land in a fresh set with its own flush.
func (n *notifier) flush() {
	n.mu.Lock()
	paths := n.dirty
	n.dirty = nil
	n.marked = make(map[string]struct{})
	n.scheduled = false
	n.mu.Unlock()

	if len(paths) == 0 {
		return
	}

	subs := n.registry.snapshot()
	for _, path := range paths {
		for _, s := range subs {
			if s.matches(path) {
				n.deliver(s, path)
			}
		}
	}
}

func (n *notifier) deliver(s subscription, path string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Err(fmt.Errorf("%w: %v", ErrWatcher, r)).
				Str("prefix", s.prefix).
				Str("path", path).
				Msg("watcher callback panicked")
		}
	}()

	s.callback(path)
}
