package replica

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Callback is told the dirty path that matched its watcher's prefix.
type Callback func(path string)

// Unsubscribe removes the watchers it was returned for. Calling it more than
// once is a no-op.
type Unsubscribe func()

type subscription struct {
	id       uuid.UUID
	prefix   string
	callback Callback
}

func (s subscription) matches(path string) bool {
	return strings.HasPrefix(path, s.prefix)
}

// registry holds watchers in registration order. Each registration gets its
// own ID so duplicates of the same (prefix, callback) pair stay independent.
type registry struct {
	mu   sync.Mutex
	subs []subscription
}

func (r *registry) addLocked(prefix string, cb Callback) uuid.UUID {
	id := uuid.New()
	r.subs = append(r.subs, subscription{id: id, prefix: prefix, callback: cb})
	return id
}

func (r *registry) watch(prefix string, cb Callback) Unsubscribe {
	if cb == nil {
		return func() {}
	}

	r.mu.Lock()
	id := r.addLocked(prefix, cb)
	r.mu.Unlock()

	return r.handle(id)
}

// multiwatch registers every entry under one lock acquisition, so no flush
// can observe a partial registration. Entries are added in prefix order.
func (r *registry) multiwatch(watches map[string]Callback) Unsubscribe {
	prefixes := make([]string, 0, len(watches))
	for p, cb := range watches {
		if cb != nil {
			prefixes = append(prefixes, p)
		}
	}
	slices.Sort(prefixes)

	r.mu.Lock()
	ids := make([]uuid.UUID, 0, len(prefixes))
	for _, p := range prefixes {
		ids = append(ids, r.addLocked(p, watches[p]))
	}
	r.mu.Unlock()

	return r.handle(ids...)
}

func (r *registry) handle(ids ...uuid.UUID) Unsubscribe {
	var once sync.Once
	return func() {
		once.Do(func() { r.remove(ids...) })
	}
}

func (r *registry) remove(ids ...uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs = slices.DeleteFunc(r.subs, func(s subscription) bool {
		return slices.Contains(ids, s.id)
	})
}

// snapshot returns a point-in-time copy of the watchers. Flushes iterate the
// copy, so unsubscribing from inside a callback never disturbs them.
func (r *registry) snapshot() []subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.subs)
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.subs)
}
