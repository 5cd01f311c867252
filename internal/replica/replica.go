// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package replica

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/workers"
	"github.com/MKhiriev/go-lesson-sync/models"
)

// Replica mirrors the server tree for one logged-in user.
//
// All inbound frames, connection events and notification flushes run on one
// [workers.Scheduler]; Get, Set, Watch and friends may be called from any
// goroutine, including from inside watcher callbacks.
type Replica struct {
	login  models.LoginResponse
	dialer Dialer

	tree     *Tree
	registry *registry
	notifier *notifier

	scheduler workers.Scheduler
	// loop is set when the replica owns its scheduler and runs it on Start.
	loop *workers.Loop

	logger    *logger.Logger
	onNotice  func(message string)
	monotonic bool
	reconnect *ReconnectPolicy

	mu      sync.RWMutex
	runCtx  context.Context
	version int64
	state   State
	conn    Conn
	started bool
	closing bool

	// gorilla/websocket allows a single concurrent writer
	writeMu sync.Mutex
}

// New creates an idle replica for login that will connect through dialer.
func New(login models.LoginResponse, dialer Dialer, opts ...Option) *Replica {
	loop := workers.NewLoop(0)

	r := &Replica{
		login:     login,
		dialer:    dialer,
		tree:      NewTree(),
		registry:  &registry{},
		scheduler: loop,
		loop:      loop,
		logger:    logger.Nop(),
		state:     StateDisconnected,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.onNotice == nil {
		r.onNotice = func(message string) {
			r.logger.Warn().Str("message", message).Msg("server notice")
		}
	}
	r.notifier = newNotifier(r.registry, r.scheduler, r.logger)

	return r
}

// Get returns a read-only copy of the value at path. found is false when
// nothing is stored there; err is only ever [ErrInvalidPath].
func (r *Replica) Get(path string) (value any, found bool, err error) {
	return r.tree.Get(path)
}

// GetInto decodes the value at path into dst (a pointer), the way
// encoding/json would. It reports whether a value was found.
func (r *Replica) GetInto(path string, dst any) (bool, error) {
	v, found, err := r.tree.Get(path)
	if err != nil || !found {
		return false, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return true, fmt.Errorf("encode %q: %w", path, err)
	}
	if err = json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode %q into %T: %w", path, dst, err)
	}

	return true, nil
}

// Apply writes value at path as of version and marks path dirty. The write
// replaces the whole subtree at path; siblings are untouched. The version is
// taken as is unless [WithMonotonicVersions] is set.
func (r *Replica) Apply(version int64, path string, value any) error {
	r.mu.Lock()
	if r.monotonic && version < r.version {
		current := r.version
		r.mu.Unlock()
		return fmt.Errorf("%w: update %d is older than %d", ErrStaleVersion, version, current)
	}
	if err := r.tree.Set(path, value); err != nil {
		r.mu.Unlock()
		return err
	}
	r.version = version
	r.mu.Unlock()

	r.notifier.markDirty(path)
	return nil
}

// Watch registers cb for every dirty path that starts with prefix. The match
// is a literal string prefix: "data" also matches "database". Callbacks run
// on the replica's scheduler after the mutation that dirtied the path.
func (r *Replica) Watch(prefix string, cb Callback) Unsubscribe {
	return r.registry.watch(prefix, cb)
}

// Multiwatch registers one watcher per entry at once and returns a single
// handle removing all of them.
func (r *Replica) Multiwatch(watches map[string]Callback) Unsubscribe {
	return r.registry.multiwatch(watches)
}

// Version returns the version of the last applied update.
func (r *Replica) Version() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.version
}

// State returns the connection state.
func (r *Replica) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.state
}

// IsOnline reports whether the sync connection is open.
func (r *Replica) IsOnline() bool {
	return r.State() == StateOpen
}

// IsHost reports whether the logged-in user is the host.
func (r *Replica) IsHost() bool {
	return r.login.IsHost()
}

// Name returns the logged-in user's name.
func (r *Replica) Name() string {
	return r.login.Name
}
