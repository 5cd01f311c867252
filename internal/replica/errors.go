package replica

import "errors"

// Sentinel errors returned or logged by the replica. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrInvalidPath is returned when a path is empty or contains an empty
	// segment ("a//b", "/a", "a/").
	ErrInvalidPath = errors.New("invalid path")

	// ErrNotConnected is returned by Set when the sync connection is not open.
	ErrNotConnected = errors.New("sync connection is not open")

	// ErrProtocol marks an inbound frame that could not be decoded or carried
	// an unknown type. Such frames are logged and dropped.
	ErrProtocol = errors.New("sync protocol error")

	// ErrWatcher marks a watcher callback that panicked during delivery. It is
	// logged; delivery to the other watchers continues.
	ErrWatcher = errors.New("watcher failed")

	// ErrStaleVersion is returned by Apply when monotonic versions are enforced
	// and the update is older than the replica.
	ErrStaleVersion = errors.New("stale version")

	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("replica already started")
)
