package replica

import (
	"time"

	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/workers"
)

// Option configures a [Replica].
type Option func(*Replica)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *logger.Logger) Option {
	return func(r *Replica) {
		if log != nil {
			r.logger = log
		}
	}
}

// WithScheduler runs frame handling and flushes on s instead of a private
// [workers.Loop]. The caller is then responsible for running s.
func WithScheduler(s workers.Scheduler) Option {
	return func(r *Replica) {
		if s != nil {
			r.scheduler = s
			r.loop = nil
		}
	}
}

// WithNoticeHandler sets the function that receives server notices ("s"
// frames). The default logs them at warn level.
func WithNoticeHandler(fn func(message string)) Option {
	return func(r *Replica) {
		if fn != nil {
			r.onNotice = fn
		}
	}
}

// WithMonotonicVersions makes Apply reject updates whose version is lower
// than the replica's current one with [ErrStaleVersion]. Off by default: the
// server is trusted to deliver in order.
func WithMonotonicVersions() Option {
	return func(r *Replica) {
		r.monotonic = true
	}
}

// ReconnectPolicy controls the reconnect extension. After an established
// connection closes, the replica redials with exponential backoff starting
// at Base, each wait capped at Max (when non-zero), giving up after Attempts
// retries (unlimited when zero). Every attempt resumes from the replica's
// current version.
type ReconnectPolicy struct {
	Base     time.Duration
	Max      time.Duration
	Attempts uint64
}

// WithReconnect enables the reconnect extension. Without it a closed
// connection stays closed.
func WithReconnect(p ReconnectPolicy) Option {
	return func(r *Replica) {
		if p.Base <= 0 {
			p.Base = time.Second
		}
		r.reconnect = &p
	}
}
