package replica

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-lesson-sync/models"
	"github.com/gorilla/websocket"
)

// manualScheduler lets a test decide when posted and deferred work runs, so
// "after the current tick" is observable.
type manualScheduler struct {
	posted chan func()

	mu       sync.Mutex
	deferred []func()
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{posted: make(chan func(), 64)}
}

func (s *manualScheduler) Post(ctx context.Context, task func()) error {
	select {
	case s.posted <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *manualScheduler) Defer(task func()) {
	s.mu.Lock()
	s.deferred = append(s.deferred, task)
	s.mu.Unlock()
}

// Tick runs deferred tasks until none are left.
func (s *manualScheduler) Tick() {
	for {
		s.mu.Lock()
		if len(s.deferred) == 0 {
			s.mu.Unlock()
			return
		}
		next := s.deferred[0]
		s.deferred = s.deferred[1:]
		s.mu.Unlock()

		next()
	}
}

func (s *manualScheduler) pendingDeferred() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.deferred)
}

// Step waits for one posted task, runs it and then ticks.
func (s *manualScheduler) Step(t *testing.T) {
	t.Helper()

	select {
	case task := <-s.posted:
		task()
		s.Tick()
	case <-time.After(2 * time.Second):
		t.Fatal("no task was posted")
	}
}

var errConnClosed = errors.New("use of closed network connection")

// fakeConn is an in-memory sync connection. Push feeds inbound frames;
// Close (from either side) ends the read loop.
type fakeConn struct {
	inbound   chan []byte
	closed    chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	written [][]byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 16),
		closed:  make(chan struct{}),
	}
}

func (c *fakeConn) Push(frame string) {
	c.inbound <- []byte(frame)
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case <-c.closed:
		return 0, nil, errConnClosed
	default:
	}

	select {
	case msg := <-c.inbound:
		return websocket.TextMessage, msg, nil
	case <-c.closed:
		return 0, nil, errConnClosed
	}
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	select {
	case <-c.closed:
		return errConnClosed
	default:
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) Written() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([][]byte(nil), c.written...)
}

// fakeDialer hands out the queued connections in order and records the
// resume cursor of every dial.
type fakeDialer struct {
	mu       sync.Mutex
	conns    []Conn
	err      error
	failNext int
	froms    []int64
	token    string
}

// FailNext makes the next n dials fail before queued connections are used.
func (d *fakeDialer) FailNext(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.failNext = n
}

func (d *fakeDialer) Dial(_ context.Context, token string, from int64) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.froms = append(d.froms, from)
	d.token = token
	if d.err != nil {
		return nil, d.err
	}
	if d.failNext > 0 {
		d.failNext--
		return nil, errors.New("connection refused")
	}
	if len(d.conns) == 0 {
		return nil, errors.New("connection refused")
	}
	c := d.conns[0]
	d.conns = d.conns[1:]
	return c, nil
}

func (d *fakeDialer) Froms() []int64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]int64(nil), d.froms...)
}

var hostLogin = models.LoginResponse{Token: "tok-host", Name: "anna", Role: models.RoleHost}

func newTestReplica(t *testing.T, dialer Dialer, opts ...Option) (*Replica, *manualScheduler) {
	t.Helper()

	s := newManualScheduler()
	if dialer == nil {
		dialer = &fakeDialer{}
	}
	r := New(hostLogin, dialer, append([]Option{WithScheduler(s)}, opts...)...)
	return r, s
}

// recorder collects callback arguments; callbacks run on the test goroutine
// under manualScheduler.
type recorder struct {
	paths []string
}

func (r *recorder) cb(path string) {
	r.paths = append(r.paths, path)
}
