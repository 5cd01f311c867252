package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-lesson-sync/internal/config"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/service"
	"github.com/MKhiriev/go-lesson-sync/internal/store"
	"github.com/MKhiriev/go-lesson-sync/models"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

var errConnClosed = errors.New("connection closed")

// seqIDs выдаёт предсказуемые идентификаторы id-1, id-2, ...
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// fakeConn is the client end of a session. Send feeds frames to the hub;
// Next returns what the hub wrote.
type fakeConn struct {
	in      chan []byte
	written chan []byte

	once   sync.Once
	closed chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:      make(chan []byte, 16),
		written: make(chan []byte, 64),
		closed:  make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case data := <-c.in:
		return websocket.TextMessage, data, nil
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
	c.written <- append([]byte(nil), data...)
	return nil
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) Send(frame string) {
	c.in <- []byte(frame)
}

// Next returns the next frame the hub wrote.
func (c *fakeConn) Next(t *testing.T) models.Frame {
	t.Helper()
	select {
	case data := <-c.written:
		var f models.Frame
		require.NoError(t, json.Unmarshal(data, &f))
		return f
	case <-time.After(waitTimeout):
		t.Fatal("no frame written")
		return models.Frame{}
	}
}

// NextAt skips frames until one for path arrives.
func (c *fakeConn) NextAt(t *testing.T, path string) models.Frame {
	t.Helper()
	for {
		if f := c.Next(t); f.Path == path {
			return f
		}
	}
}

func (c *fakeConn) WaitClosed(t *testing.T) {
	t.Helper()
	select {
	case <-c.closed:
	case <-time.After(waitTimeout):
		t.Fatal("connection not closed")
	}
}

func testLesson() models.LessonFile {
	return models.LessonFile{
		Title: "Go basics",
		Lines: []models.LessonLine{{Text: "package main"}, {Text: "func main() {}"}},
		People: []models.Person{
			{Name: "anna", Role: models.RoleHost},
			{Name: "boris"},
		},
	}
}

func testAuth() service.AuthService {
	return service.NewAuthService(config.App{
		TokenSignKey:  "test-key",
		TokenIssuer:   "test",
		TokenDuration: time.Hour,
	}, logger.Nop())
}

type testHub struct {
	*Hub
	changes store.ChangeRepository
	ctx     context.Context
}

// startHub runs a hub over changes until the test ends.
func startHub(t *testing.T, changes store.ChangeRepository) *testHub {
	t.Helper()
	if changes == nil {
		changes = store.NewMemoryChangeRepository()
	}

	h, err := New(testLesson(), testAuth(), changes, &seqIDs{}, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return &testHub{Hub: h, changes: changes, ctx: ctx}
}

// connect attaches a fresh fake connection for name and serves it.
func (h *testHub) connect(t *testing.T, name string, from int64) *fakeConn {
	t.Helper()
	conn := newFakeConn()

	s, err := h.Connect(context.Background(), name, from, conn)
	require.NoError(t, err)
	go s.Run(h.ctx)

	return conn
}

func decodeData(t *testing.T, f models.Frame) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal(f.Data, &v))
	return v
}
