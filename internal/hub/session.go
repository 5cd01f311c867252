package hub

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/sourcegraph/conc"

	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/replica"
	"github.com/MKhiriev/go-lesson-sync/models"
)

// sessionQueueSize bounds the frames waiting for a slow client.
const sessionQueueSize = 256

// Session is the server side of one member's sync connection.
type Session struct {
	hub    *Hub
	name   string
	conn   replica.Conn
	logger *logger.Logger

	// out is written and closed only from the hub loop
	out    chan []byte
	closed bool
}

func newSession(h *Hub, name string, conn replica.Conn, log *logger.Logger) *Session {
	return &Session{
		hub:    h,
		name:   name,
		conn:   conn,
		logger: log.WithComponent("session"),
		out:    make(chan []byte, sessionQueueSize),
	}
}

// Name returns the member the session belongs to.
func (s *Session) Name() string {
	return s.name
}

// Run serves the connection until it closes, the hub drops the session or
// ctx is cancelled. The connection is closed on return.
func (s *Session) Run(ctx context.Context) {
	var wg conc.WaitGroup
	wg.Go(func() { s.writeLoop(ctx) })
	wg.Go(func() { s.readLoop(ctx) })
	wg.Wait()
}

func (s *Session) readLoop(ctx context.Context) {
	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			s.logger.Debug().Err(err).Str("name", s.name).Msg("read stopped")
			s.hub.disconnect(s)
			return
		}
		if mt != websocket.TextMessage {
			s.logger.Warn().Int("type", mt).Str("name", s.name).Msg("ignoring non-text message")
			continue
		}

		if err = s.ingest(ctx, data); err != nil {
			s.logger.Warn().Err(err).Str("name", s.name).Msg("write rejected")
		}
	}
}

// ingest handles one client frame. Only write requests are understood.
func (s *Session) ingest(ctx context.Context, data []byte) error {
	var w models.IncomingWrite
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if err := inputValidator.Validate(ctx, w); err != nil {
		return err
	}

	return s.hub.Update(ctx, s.name, w.Path, w.Value)
}

func (s *Session) writeLoop(ctx context.Context) {
	defer s.conn.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.out:
			if !ok {
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Warn().Err(err).Str("name", s.name).Msg("write failed")
				return
			}
		}
	}
}

// enqueue queues an encoded frame without blocking. It reports false when
// the session is finished or its queue is full. Must run on the hub loop.
func (s *Session) enqueue(frame []byte) bool {
	if s.closed {
		return false
	}
	select {
	case s.out <- frame:
		return true
	default:
		return false
	}
}

// kick sends a notice and finishes the session. Must run on the hub loop.
func (s *Session) kick(message string) {
	if notice, err := json.Marshal(models.NoticeFrame{Message: message}); err == nil {
		s.enqueue(notice)
	}
	s.finish()
}

// finish lets the writer drain the queue and close the connection. Must run
// on the hub loop.
func (s *Session) finish() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.out)
}
