package replica

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-lesson-sync/models"
	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"
)

// Start applies the initial data (normally fetched with the data endpoint),
// then opens the sync connection resuming from the highest applied version.
//
// The owned scheduler, if any, runs until ctx is cancelled; cancelling ctx
// also closes the connection. A dial failure leaves the replica closed and
// is returned; the initial data stays readable.
func (r *Replica) Start(ctx context.Context, initial []models.Frame) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.started = true
	r.runCtx = ctx
	r.mu.Unlock()

	if r.loop != nil {
		go func() {
			if err := r.loop.Run(ctx); err != nil && !errors.Is(err, ctx.Err()) {
				r.logger.Err(err).Msg("replica loop stopped")
			}
			// the loop is gone, so the offline notice is flushed here
			_ = r.Close()
			r.notifier.flush()
		}()
	} else {
		context.AfterFunc(ctx, func() { _ = r.Close() })
	}

	for _, f := range initial {
		if f.Type != models.FrameTypeUpdate {
			continue
		}
		if err := r.applyFrame(f); err != nil {
			return fmt.Errorf("apply initial data: %w", err)
		}
	}

	return r.connect(ctx)
}

// Set asks the server to write value at path. The replica is not changed:
// the value shows up once the server broadcasts the resulting update.
func (r *Replica) Set(path string, value any) error {
	if _, err := splitPath(path); err != nil {
		return err
	}

	r.mu.RLock()
	conn, state := r.conn, r.state
	r.mu.RUnlock()

	if state != StateOpen || conn == nil {
		return ErrNotConnected
	}

	payload, err := json.Marshal(models.NewWriteFrame(path, value))
	if err != nil {
		return fmt.Errorf("encode write frame: %w", err)
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if err = conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("send write frame: %w", err)
	}
	return nil
}

// Close closes the sync connection. The replica goes offline at once and
// "online" watchers are told on the next flush. Reads keep working on the
// last known state. Close is idempotent and disables reconnecting.
func (r *Replica) Close() error {
	r.mu.Lock()
	r.closing = true
	conn := r.conn
	r.conn = nil
	wasOpen := r.state == StateOpen
	if r.state != StateDisconnected {
		r.state = StateClosed
	}
	r.mu.Unlock()

	if conn == nil {
		return nil
	}
	if wasOpen {
		r.notifier.markDirty(OnlinePath)
	}

	if err := conn.Close(); err != nil {
		return fmt.Errorf("close sync connection: %w", err)
	}
	return nil
}

func (r *Replica) connect(ctx context.Context) error {
	r.setState(StateConnecting)

	conn, err := r.dialer.Dial(ctx, r.login.Token, r.Version())
	if err != nil {
		// never went online, so "online" watchers have nothing to hear
		r.setState(StateClosed)
		return fmt.Errorf("dial sync: %w", err)
	}

	r.mu.Lock()
	if r.closing {
		r.state = StateClosed
		r.mu.Unlock()
		_ = conn.Close()
		return fmt.Errorf("dial sync: %w", ErrNotConnected)
	}
	r.conn = conn
	r.state = StateOpen
	r.mu.Unlock()

	r.logger.Info().Int64("from", r.Version()).Msg("sync connection open")
	r.notifier.markDirty(OnlinePath)

	go r.readLoop(ctx, conn)
	return nil
}

func (r *Replica) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// readLoop hands every inbound message to the scheduler, in arrival order.
func (r *Replica) readLoop(ctx context.Context, conn Conn) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			r.logger.Debug().Err(err).Msg("sync connection read ended")
			r.post(ctx, func() { r.onClose(conn) })
			return
		}

		if messageType != websocket.TextMessage {
			r.logger.Debug().Int("message_type", messageType).Msg("ignoring non-text message")
			continue
		}

		if err = r.scheduler.Post(ctx, func() { r.handleFrame(data) }); err != nil {
			r.onClose(conn)
			return
		}
	}
}

// post runs task on the scheduler, or inline when the scheduler is gone.
func (r *Replica) post(ctx context.Context, task func()) {
	if err := r.scheduler.Post(ctx, task); err != nil {
		task()
	}
}

func (r *Replica) onClose(conn Conn) {
	r.mu.Lock()
	if r.conn != conn {
		// already replaced or closed by Close
		r.mu.Unlock()
		return
	}
	r.conn = nil
	r.state = StateClosed
	reconnect := r.reconnect != nil && !r.closing
	ctx := r.runCtx
	r.mu.Unlock()

	_ = conn.Close()
	r.logger.Info().Msg("sync connection closed")
	r.notifier.markDirty(OnlinePath)

	if reconnect {
		go r.reconnectLoop(ctx)
	}
}

func (r *Replica) handleFrame(data []byte) {
	var f models.Frame
	if err := json.Unmarshal(data, &f); err != nil {
		r.logger.Err(fmt.Errorf("%w: %w", ErrProtocol, err)).Msg("dropping malformed frame")
		return
	}

	switch f.Type {
	case models.FrameTypeNotice:
		r.onNotice(f.Message)
	case models.FrameTypeUpdate:
		if err := r.applyFrame(f); err != nil {
			r.logger.Err(err).Str("path", f.Path).Int64("version", f.Version).Msg("dropping update")
		}
	default:
		r.logger.Err(fmt.Errorf("%w: unknown frame type %q", ErrProtocol, f.Type)).Msg("dropping frame")
	}
}

func (r *Replica) applyFrame(f models.Frame) error {
	value, err := decodeJSON(f.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProtocol, err)
	}
	return r.Apply(f.Version, f.Path, value)
}

func (r *Replica) isClosing() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.closing
}

func (r *Replica) reconnectLoop(ctx context.Context) {
	p := r.reconnect

	b := retry.NewExponential(p.Base)
	if p.Max > 0 {
		b = retry.WithCappedDuration(p.Max, b)
	}
	if p.Attempts > 0 {
		b = retry.WithMaxRetries(p.Attempts, b)
	}

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if r.isClosing() {
			return nil
		}
		if err := r.connect(ctx); err != nil {
			r.logger.Warn().Err(err).Msg("reconnect attempt failed")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		r.logger.Err(err).Msg("giving up on reconnecting")
	}
}
