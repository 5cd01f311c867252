package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-lesson-sync/internal/config"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/mock"
	"github.com/MKhiriev/go-lesson-sync/internal/replica"
	"github.com/MKhiriev/go-lesson-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// blockingConn держит ReadMessage до Close
type blockingConn struct {
	once   sync.Once
	closed chan struct{}
}

func newBlockingConn() *blockingConn {
	return &blockingConn{closed: make(chan struct{})}
}

func (c *blockingConn) ReadMessage() (int, []byte, error) {
	<-c.closed
	return 0, nil, errors.New("closed")
}

func (c *blockingConn) WriteMessage(int, []byte) error { return nil }

func (c *blockingConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

var hostLogin = models.LoginResponse{Token: "tok", Name: "anna", Role: models.RoleHost}

func initialFrames() []models.Frame {
	return []models.Frame{
		{Type: models.FrameTypeUpdate, Version: 4, Path: "data/at", Data: []byte(`"L1"`)},
		{Type: models.FrameTypeUpdate, Version: 5, Path: "users", Data: []byte(`{"anna":{"online":true}}`)},
	}
}

func TestClientSessionService_Open_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAdapter := mock.NewMockServerAdapter(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gomock.InOrder(
		mockAdapter.EXPECT().Login(ctx, "anna").Return(hostLogin, nil),
		mockAdapter.EXPECT().FetchData(ctx, "tok").Return(initialFrames(), nil),
	)

	conn := newBlockingConn()
	var gotFrom int64 = -1
	dialer := replica.DialerFunc(func(_ context.Context, token string, from int64) (replica.Conn, error) {
		assert.Equal(t, "tok", token)
		gotFrom = from
		return conn, nil
	})

	svc := NewClientSessionService(mockAdapter, dialer, config.ClientSync{}, logger.Nop())
	r, err := svc.Open(ctx, "anna")
	require.NoError(t, err)

	assert.Equal(t, int64(5), gotFrom)
	assert.True(t, r.IsOnline())
	assert.True(t, r.IsHost())

	at, found, err := r.Get("data/at")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "L1", at)

	// отмена контекста закрывает соединение
	cancel()
	select {
	case <-conn.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("connection was not closed on cancel")
	}
}

func TestClientSessionService_Open_LoginFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().Login(ctx, "mallory").Return(models.LoginResponse{}, errors.New("401"))

	svc := NewClientSessionService(mockAdapter, nil, config.ClientSync{}, logger.Nop())
	r, err := svc.Open(ctx, "mallory")

	assert.Nil(t, r)
	assert.ErrorIs(t, err, ErrLoginFailed)
}

func TestClientSessionService_Open_FetchFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().Login(ctx, "anna").Return(hostLogin, nil)
	mockAdapter.EXPECT().FetchData(ctx, "tok").Return(nil, errors.New("boom"))

	svc := NewClientSessionService(mockAdapter, nil, config.ClientSync{}, logger.Nop())
	_, err := svc.Open(ctx, "anna")

	assert.ErrorIs(t, err, ErrFetchDataFailed)
}

func TestClientSessionService_Open_DialFailedKeepsData(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAdapter := mock.NewMockServerAdapter(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mockAdapter.EXPECT().Login(ctx, "anna").Return(hostLogin, nil)
	mockAdapter.EXPECT().FetchData(ctx, "tok").Return(initialFrames(), nil)

	dialErr := errors.New("connection refused")
	dialer := replica.DialerFunc(func(context.Context, string, int64) (replica.Conn, error) {
		return nil, dialErr
	})

	svc := NewClientSessionService(mockAdapter, dialer, config.ClientSync{}, logger.Nop())
	r, err := svc.Open(ctx, "anna")

	require.ErrorIs(t, err, dialErr)
	require.NotNil(t, r)
	assert.False(t, r.IsOnline())
	assert.Equal(t, replica.StateClosed, r.State())
	assert.Equal(t, int64(5), r.Version())
}

func TestClientSessionService_Options(t *testing.T) {
	svc := NewClientSessionService(nil, nil, config.ClientSync{
		MonotonicVersions: true,
		Reconnect:         true,
		ReconnectBase:     time.Second,
	}, logger.Nop()).(*clientSessionService)

	// логгер + монотонные версии + переподключение
	assert.Len(t, svc.options(), 3)

	plain := NewClientSessionService(nil, nil, config.ClientSync{}, logger.Nop()).(*clientSessionService)
	assert.Len(t, plain.options(), 1)
}
