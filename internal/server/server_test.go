package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-lesson-sync/internal/config"
	"github.com/MKhiriev/go-lesson-sync/internal/handler"
	"github.com/MKhiriev/go-lesson-sync/internal/hub"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/service"
)

func testHandlers(t *testing.T) *handler.Handlers {
	t.Helper()
	services, err := service.NewServices(&config.ServerConfig{
		App: config.App{TokenSignKey: "k", TokenIssuer: "i", TokenDuration: time.Hour, Version: "0.1.0"},
	}, logger.Nop())
	require.NoError(t, err)

	// the health route does not reach the hub
	handlers, err := handler.NewHandlers(services, &hub.Hub{}, config.Server{HTTPAddress: ":0"}, logger.Nop())
	require.NoError(t, err)
	return handlers
}

func TestNewServer_Errors(t *testing.T) {
	_, err := NewServer(nil, config.Server{HTTPAddress: ":0"}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)

	_, err = NewServer(testHandlers(t), config.Server{}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	srv, err := NewServer(testHandlers(t), config.Server{HTTPAddress: ":0", ShutdownTimeout: time.Second}, logger.Nop())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","version":"0.1.0"}`, string(body))

	cancel()
	select {
	case err = <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// адрес уже занят
	srv, err := NewServer(testHandlers(t), config.Server{HTTPAddress: ln.Addr().String(), ShutdownTimeout: time.Second}, logger.Nop())
	require.NoError(t, err)

	err = srv.Run(context.Background())
	assert.ErrorContains(t, err, "http listen")
}
