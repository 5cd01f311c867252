package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/MKhiriev/go-lesson-sync/internal/logger"
)

type httpServer struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          *logger.Logger
}

func (h *httpServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		return fmt.Errorf("http listen on %s: %w", h.server.Addr, err)
	}
	return h.Serve(ctx, ln)
}

func (h *httpServer) Serve(ctx context.Context, ln net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		h.logger.Info().Str("address", ln.Addr().String()).Msg("launching HTTP server")
		serveErr <- h.server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()

	// hijacked sync connections are closed by the hub, not here
	if err := h.server.Shutdown(shutdownCtx); err != nil {
		h.logger.Err(err).Msg("HTTP server shutdown")
		return fmt.Errorf("http shutdown: %w", err)
	}

	h.logger.Info().Msg("HTTP server shut down gracefully")
	return nil
}
