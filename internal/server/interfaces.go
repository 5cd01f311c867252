package server

import (
	"context"
	"net"
)

// Server defines the lifecycle contract of a transport server.
//
// Run blocks until ctx is cancelled or serving fails. Cancellation triggers
// a graceful shutdown and is not reported as an error.
type Server interface {
	Run(ctx context.Context) error
	Serve(ctx context.Context, ln net.Listener) error
}
