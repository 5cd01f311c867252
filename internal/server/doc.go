// Package server runs the HTTP transport of the lesson server.
//
// The server is a [workers.Worker]: it starts serving when run and shuts
// down gracefully when its context is cancelled, so it shares one lifecycle
// with the lesson hub.
package server
