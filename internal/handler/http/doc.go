// Package http implements the HTTP transport of the lesson server.
//
// It exposes the login and snapshot endpoints, upgrades the sync endpoint to
// a websocket and hands the connection to the lesson hub. Request tracing,
// access logging, compression and token checks are handled here before a
// request reaches the hub or the service layer.
package http
