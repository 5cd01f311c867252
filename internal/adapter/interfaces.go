// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client's transport to the lesson server.
//
// [ServerAdapter] covers the two bootstrap requests made before a replica
// starts (login and the initial data fetch) over HTTP with resty.
// [WebsocketDialer] opens the sync connection itself with gorilla/websocket
// and satisfies [replica.Dialer].
//
// HTTP status codes are mapped to the sentinel errors in errors.go by
// mapHTTPError so that callers can use [errors.Is] (e.g. [ErrUnauthorized]
// for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-lesson-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines the bootstrap exchange with the lesson server.
type ServerAdapter interface {
	// Login exchanges a roster name for a session token and role. An unknown
	// name yields [ErrUnauthorized].
	Login(ctx context.Context, name string) (models.LoginResponse, error)

	// FetchData returns the current server state as update frames, ready to
	// seed a replica. The server may answer with an array of frames or with
	// a flat snapshot object; both decode to the same result.
	FetchData(ctx context.Context, token string) ([]models.Frame, error)
}
