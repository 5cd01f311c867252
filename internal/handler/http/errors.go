// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors of the request parsing helpers. Callers can match against
// them with [errors.Is].
var (
	// ErrEmptyToken is returned when a protected request carries neither an
	// "Authorization" header nor a "token" query parameter.
	ErrEmptyToken = errors.New("no session token provided")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but is not a bearer token.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyName is returned by login when the "auth" query parameter is
	// missing.
	ErrEmptyName = errors.New("empty `auth` parameter")

	// ErrInvalidFrom is returned when the sync "from" parameter is not a
	// non-negative integer.
	ErrInvalidFrom = errors.New("invalid `from` parameter")
)
