// Package utils provides general-purpose helper utilities used across the
// lesson server and the sync client: type-safe context keys, JSON response
// writing, the resty-backed HTTP client, JWT token generation and
// validation, and ID generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-lesson-sync/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// TokenCtxKey is the key under which the auth middleware stores the parsed
// session token.
var TokenCtxKey = contextKey("token")

// WithToken returns a copy of ctx carrying token.
func WithToken(ctx context.Context, token models.Token) context.Context {
	return context.WithValue(ctx, TokenCtxKey, token)
}

// GetTokenFromContext retrieves the session token stored by [WithToken].
//
// ok is false when no token is present or the value has an unexpected type.
func GetTokenFromContext(ctx context.Context) (models.Token, bool) {
	token, ok := ctx.Value(TokenCtxKey).(models.Token)
	return token, ok
}
