package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT issued to a roster member.
//
// It embeds [jwt.RegisteredClaims] for the standard claims; the subject
// carries the member name. Role is a private claim so the server can tell a
// host from a participant without consulting the roster again.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// Role is the member role at the time the token was issued.
	Role string `json:"role"`

	// SignedString is the compact JWS form handed to the client.
	SignedString string `json:"-"`

	// Name is a cached copy of the subject claim.
	Name string `json:"-"`
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
