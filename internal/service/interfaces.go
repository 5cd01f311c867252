package service

import (
	"context"

	"github.com/MKhiriev/go-lesson-sync/internal/replica"
	"github.com/MKhiriev/go-lesson-sync/models"
)

// AuthService issues and verifies the session tokens of roster members.
type AuthService interface {
	CreateToken(ctx context.Context, person models.Person) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// AppInfoService reports build information over the health endpoint.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// ClientSessionService performs the client bootstrap: login, initial data
// fetch and replica start.
type ClientSessionService interface {
	Open(ctx context.Context, name string, opts ...replica.Option) (*replica.Replica, error)
}
