package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-lesson-sync/internal/config"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthSvc(t *testing.T, d time.Duration) AuthService {
	t.Helper()
	return NewAuthService(config.App{
		TokenSignKey:  "test-key",
		TokenIssuer:   "test-issuer",
		TokenDuration: d,
	}, logger.Nop())
}

// ── CreateToken ──────────────────────────────────────────────────────────────

func TestAuthService_CreateToken_RoundTrip(t *testing.T) {
	svc := newTestAuthSvc(t, time.Hour)
	ctx := context.Background()

	token, err := svc.CreateToken(ctx, models.Person{Name: "anna", Role: models.RoleHost})
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, "anna", parsed.Name)
	assert.Equal(t, models.RoleHost, parsed.Role)
	assert.Equal(t, "test-issuer", parsed.Issuer)
}

func TestAuthService_CreateToken_DefaultRole(t *testing.T) {
	svc := newTestAuthSvc(t, time.Hour)

	token, err := svc.CreateToken(context.Background(), models.Person{Name: "boris"})

	require.NoError(t, err)
	assert.Equal(t, models.RoleParticipant, token.Role)
}

func TestAuthService_CreateToken_EmptyName(t *testing.T) {
	svc := newTestAuthSvc(t, time.Hour)

	_, err := svc.CreateToken(context.Background(), models.Person{})

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_CreateToken_BadConfig(t *testing.T) {
	// нулевая длительность не позволяет выпустить токен
	svc := newTestAuthSvc(t, 0)

	_, err := svc.CreateToken(context.Background(), models.Person{Name: "anna"})

	assert.ErrorIs(t, err, ErrTokenCreationFailed)
}

// ── ParseToken ───────────────────────────────────────────────────────────────

func TestAuthService_ParseToken_Invalid(t *testing.T) {
	svc := newTestAuthSvc(t, time.Hour)
	other := NewAuthService(config.App{
		TokenSignKey:  "other-key",
		TokenIssuer:   "test-issuer",
		TokenDuration: time.Hour,
	}, logger.Nop())

	foreign, err := other.CreateToken(context.Background(), models.Person{Name: "anna"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "wrong key", token: foreign.SignedString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParseToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
		})
	}
}

func TestAuthService_ParseToken_Expired(t *testing.T) {
	svc := newTestAuthSvc(t, time.Millisecond)

	token, err := svc.CreateToken(context.Background(), models.Person{Name: "anna"})
	require.NoError(t, err)

	// exp has second precision; wait past the next boundary
	time.Sleep(1100 * time.Millisecond)

	_, err = svc.ParseToken(context.Background(), token.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}
