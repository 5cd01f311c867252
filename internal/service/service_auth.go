package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-lesson-sync/internal/config"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/utils"
	"github.com/MKhiriev/go-lesson-sync/models"
)

// authService is the concrete implementation of AuthService.
// Tokens are HS256 JWTs whose subject is the member name and whose "role"
// claim is the member role.
type authService struct {
	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService populated with token
// parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// CreateToken issues a signed JWT for the given roster member. An empty role
// is issued as [models.RoleParticipant].
//
// Returns ErrInvalidDataProvided for a nameless person, or a wrapped
// ErrTokenCreationFailed if signing fails.
func (a *authService) CreateToken(ctx context.Context, person models.Person) (models.Token, error) {
	if person.Name == "" {
		logger.FromContext(ctx).Error().Msg("token requested for an empty name")
		return models.Token{}, ErrInvalidDataProvided
	}

	role := person.Role
	if role == "" {
		role = models.RoleParticipant
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, person.Name, role, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// Any validation failure (expired, wrong issuer, malformed) is normalised to
// ErrTokenIsExpiredOrInvalid so that callers do not need to inspect low-level
// JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
