package http

import (
	"net/http"

	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/service"
	"github.com/MKhiriev/go-lesson-sync/internal/utils"
)

// auth is an HTTP middleware that enforces token authentication.
//
// The token is taken from an "Authorization: Bearer" header or, since
// websocket clients cannot always set headers, from the "token" query
// parameter. It is validated via [service.AuthService.ParseToken] and the
// parsed [models.Token] is stored in the request context with
// [utils.WithToken].
//
// Requests without a valid token are rejected with 401 Unauthorized.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := tokenFromRequest(r)
		if err != nil {
			log.Err(err).Send()
			utils.WriteError(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("error occurred during parsing token")
			utils.WriteError(w, service.ErrTokenIsExpiredOrInvalid.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithToken(ctx, token)))
	})
}

// tokenFromRequest returns the raw session token of r. The header wins over
// the query parameter.
func tokenFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, err := utils.ParseBearerToken(header)
		if err != nil {
			return "", ErrInvalidAuthorizationHeader
		}
		return token, nil
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}

	return "", ErrEmptyToken
}
