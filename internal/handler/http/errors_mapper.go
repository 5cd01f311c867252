package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-lesson-sync/internal/hub"
	"github.com/MKhiriev/go-lesson-sync/internal/service"
	"github.com/MKhiriev/go-lesson-sync/internal/store"
)

var errorStatusMap = map[error]int{
	ErrEmptyName:   http.StatusBadRequest,
	ErrInvalidFrom: http.StatusBadRequest,

	ErrEmptyToken:                 http.StatusUnauthorized,
	ErrInvalidAuthorizationHeader: http.StatusUnauthorized,

	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrTokenCreationFailed:     http.StatusInternalServerError,

	hub.ErrUnknownUser: http.StatusUnauthorized,
	hub.ErrForbidden:   http.StatusForbidden,

	store.ErrVersionConflict: http.StatusConflict,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
