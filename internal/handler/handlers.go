package handler

import (
	"github.com/MKhiriev/go-lesson-sync/internal/config"
	"github.com/MKhiriev/go-lesson-sync/internal/handler/http"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, lessonHub http.LessonHub, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}
	if services == nil || lessonHub == nil {
		return nil, errMissingDependencies
	}

	return &Handlers{
		HTTP: http.NewHandler(services, lessonHub, logger),
	}, nil
}
