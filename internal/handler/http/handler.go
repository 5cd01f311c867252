package http

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-lesson-sync/internal/hub"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/replica"
	"github.com/MKhiriev/go-lesson-sync/internal/service"
	"github.com/MKhiriev/go-lesson-sync/models"
)

// maxFrameSize caps a single inbound sync frame.
const maxFrameSize = 1 << 20

// LessonHub is the part of [hub.Hub] the transport talks to.
type LessonHub interface {
	Login(ctx context.Context, name string) (models.LoginResponse, error)
	Frames(ctx context.Context) ([]models.Frame, error)
	Connect(ctx context.Context, name string, from int64, conn replica.Conn) (*hub.Session, error)
}

type Handler struct {
	services *service.Services
	hub      LessonHub
	upgrader websocket.Upgrader

	logger *logger.Logger
}

func NewHandler(services *service.Services, lessonHub LessonHub, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		hub:      lessonHub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// lesson clients are not browsers bound to one origin
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}
