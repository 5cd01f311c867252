package service

import (
	"fmt"

	"github.com/MKhiriev/go-lesson-sync/internal/config"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
)

// Services groups the server-side services.
type Services struct {
	AuthService    AuthService
	AppInfoService AppInfoService
}

func NewServices(cfg *config.ServerConfig, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	return &Services{
		AuthService:    NewAuthService(cfg.App, logger),
		AppInfoService: appInfoService,
	}, nil
}
