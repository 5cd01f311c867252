package service

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-lesson-sync/internal/config"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppInfoService_EmptyVersion_ReturnsError(t *testing.T) {
	svc, err := NewAppInfoService(config.App{}, logger.Nop())

	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrVersionIsNotSpecified)
}

func TestGetAppVersion_ReturnsConfiguredVersion(t *testing.T) {
	svc, err := NewAppInfoService(config.App{Version: "3.1.4"}, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "3.1.4", svc.GetAppVersion(context.Background()))
}

func TestNewServices(t *testing.T) {
	cfg := &config.ServerConfig{App: config.App{Version: "1.0.0", TokenSignKey: "k"}}

	services, err := NewServices(cfg, logger.Nop())
	require.NoError(t, err)
	assert.NotNil(t, services.AuthService)
	assert.Equal(t, "1.0.0", services.AppInfoService.GetAppVersion(context.Background()))

	_, err = NewServices(&config.ServerConfig{}, logger.Nop())
	assert.ErrorIs(t, err, ErrVersionIsNotSpecified)
}
