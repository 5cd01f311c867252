package config

import (
	"fmt"
	"time"
)

const (
	defaultServerAddress   = ":8080"
	defaultTokenIssuer     = "go-lesson-sync"
	defaultTokenDuration   = 12 * time.Hour
	defaultShutdownTimeout = 10 * time.Second
)

// ServerConfig is the lesson server configuration assembled from
// [StructuredConfig].
type ServerConfig struct {
	App     App
	Lesson  Lesson
	Storage Storage
	Server  Server
}

// GetServerConfig builds and validates the server config view from the
// merged structured configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return newServerConfig(cfg)
}

func newServerConfig(cfg *StructuredConfig) (*ServerConfig, error) {
	serverCfg := &ServerConfig{
		App:     cfg.App,
		Lesson:  cfg.Lesson,
		Storage: cfg.Storage,
		Server:  cfg.Server,
	}
	serverCfg.setDefaults()

	if err := serverCfg.validate(); err != nil {
		return nil, err
	}
	return serverCfg, nil
}

func (cfg *ServerConfig) setDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = defaultServerAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = defaultTokenIssuer
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = defaultTokenDuration
	}
}
