// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks the server view after defaults have been applied.
func (cfg *ServerConfig) validate() error {
	if cfg.App.TokenSignKey == "" || cfg.App.TokenDuration < 0 {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}

	if cfg.Lesson.File == "" {
		return fmt.Errorf("%w: lesson file is required", ErrInvalidLessonConfigs)
	}

	if cfg.Server.RequestTimeout < 0 || cfg.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidServerConfigs)
	}

	return nil
}

// validate checks the client view after defaults have been applied.
func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.User == "" {
		return fmt.Errorf("%w: user name is required", ErrInvalidAdapterConfigs)
	}

	if cfg.Adapter.RequestTimeout < 0 {
		return fmt.Errorf("%w: negative request timeout", ErrInvalidAdapterConfigs)
	}

	if cfg.Sync.DialTimeout < 0 || cfg.Sync.ReconnectBase < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidSyncConfigs)
	}

	if cfg.Sync.ReconnectMax < cfg.Sync.ReconnectBase {
		return fmt.Errorf("%w: reconnect max %s is below base %s",
			ErrInvalidSyncConfigs, cfg.Sync.ReconnectMax, cfg.Sync.ReconnectBase)
	}

	return nil
}
