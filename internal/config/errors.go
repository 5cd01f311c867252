package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, missing server address or roster name).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidAppConfigs indicates invalid token settings (for example, a
	// missing sign key).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidLessonConfigs indicates a missing lesson file.
	ErrInvalidLessonConfigs = errors.New("invalid lesson configuration")
	// ErrInvalidServerConfigs indicates invalid listener settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidSyncConfigs indicates inconsistent reconnect settings.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)
