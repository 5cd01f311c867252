// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// lesson server and the sync client. It is populated by merging values from
// environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token parameters and the application version.
	App App `envPrefix:"APP_"`

	// Lesson points at the lesson file the server hosts.
	Lesson Lesson `envPrefix:"LESSON_"`

	// Storage holds the change log database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings of the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client's view of the server: where it is, who logs in
	// and how long a bootstrap request may take.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds the client's sync connection settings.
	Sync Sync `envPrefix:"SYNC_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control the
// session token lifecycle and versioning.
type App struct {
	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a JWT token remains valid after
	// issuance (e.g. "8h").
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Lesson holds the lesson the server hosts.
type Lesson struct {
	// File is the path of the JSON lesson file.
	// Env: LESSON_FILE
	File string `env:"FILE"`
}

// Storage groups the configuration for the storage backends.
type Storage struct {
	// DB holds the change log database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the change log database.
type DB struct {
	// DSN selects the driver: "postgres://..." opens PostgreSQL through pgx,
	// anything else is a SQLite file name. Empty keeps the change log in
	// memory only.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single login or data request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// Adapter holds the client's outbound HTTP settings.
type Adapter struct {
	// HTTPAddress is the base address of the lesson server
	// (e.g. "localhost:8080" or "https://lesson.example.com").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the timeout of the login and data requests.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// User is the roster name the client logs in with.
	// Env: ADAPTER_USER
	User string `env:"USER"`
}

// Sync holds the client's sync connection settings.
type Sync struct {
	// DialTimeout bounds the websocket handshake.
	// Env: SYNC_DIAL_TIMEOUT
	DialTimeout time.Duration `env:"DIAL_TIMEOUT"`

	// Reconnect turns on redialling after the connection drops.
	// Env: SYNC_RECONNECT
	Reconnect bool `env:"RECONNECT"`

	// ReconnectBase is the first backoff interval.
	// Env: SYNC_RECONNECT_BASE
	ReconnectBase time.Duration `env:"RECONNECT_BASE"`

	// ReconnectMax caps a single backoff interval.
	// Env: SYNC_RECONNECT_MAX
	ReconnectMax time.Duration `env:"RECONNECT_MAX"`

	// ReconnectAttempts limits the number of redials; 0 is unlimited.
	// Env: SYNC_RECONNECT_ATTEMPTS
	ReconnectAttempts uint64 `env:"RECONNECT_ATTEMPTS"`

	// MonotonicVersions makes the replica drop updates older than its state.
	// Env: SYNC_MONOTONIC_VERSIONS
	MonotonicVersions bool `env:"MONOTONIC_VERSIONS"`
}

// GetStructuredConfig loads and merges the configuration from all available
// sources in the following priority order (last source wins for non-zero
// fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
