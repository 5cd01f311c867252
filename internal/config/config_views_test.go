package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── server ────────────────────────────────────────────────────────────────────

func TestNewServerConfig_Defaults(t *testing.T) {
	cfg, err := newServerConfig(&StructuredConfig{
		App:    App{TokenSignKey: "secret"},
		Lesson: Lesson{File: "lesson.json"},
	})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "go-lesson-sync", cfg.App.TokenIssuer)
	assert.Equal(t, 12*time.Hour, cfg.App.TokenDuration)
	assert.Empty(t, cfg.Storage.DB.DSN)
}

func TestNewServerConfig_KeepsExplicitValues(t *testing.T) {
	cfg, err := newServerConfig(&StructuredConfig{
		App:     App{TokenSignKey: "secret", TokenIssuer: "school", TokenDuration: time.Hour},
		Lesson:  Lesson{File: "lesson.json"},
		Storage: Storage{DB: DB{DSN: "changes.db"}},
		Server:  Server{HTTPAddress: "127.0.0.1:9000", RequestTimeout: time.Second},
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.HTTPAddress)
	assert.Equal(t, time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "school", cfg.App.TokenIssuer)
	assert.Equal(t, time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, "changes.db", cfg.Storage.DB.DSN)
}

func TestNewServerConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StructuredConfig
		wantErr error
	}{
		{
			name:    "missing sign key",
			cfg:     StructuredConfig{Lesson: Lesson{File: "lesson.json"}},
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "missing lesson file",
			cfg:     StructuredConfig{App: App{TokenSignKey: "secret"}},
			wantErr: ErrInvalidLessonConfigs,
		},
		{
			name: "negative timeout",
			cfg: StructuredConfig{
				App:    App{TokenSignKey: "secret"},
				Lesson: Lesson{File: "lesson.json"},
				Server: Server{ShutdownTimeout: -time.Second},
			},
			wantErr: ErrInvalidServerConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := newServerConfig(&tt.cfg)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ── client ────────────────────────────────────────────────────────────────────

func TestNewClientConfig_Defaults(t *testing.T) {
	cfg, err := newClientConfig(&StructuredConfig{Adapter: Adapter{User: "anna"}})
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 15*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "anna", cfg.Adapter.User)
	assert.Equal(t, 10*time.Second, cfg.Sync.DialTimeout)
	assert.Equal(t, time.Second, cfg.Sync.ReconnectBase)
	assert.Equal(t, 30*time.Second, cfg.Sync.ReconnectMax)
	assert.False(t, cfg.Sync.Reconnect)
	assert.False(t, cfg.Sync.MonotonicVersions)
}

func TestNewClientConfig_MapsSync(t *testing.T) {
	cfg, err := newClientConfig(&StructuredConfig{
		App:     App{Version: "0.1.0"},
		Adapter: Adapter{User: "bob", HTTPAddress: "https://lesson.example.com"},
		Sync: Sync{
			DialTimeout:       time.Second,
			Reconnect:         true,
			ReconnectBase:     100 * time.Millisecond,
			ReconnectMax:      time.Second,
			ReconnectAttempts: 5,
			MonotonicVersions: true,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "0.1.0", cfg.App.Version)
	assert.Equal(t, "https://lesson.example.com", cfg.Adapter.HTTPAddress)
	assert.Equal(t, ClientSync{
		DialTimeout:       time.Second,
		Reconnect:         true,
		ReconnectBase:     100 * time.Millisecond,
		ReconnectMax:      time.Second,
		ReconnectAttempts: 5,
		MonotonicVersions: true,
	}, cfg.Sync)
}

func TestNewClientConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StructuredConfig
		wantErr error
	}{
		{
			name:    "missing user",
			cfg:     StructuredConfig{},
			wantErr: ErrInvalidAdapterConfigs,
		},
		{
			name: "max below base",
			cfg: StructuredConfig{
				Adapter: Adapter{User: "anna"},
				Sync:    Sync{ReconnectBase: time.Minute, ReconnectMax: time.Second},
			},
			wantErr: ErrInvalidSyncConfigs,
		},
		{
			name: "negative dial timeout",
			cfg: StructuredConfig{
				Adapter: Adapter{User: "anna"},
				Sync:    Sync{DialTimeout: -time.Second},
			},
			wantErr: ErrInvalidSyncConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := newClientConfig(&tt.cfg)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
