package config

import (
	"fmt"
	"time"
)

const (
	defaultAdapterAddress = "localhost:8080"
	defaultRequestTimeout = 15 * time.Second
	defaultDialTimeout    = 10 * time.Second
	defaultReconnectBase  = time.Second
	defaultReconnectMax   = 30 * time.Second
)

// ClientApp holds client-side application settings.
type ClientApp struct {
	// Version is printed with the build info.
	Version string
}

// ClientAdapter holds network settings used by the client bootstrap requests.
type ClientAdapter struct {
	// HTTPAddress is the lesson server address.
	HTTPAddress string
	// RequestTimeout is the timeout of the login and data requests.
	RequestTimeout time.Duration
	// User is the roster name to log in with.
	User string
}

// ClientSync holds the sync connection settings of the client.
type ClientSync struct {
	DialTimeout       time.Duration
	Reconnect         bool
	ReconnectBase     time.Duration
	ReconnectMax      time.Duration
	ReconnectAttempts uint64
	MonotonicVersions bool
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Sync    ClientSync
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return newClientConfig(cfg)
}

// newClientConfig maps the client fields of cfg, fills defaults and validates
// the result.
func newClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	clientCfg := &ClientConfig{
		App: ClientApp{
			Version: cfg.App.Version,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			User:           cfg.Adapter.User,
		},
		Sync: ClientSync{
			DialTimeout:       cfg.Sync.DialTimeout,
			Reconnect:         cfg.Sync.Reconnect,
			ReconnectBase:     cfg.Sync.ReconnectBase,
			ReconnectMax:      cfg.Sync.ReconnectMax,
			ReconnectAttempts: cfg.Sync.ReconnectAttempts,
			MonotonicVersions: cfg.Sync.MonotonicVersions,
		},
	}
	clientCfg.setDefaults()

	if err := clientCfg.validate(); err != nil {
		return nil, err
	}
	return clientCfg, nil
}

func (cfg *ClientConfig) setDefaults() {
	if cfg.Adapter.HTTPAddress == "" {
		cfg.Adapter.HTTPAddress = defaultAdapterAddress
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Sync.DialTimeout == 0 {
		cfg.Sync.DialTimeout = defaultDialTimeout
	}
	if cfg.Sync.ReconnectBase == 0 {
		cfg.Sync.ReconnectBase = defaultReconnectBase
	}
	if cfg.Sync.ReconnectMax == 0 {
		cfg.Sync.ReconnectMax = defaultReconnectMax
	}
}
