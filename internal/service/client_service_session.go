// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-lesson-sync/internal/adapter"
	"github.com/MKhiriev/go-lesson-sync/internal/config"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/replica"
)

// clientSessionService wires the bootstrap collaborators into a running
// replica.
type clientSessionService struct {
	adapter adapter.ServerAdapter
	dialer  replica.Dialer
	sync    config.ClientSync
	logger  *logger.Logger
}

// NewClientSessionService constructs the client bootstrap. The sync settings
// decide whether replicas it opens use the reconnect and monotonic version
// extensions.
func NewClientSessionService(serverAdapter adapter.ServerAdapter, dialer replica.Dialer, syncCfg config.ClientSync, logger *logger.Logger) ClientSessionService {
	return &clientSessionService{
		adapter: serverAdapter,
		dialer:  dialer,
		sync:    syncCfg,
		logger:  logger,
	}
}

// Open logs in as name, fetches the current state and starts a replica
// seeded with it. opts are applied after the ones derived from config, so
// callers can override them (e.g. to set a notice handler).
//
// The replica stops when ctx is cancelled. A failed connect still returns the
// replica together with the error: it holds the fetched state and reports
// offline.
func (s *clientSessionService) Open(ctx context.Context, name string, opts ...replica.Option) (*replica.Replica, error) {
	login, err := s.adapter.Login(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	frames, err := s.adapter.FetchData(ctx, login.Token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchDataFailed, err)
	}

	r := replica.New(login, s.dialer, append(s.options(), opts...)...)
	if err = r.Start(ctx, frames); err != nil {
		return r, fmt.Errorf("start replica: %w", err)
	}

	s.logger.Info().
		Str("name", login.Name).
		Str("role", login.Role).
		Int64("version", r.Version()).
		Msg("replica started")
	return r, nil
}

func (s *clientSessionService) options() []replica.Option {
	opts := []replica.Option{replica.WithLogger(s.logger)}
	if s.sync.MonotonicVersions {
		opts = append(opts, replica.WithMonotonicVersions())
	}
	if s.sync.Reconnect {
		opts = append(opts, replica.WithReconnect(replica.ReconnectPolicy{
			Base:     s.sync.ReconnectBase,
			Max:      s.sync.ReconnectMax,
			Attempts: s.sync.ReconnectAttempts,
		}))
	}
	return opts
}
