package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MKhiriev/go-lesson-sync/internal/config"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/replica"
	"github.com/MKhiriev/go-lesson-sync/internal/utils"
	"github.com/gorilla/websocket"
)

// SyncPath is the websocket endpoint of the lesson server.
const SyncPath = "/s/sync"

// maxFrameSize bounds a single inbound frame.
const maxFrameSize = 1 << 20

// WebsocketDialer opens sync connections with gorilla/websocket. It
// implements [replica.Dialer].
type WebsocketDialer struct {
	client *utils.HTTPClient
	dialer *websocket.Dialer
	logger *logger.Logger
}

// NewWebsocketDialer builds a dialer for the server at
// adapterCfg.HTTPAddress; syncCfg.DialTimeout bounds the handshake.
func NewWebsocketDialer(adapterCfg config.ClientAdapter, syncCfg config.ClientSync, logger *logger.Logger) (*WebsocketDialer, error) {
	client, err := utils.NewHTTPClient(adapterCfg.HTTPAddress, adapterCfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &WebsocketDialer{
		client: client,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: syncCfg.DialTimeout,
		},
		logger: logger,
	}, nil
}

// Dial implements [replica.Dialer]. It connects to /s/sync?token=&from= and
// maps a rejected handshake to the adapter's sentinel errors.
func (d *WebsocketDialer) Dial(ctx context.Context, token string, from int64) (replica.Conn, error) {
	target := d.client.WebsocketURL(SyncPath, url.Values{
		"token": {token},
		"from":  {strconv.FormatInt(from, 10)},
	})

	conn, resp, err := d.dialer.DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			if mapped := mapStatus(resp.StatusCode, nil); mapped != nil {
				return nil, fmt.Errorf("websocket dial: %w", mapped)
			}
		}
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	conn.SetReadLimit(maxFrameSize)

	d.logger.Debug().Int64("from", from).Msg("sync websocket dialled")
	return conn, nil
}
