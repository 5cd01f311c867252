package utils

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly and adds the
// base-URL handling the lesson client needs for both plain requests and the
// websocket handshake.
type HTTPClient struct {
	*resty.Client

	baseURL *url.URL
}

// NewHTTPClient creates a client for the server at address. A bare
// "host:port" is treated as http. A non-positive timeout leaves resty's
// default in place.
//
// Example usage:
//
//	client, err := utils.NewHTTPClient("localhost:8080", 15*time.Second)
//	resp, err := client.R().SetQueryParam("auth", "anna").Get("/s/login")
func NewHTTPClient(address string, timeout time.Duration) (*HTTPClient, error) {
	base, err := NormalizeBaseURL(address)
	if err != nil {
		return nil, err
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(base.String(), "/")).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPClient{Client: client, baseURL: base}, nil
}

// WebsocketURL returns the ws:// (or wss:// for https) URL of path on the
// client's server with query attached.
func (c *HTTPClient) WebsocketURL(path string, query url.Values) string {
	u := *c.baseURL
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()

	return u.String()
}

// NormalizeBaseURL parses raw as a server base URL, adding "http://" when the
// scheme is missing.
func NormalizeBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("address must include host and scheme")
	}

	return u, nil
}
