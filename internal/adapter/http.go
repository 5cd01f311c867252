package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-lesson-sync/internal/config"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/utils"
	"github.com/MKhiriev/go-lesson-sync/models"
)

// snapshotVersionKey is the member of a snapshot object that carries the
// version instead of a tree value.
const snapshotVersionKey = "version"

type httpServerAdapter struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPServerAdapter constructs the resty-backed [ServerAdapter] for the
// server at adapterCfg.HTTPAddress. Returns an error if the address is empty
// or cannot be parsed as a URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	client, err := utils.NewHTTPClient(adapterCfg.HTTPAddress, adapterCfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpServerAdapter{client: client, logger: logger}, nil
}

// Login implements [ServerAdapter] with GET /s/login?auth=<name>.
func (h *httpServerAdapter) Login(ctx context.Context, name string) (models.LoginResponse, error) {
	var login models.LoginResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("auth", name).
		SetResult(&login).
		Get("/s/login")
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.LoginResponse{}, err
	}

	if login.Token == "" {
		return models.LoginResponse{}, fmt.Errorf("%w: login without token", ErrBadResponse)
	}
	if login.Name == "" {
		login.Name = name
	}

	h.logger.Debug().Str("name", login.Name).Str("role", login.Role).Msg("logged in")
	return login, nil
}

// FetchData implements [ServerAdapter] with GET /s/data?token=<token>.
func (h *httpServerAdapter) FetchData(ctx context.Context, token string) ([]models.Frame, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("token", token).
		Get("/s/data")
	if err != nil {
		return nil, fmt.Errorf("fetch data request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	frames, err := decodeData(resp.Body())
	if err != nil {
		return nil, err
	}

	h.logger.Debug().Int("frames", len(frames)).Msg("initial data fetched")
	return frames, nil
}

// decodeData accepts either a JSON array of update frames or a flat snapshot
// object {"version": n, "<path>": value, ...}. Snapshot entries become update
// frames stamped with n, ordered by path.
func decodeData(body []byte) ([]models.Frame, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrBadResponse)
	}

	switch body[0] {
	case '[':
		var frames []models.Frame
		if err := json.Unmarshal(body, &frames); err != nil {
			return nil, fmt.Errorf("%w: decode frames: %w", ErrBadResponse, err)
		}
		return frames, nil

	case '{':
		var snapshot map[string]json.RawMessage
		if err := json.Unmarshal(body, &snapshot); err != nil {
			return nil, fmt.Errorf("%w: decode snapshot: %w", ErrBadResponse, err)
		}

		var version int64
		if raw, ok := snapshot[snapshotVersionKey]; ok {
			if err := json.Unmarshal(raw, &version); err != nil {
				return nil, fmt.Errorf("%w: decode snapshot version: %w", ErrBadResponse, err)
			}
			delete(snapshot, snapshotVersionKey)
		}

		paths := make([]string, 0, len(snapshot))
		for p := range snapshot {
			paths = append(paths, p)
		}
		slices.Sort(paths)

		frames := make([]models.Frame, 0, len(paths))
		for _, p := range paths {
			frames = append(frames, models.Frame{
				Type:    models.FrameTypeUpdate,
				Version: version,
				Path:    p,
				Data:    snapshot[p],
			})
		}
		return frames, nil

	default:
		return nil, fmt.Errorf("%w: data is neither an array nor an object", ErrBadResponse)
	}
}
