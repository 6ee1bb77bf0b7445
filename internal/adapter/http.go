package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/internal/utils"
	"github.com/MKhiriev/hostile-planets/models"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter] for the server at addr, which may be "host:port" or a full
// URL. Requests give up after timeout.
//
// Returns an error if addr is empty or cannot be parsed as a valid URL.
func NewHTTPServerAdapter(addr string, timeout time.Duration, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, timeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Status implements [ServerAdapter]. It fetches GET /api/status.
func (h *httpServerAdapter) Status(ctx context.Context) (models.ServerStatus, error) {
	return get[models.ServerStatus](ctx, h, "/api/status")
}

// Players implements [ServerAdapter]. It fetches GET /api/players.
func (h *httpServerAdapter) Players(ctx context.Context) ([]models.Player, error) {
	players, err := get[[]models.Player](ctx, h, "/api/players")
	if err != nil {
		return nil, err
	}

	h.logger.Debug().Int("players", len(players)).Msg("fetched player list")
	return players, nil
}

// Version implements [ServerAdapter]. It fetches GET /api/version.
func (h *httpServerAdapter) Version(ctx context.Context) (models.BuildVersionResponse, error) {
	return get[models.BuildVersionResponse](ctx, h, "/api/version")
}

// get decodes the JSON body of GET path into a T.
func get[T any](ctx context.Context, h *httpServerAdapter, path string) (T, error) {
	var result T

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get(path)
	if err != nil {
		return result, fmt.Errorf("GET %s: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
