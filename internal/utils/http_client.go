package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client used by the
// game client to query a server's REST API.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates a client for baseURL (e.g. "http://127.0.0.1:8080")
// that expects JSON and gives up after timeout. A zero timeout leaves
// resty's default.
//
// Example usage:
//
//	client := utils.NewHTTPClient("http://127.0.0.1:8080", 5*time.Second)
//	resp, err := client.R().SetResult(&status).Get("/api/status")
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &HTTPClient{Client: c}
}
