// Package gateway proxies requests to the downstream memory API, turning the
// authorization server into the protected resource that bearer tokens grant
// access to.
package gateway

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/simplemem/simplemem-mcp/internal/errors"
)

// Client is a thin HTTP client for the downstream memory API. Every call is
// bounded by the configured timeout through the underlying http.Client.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a memory API client for the given base endpoint.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: httpClient,
	}
}

// Do forwards a request to the upstream API and returns the raw response.
// The caller owns the response body.
func (c *Client) Do(
	ctx context.Context,
	method, path string,
	query url.Values,
	contentType string,
	body io.Reader,
) (*http.Response, error) {
	target := c.endpoint + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build upstream request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, "memory api request failed")
	}
	return resp, nil
}
