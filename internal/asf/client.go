// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package asf is a client for the Alaska Satellite Facility Search API.
// It performs live spatio-temporal granule queries; no responses are
// cached.
package asf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/sar-ingest/internal/httputil"
)

// DefaultBaseURL is the public ASF Search API endpoint.
const DefaultBaseURL = "https://api.daac.asf.alaska.edu"

const searchPath = "/services/search/param"

// Client handles communication with the ASF Search API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an ASF API client. An empty baseURL selects the public
// endpoint.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: zap.NewNop(),
	}
}

// WithLogger sets the client logger.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	c.logger = logger
	return c
}

// Search executes one granule query and returns the raw GeoJSON features.
func (c *Client) Search(ctx context.Context, params SearchParams) (*GeoJSONResponse, error) {
	searchURL, err := c.buildSearchURL(params)
	if err != nil {
		return nil, fmt.Errorf("building search URL: %w", err)
	}

	c.logger.Debug("executing ASF search", zap.String("url", searchURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		c.logger.Error("ASF API request failed", zap.Error(err), zap.String("url", searchURL))
		return nil, fmt.Errorf("ASF API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("ASF API returned non-200 status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("ASF API returned HTTP %d: %s", resp.StatusCode, body)
	}

	var result GeoJSONResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding ASF response: %w", err)
	}

	c.logger.Debug("ASF search completed", zap.Int("features", len(result.Features)))
	return &result, nil
}

func (c *Client) buildSearchURL(params SearchParams) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", c.baseURL, err)
	}
	base.Path = searchPath
	base.RawQuery = params.ToURLValues().Encode()
	return base.String(), nil
}
