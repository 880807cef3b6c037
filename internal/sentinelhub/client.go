// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sentinelhub is a client for the Copernicus Data Space Ecosystem
// (CDSE) catalog. It authenticates with OAuth2 client credentials against
// the CDSE identity service and issues STAC-style catalog searches.
package sentinelhub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/sar-ingest/internal/httputil"
	"github.com/pdiddy/sar-ingest/pkg/types"
)

const (
	// DefaultBaseURL is the CDSE Sentinel Hub services endpoint.
	DefaultBaseURL = "https://sh.dataspace.copernicus.eu"

	// DefaultTokenURL is the CDSE OpenID Connect token endpoint.
	DefaultTokenURL = "https://identity.dataspace.copernicus.eu/auth/realms/CDSE/protocol/openid-connect/token"

	// DefaultCollection is the Sentinel-1 GRD catalog collection.
	DefaultCollection = "sentinel-1-grd"

	catalogPath = "/api/v1/catalog/1.0.0/search"

	// tokenSlack is subtracted from the reported token lifetime so a
	// token is refreshed before it expires mid-request.
	tokenSlack = 30 * time.Second
)

// Client handles CDSE catalog communication. A client built from a config
// with an empty ClientID is disabled: searches return no results.
type Client struct {
	baseURL      string
	tokenURL     string
	clientID     string
	clientSecret string
	userAgent    string
	httpClient   *http.Client
	logger       *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a CDSE catalog client from the Sentinel Hub config.
func NewClient(cfg types.SentinelHubConfig, userAgent string, timeout time.Duration) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		tokenURL:     tokenURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		userAgent:    userAgent,
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

// Enabled reports whether CDSE credentials are configured.
func (c *Client) Enabled() bool {
	return c.clientID != ""
}

// Feature is one catalog hit.
type Feature struct {
	ID         string           `json:"id"`
	Properties FeatureProps     `json:"properties"`
	Assets     map[string]Asset `json:"assets"`
}

// FeatureProps carries the catalog metadata the normalizer consumes.
type FeatureProps struct {
	Datetime       string   `json:"datetime"`
	Platform       string   `json:"platform"`
	InstrumentMode string   `json:"sar:instrument_mode"`
	OrbitState     string   `json:"sat:orbit_state"`
	Polarizations  []string `json:"s1:polarizations"`
}

// Asset is a downloadable artifact reference.
type Asset struct {
	Href string `json:"href"`
}

type searchRequest struct {
	BBox        []float64 `json:"bbox"`
	Datetime    string    `json:"datetime"`
	Collections []string  `json:"collections"`
	Limit       int       `json:"limit"`
}

type searchResponse struct {
	Features []Feature `json:"features"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Search queries the catalog for scenes intersecting bbox within the
// acquisition interval. A disabled client returns an empty slice.
func (c *Client) Search(ctx context.Context, bbox []float64, start, end time.Time, limit int) ([]Feature, error) {
	if !c.Enabled() {
		return nil, nil
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtaining CDSE token: %w", err)
	}

	body := searchRequest{
		BBox:        bbox,
		Datetime:    fmt.Sprintf("%s/%s", start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339)),
		Collections: []string{DefaultCollection},
		Limit:       limit,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding catalog request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+catalogPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", "Bearer "+token)

	c.logger.Debug("executing CDSE catalog search",
		zap.Float64s("bbox", bbox),
		zap.String("datetime", body.Datetime))

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return nil, fmt.Errorf("CDSE catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("CDSE catalog returned HTTP %d: %s", resp.StatusCode, respBody)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding catalog response: %w", err)
	}

	c.logger.Debug("CDSE search completed", zap.Int("features", len(result.Features)))
	return result.Features, nil
}

// token returns a cached access token, fetching a fresh one when the cache
// is empty or near expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("token endpoint returned HTTP %d: %s", resp.StatusCode, body)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned an empty access token")
	}

	c.accessToken = tr.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - tokenSlack)
	return c.accessToken, nil
}
