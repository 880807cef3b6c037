// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sar-ingest/0.1").
	UserAgent string `json:"user_agent" mapstructure:"user_agent"`
}

// AreaOfInterest is the fixed monitoring area searched on every run.
// Coordinates form a closed [lon, lat] ring: at least 3 distinct vertices
// with the first and last pair equal.
type AreaOfInterest struct {
	Name        string       `json:"name" mapstructure:"name"`
	Coordinates [][2]float64 `json:"coordinates" mapstructure:"coordinates"`
}

// TemporalRange holds the default lookback window settings.
type TemporalRange struct {
	// DaysBack is the default target offset for the comparison scene.
	DaysBack int `json:"days_back" mapstructure:"days_back"`

	// MaxCloudCover is the maximum acceptable cloud cover percentage.
	// SAR imaging is cloud-independent; the value is carried for optical
	// companion queries on the Sentinel Hub side.
	MaxCloudCover int `json:"max_cloud_cover" mapstructure:"max_cloud_cover"`
}

// SentinelHubConfig holds Copernicus Data Space Ecosystem (CDSE) settings.
// An empty ClientID disables the Sentinel Hub backend.
type SentinelHubConfig struct {
	ClientID     string `json:"client_id" mapstructure:"client_id"`
	ClientSecret string `json:"client_secret,omitempty" mapstructure:"client_secret"`

	// InstanceID is optional for CDSE deployments.
	InstanceID string `json:"instance_id" mapstructure:"instance_id"`

	BaseURL  string `json:"sh_base_url" mapstructure:"sh_base_url"`
	TokenURL string `json:"sh_token_url" mapstructure:"sh_token_url"`
}

// ASFConfig holds Alaska Satellite Facility search and download settings.
type ASFConfig struct {
	// DownloadDirectory receives raw archives and per-scene metadata files.
	DownloadDirectory string `json:"download_directory" mapstructure:"download_directory"`

	// MaxResults caps the number of search hits requested per query.
	MaxResults int `json:"max_results" mapstructure:"max_results"`

	// Platform restricts searches to a single mission. Defaults to
	// SENTINEL-1.
	Platform string `json:"platform" mapstructure:"platform"`

	// ProductType restricts results to one processing level. Defaults
	// to SLC.
	ProductType string `json:"product_type" mapstructure:"product_type"`

	// SearchURL is the ASF Search API base URL. Defaults to the public
	// endpoint when empty; tests substitute an httptest server.
	SearchURL string `json:"search_url,omitempty" mapstructure:"search_url"`
}

// ProcessingConfig holds downstream processing hints persisted with the
// configuration for the change-detection consumers.
type ProcessingConfig struct {
	// Resolution is the target resolution in meters.
	Resolution int `json:"resolution" mapstructure:"resolution"`

	// BBoxSizeKM is the approximate bounding box edge length in kilometers.
	BBoxSizeKM int `json:"bbox_size_km" mapstructure:"bbox_size_km"`
}

// LogConfig selects the logger behaviour.
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

// PipelineConfig groups all settings for the ingestion pipeline. It is
// constructed once at startup, validated, and passed by reference to every
// component that needs it; nothing mutates it afterwards.
type PipelineConfig struct {
	DataDirectory  string            `json:"data_directory" mapstructure:"data_directory"`
	AreaOfInterest AreaOfInterest    `json:"area_of_interest" mapstructure:"area_of_interest"`
	TemporalRange  TemporalRange     `json:"temporal_range" mapstructure:"temporal_range"`
	SentinelHub    SentinelHubConfig `json:"sentinel_hub" mapstructure:"sentinel_hub"`
	ASF            ASFConfig         `json:"asf" mapstructure:"asf"`
	Processing     ProcessingConfig  `json:"processing" mapstructure:"processing"`

	HTTP HTTPConfig `json:"http" mapstructure:"http"`
	Log  LogConfig  `json:"log" mapstructure:"log"`

	// DownloadDelay is the pause between consecutive scene downloads,
	// keeping sequential runs inside provider rate limits.
	DownloadDelay time.Duration `json:"download_delay" mapstructure:"download_delay"`
}
