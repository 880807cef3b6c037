// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads, validates and generates the pipeline
// configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/sar-ingest/internal/geometry"
	"github.com/pdiddy/sar-ingest/pkg/types"
)

// DefaultFileName is the config file looked up in the working directory
// when no explicit path is given.
const DefaultFileName = "pipeline_config.json"

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "sar-ingest/0.1"

	defaultPlatform    = "SENTINEL-1"
	defaultProductType = "SLC"

	asfSubdir = "asf"
	shSubdir  = "sentinel_hub"
)

// Load reads the configuration from path (or DefaultFileName in the
// working directory when path is empty), applies SAR_INGEST_* environment
// overrides and defaults, and validates the result.
func Load(path string) (types.PipelineConfig, error) {
	v := viper.New()
	v.SetConfigType("json")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFileName, ".json"))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SAR_INGEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.timeout", defaultTimeout.String())
	v.SetDefault("http.user_agent", defaultUserAgent)
	v.SetDefault("download_delay", defaultDelay.String())
	v.SetDefault("asf.platform", defaultPlatform)
	v.SetDefault("asf.product_type", defaultProductType)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		return types.PipelineConfig{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.PipelineConfig{}, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ASF.DownloadDirectory == "" && cfg.DataDirectory != "" {
		cfg.ASF.DownloadDirectory = filepath.Join(cfg.DataDirectory, asfSubdir)
	}

	if err := Validate(cfg); err != nil {
		return types.PipelineConfig{}, err
	}
	return cfg, nil
}

// Validate checks the required keys and the area-of-interest ring. It
// collects every violation rather than stopping at the first one.
func Validate(cfg types.PipelineConfig) error {
	var problems []string

	if cfg.DataDirectory == "" {
		problems = append(problems, "data_directory is required")
	}
	if _, err := geometry.FromCoordinates(cfg.AreaOfInterest.Coordinates); err != nil {
		problems = append(problems, fmt.Sprintf("area_of_interest.coordinates: %v", err))
	}
	if cfg.TemporalRange.DaysBack < 1 {
		problems = append(problems, "temporal_range.days_back must be at least 1")
	}
	if cfg.TemporalRange.MaxCloudCover < 0 || cfg.TemporalRange.MaxCloudCover > 100 {
		problems = append(problems, "temporal_range.max_cloud_cover must be between 0 and 100")
	}
	if cfg.ASF.DownloadDirectory == "" {
		problems = append(problems, "asf.download_directory is required")
	}
	if cfg.ASF.MaxResults < 1 {
		problems = append(problems, "asf.max_results must be at least 1")
	}
	if cfg.Processing.Resolution < 1 {
		problems = append(problems, "processing.resolution must be at least 1")
	}
	if cfg.Processing.BBoxSizeKM < 1 {
		problems = append(problems, "processing.bbox_size_km must be at least 1")
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// Default returns the starter configuration written by the init command.
// Credentials are left empty; the Sentinel Hub backend stays disabled
// until the operator fills them in or sets SH_CLIENT_ID/SH_CLIENT_SECRET.
func Default() types.PipelineConfig {
	return types.PipelineConfig{
		DataDirectory: "./sar_data",
		AreaOfInterest: types.AreaOfInterest{
			Name: "target_monitoring_area",
			Coordinates: [][2]float64{
				{34.271328748121135, 31.367306403175277},
				{34.271328748121135, 31.308940787645426},
				{34.36415015532711, 31.308940787645426},
				{34.36415015532711, 31.367306403175277},
				{34.271328748121135, 31.367306403175277},
			},
		},
		TemporalRange: types.TemporalRange{DaysBack: 7, MaxCloudCover: 20},
		SentinelHub: types.SentinelHubConfig{
			BaseURL:  "https://sh.dataspace.copernicus.eu",
			TokenURL: "https://identity.dataspace.copernicus.eu/auth/realms/CDSE/protocol/openid-connect/token",
		},
		ASF: types.ASFConfig{
			DownloadDirectory: "./sar_data/asf",
			MaxResults:        100,
			Platform:          defaultPlatform,
			ProductType:       defaultProductType,
		},
		Processing: types.ProcessingConfig{Resolution: 10, BBoxSizeKM: 40},
		HTTP: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		Log:           types.LogConfig{Level: "info", Format: "json"},
		DownloadDelay: defaultDelay,
	}
}

// WriteDefault writes the starter configuration to path and creates the
// data directory tree. It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if path == "" {
		path = DefaultFileName
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}

	cfg := Default()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return EnsureDirectories(cfg)
}

// EnsureDirectories creates the data directory tree the pipeline writes
// into.
func EnsureDirectories(cfg types.PipelineConfig) error {
	for _, dir := range []string{
		cfg.DataDirectory,
		cfg.ASF.DownloadDirectory,
		filepath.Join(cfg.DataDirectory, shSubdir),
	} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}
