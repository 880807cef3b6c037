// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sar-ingest CLI.
package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/sar-ingest/internal/asf"
	"github.com/pdiddy/sar-ingest/internal/config"
	"github.com/pdiddy/sar-ingest/internal/earthdata"
	"github.com/pdiddy/sar-ingest/internal/logging"
	"github.com/pdiddy/sar-ingest/internal/search"
	"github.com/pdiddy/sar-ingest/internal/secrets"
	"github.com/pdiddy/sar-ingest/internal/sentinelhub"
	"github.com/pdiddy/sar-ingest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the sar-ingest CLI.
var rootCmd = &cobra.Command{
	Use:   "sar-ingest",
	Short: "SAR satellite imagery ingestion pipeline",
	Long: `sar-ingest searches the Alaska Satellite Facility and the Copernicus
Data Space Ecosystem for SAR scenes over a fixed area of interest, selects
the most recent scene plus a lookback comparison scene, and downloads,
extracts and verifies each SAFE product.

Each pipeline stage is a subcommand: search, run, schedule, download and
history. Use init to generate a starter configuration.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pipeline_config.json)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory holding credential files")
}

// loadConfig reads and validates the pipeline configuration selected by
// the --config flag.
func loadConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// buildLogger constructs the zap logger from the loaded config.
func buildLogger(cfg types.PipelineConfig) (*zap.Logger, error) {
	return logging.New(cfg.Log)
}

// fillSentinelHubCredentials resolves CDSE credentials from the
// environment or the secrets directory when the config file leaves them
// empty, so credentials never have to live in pipeline_config.json.
func fillSentinelHubCredentials(cfg *types.PipelineConfig, secretsDir string) error {
	loaded, err := secrets.Load(secretsDir)
	if err != nil {
		return err
	}
	if cfg.SentinelHub.ClientID == "" {
		cfg.SentinelHub.ClientID = secrets.FirstEnvOr(loaded, "sh-client-id", "SH_CLIENT_ID")
	}
	if cfg.SentinelHub.ClientSecret == "" {
		cfg.SentinelHub.ClientSecret = secrets.FirstEnvOr(loaded, "sh-client-secret", "SH_CLIENT_SECRET")
	}
	return nil
}

// buildBackends assembles the provider search backends.
func buildBackends(cfg types.PipelineConfig, logger *zap.Logger) []search.Backend {
	asfClient := asf.NewClient(cfg.ASF.SearchURL, cfg.HTTP.UserAgent, cfg.HTTP.Timeout).
		WithLogger(logger)
	shClient := sentinelhub.NewClient(cfg.SentinelHub, cfg.HTTP.UserAgent, cfg.HTTP.Timeout).
		WithLogger(logger)

	return []search.Backend{
		&search.ASFBackend{Client: asfClient},
		&search.SentinelHubBackend{Client: shClient},
	}
}

// buildSession loads Earthdata credentials and wraps them in a download
// session.
func buildSession(cmd *cobra.Command, cfg types.PipelineConfig) (*earthdata.Session, error) {
	secretsDir, _ := cmd.Flags().GetString("secrets-dir")
	creds, err := earthdata.LoadCredentials(secretsDir)
	if err != nil {
		return nil, err
	}
	return earthdata.NewSession(creds, &http.Client{Timeout: cfg.HTTP.Timeout}), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
