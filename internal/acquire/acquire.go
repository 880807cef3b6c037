// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire drives the per-scene download, extraction and
// verification sequence and aggregates per-run outcomes.
package acquire

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/sar-ingest/internal/earthdata"
	"github.com/pdiddy/sar-ingest/internal/httputil"
	"github.com/pdiddy/sar-ingest/internal/safe"
	"github.com/pdiddy/sar-ingest/pkg/types"
)

const (
	asfDir = "asf"
	shDir  = "sentinel_hub"
)

// Acquirer acquires SAFE products for selected scenes. Each stage of the
// sequence is an idempotency checkpoint on disk: a verified product
// short-circuits the whole acquisition, an existing archive short-circuits
// the download.
type Acquirer struct {
	cfg     types.PipelineConfig
	session *earthdata.Session
	client  *http.Client
	logger  *zap.Logger
}

// NewAcquirer returns an Acquirer writing under cfg's download directory.
func NewAcquirer(cfg types.PipelineConfig, session *earthdata.Session) *Acquirer {
	return &Acquirer{
		cfg:     cfg,
		session: session,
		client:  &http.Client{Timeout: cfg.HTTP.Timeout},
		logger:  zap.NewNop(),
	}
}

// WithLogger sets the structured logger. Returns the acquirer for chaining.
func (a *Acquirer) WithLogger(logger *zap.Logger) *Acquirer {
	a.logger = logger
	return a
}

// WithHTTPClient overrides the download client.
func (a *Acquirer) WithHTTPClient(client *http.Client) *Acquirer {
	a.client = client
	return a
}

// downloadDir is where archives and per-scene metadata land.
func (a *Acquirer) downloadDir() string {
	if a.cfg.ASF.DownloadDirectory != "" {
		return a.cfg.ASF.DownloadDirectory
	}
	return filepath.Join(a.cfg.DataDirectory, asfDir)
}

// Acquire runs the download, extract, verify sequence for one scene. A
// per-scene metadata snapshot is written before any network activity so
// the attempt is auditable even when the transfer fails. Failures are
// reported in the outcome, never retried here.
func (a *Acquirer) Acquire(ctx context.Context, scene types.SceneRecord) types.AcquisitionOutcome {
	outcome := types.AcquisitionOutcome{
		GranuleName:  scene.GranuleName,
		StageReached: types.StageNotStarted,
	}

	downloadDir := a.downloadDir()
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return a.fail(scene, outcome, fmt.Errorf("creating download directory: %w", err))
	}

	archivePath := filepath.Join(downloadDir, scene.GranuleName+".zip")
	productPath := filepath.Join(downloadDir, scene.GranuleName+".SAFE")

	if err := a.writeSnapshot(scene, outcome, downloadDir); err != nil {
		return a.fail(scene, outcome, fmt.Errorf("writing metadata snapshot: %w", err))
	}

	// Verified product already on disk: nothing to do.
	if err := safe.Verify(productPath); err == nil {
		a.logger.Info("product already verified, skipping",
			zap.String("granule", scene.GranuleName),
			zap.String("path", productPath))
		outcome.StageReached = types.StageVerified
		outcome.FinalPath = productPath
		outcome.Skipped = true
		a.recordSnapshot(scene, outcome, downloadDir)
		return outcome
	}

	// Archive already on disk: skip the transfer, go straight to extraction.
	if _, err := os.Stat(archivePath); err == nil {
		a.logger.Info("archive present, skipping download",
			zap.String("granule", scene.GranuleName))
		outcome.StageReached = types.StageDownloaded
	} else {
		if err := a.download(ctx, scene, archivePath); err != nil {
			return a.fail(scene, outcome, fmt.Errorf("download: %w", err))
		}
		outcome.StageReached = types.StageDownloaded
	}
	a.recordSnapshot(scene, outcome, downloadDir)

	extracted, err := safe.Extract(archivePath, downloadDir)
	if err != nil {
		// Archive is retained so a later run can retry extraction.
		return a.fail(scene, outcome, fmt.Errorf("extract: %w", err))
	}
	outcome.StageReached = types.StageExtracted
	a.recordSnapshot(scene, outcome, downloadDir)

	if err := safe.Verify(extracted); err != nil {
		return a.fail(scene, outcome, fmt.Errorf("verify: %w", err))
	}

	outcome.StageReached = types.StageVerified
	outcome.FinalPath = extracted
	a.recordSnapshot(scene, outcome, downloadDir)

	if byPol, err := safe.MeasurementFilesByPolarization(extracted); err == nil {
		for pol, file := range byPol {
			a.logger.Info("measurement file",
				zap.String("granule", scene.GranuleName),
				zap.String("polarization", pol),
				zap.String("file", filepath.Base(file)))
		}
	}

	return outcome
}

func (a *Acquirer) fail(scene types.SceneRecord, outcome types.AcquisitionOutcome, err error) types.AcquisitionOutcome {
	a.logger.Error("acquisition failed",
		zap.String("granule", scene.GranuleName),
		zap.String("stage", string(outcome.StageReached)),
		zap.Error(err))
	outcome.Error = err.Error()
	outcome.StageReached = types.StageFailed
	a.recordSnapshot(scene, outcome, a.downloadDir())
	return outcome
}

// download fetches the scene archive to a temp file and renames it into
// place so an interrupted transfer never leaves a plausible-looking
// archive behind.
func (a *Acquirer) download(ctx context.Context, scene types.SceneRecord, destPath string) error {
	if scene.URL == "" || scene.URL == types.Unknown {
		return fmt.Errorf("no download URL for %s", scene.GranuleName)
	}

	a.logger.Info("downloading archive",
		zap.String("granule", scene.GranuleName),
		zap.String("size_mb", fmt.Sprintf("%.1f", scene.SizeMB)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scene.URL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.cfg.HTTP.UserAgent)
	a.session.Authorize(req)

	resp, err := httputil.DoWithRetry(ctx, a.client, req, 0)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, scene.URL)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".acquire-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// writeSnapshot writes the pre-attempt metadata file for a scene.
func (a *Acquirer) writeSnapshot(scene types.SceneRecord, outcome types.AcquisitionOutcome, dir string) error {
	meta := types.SceneMetadata{
		SceneRecord:  scene,
		StageReached: outcome.StageReached,
		AttemptedAt:  time.Now().UTC(),
		FinalPath:    outcome.FinalPath,
		Error:        outcome.Error,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	path := filepath.Join(dir, scene.GranuleName+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// recordSnapshot refreshes the metadata file after a stage transition.
// A refresh failure is logged, never fatal: the acquisition itself has
// already progressed.
func (a *Acquirer) recordSnapshot(scene types.SceneRecord, outcome types.AcquisitionOutcome, dir string) {
	if err := a.writeSnapshot(scene, outcome, dir); err != nil {
		a.logger.Warn("metadata snapshot refresh failed",
			zap.String("granule", scene.GranuleName),
			zap.Error(err))
	}
}

// ReadSceneMetadata loads a per-scene metadata file.
func ReadSceneMetadata(path string) (types.SceneMetadata, error) {
	var meta types.SceneMetadata
	data, err := os.ReadFile(path)
	if err != nil {
		return meta, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("parsing %s: %w", path, err)
	}
	return meta, nil
}
