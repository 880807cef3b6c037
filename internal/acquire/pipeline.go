// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/sar-ingest/internal/geometry"
	"github.com/pdiddy/sar-ingest/internal/ledger"
	"github.com/pdiddy/sar-ingest/internal/search"
	"github.com/pdiddy/sar-ingest/internal/selector"
	"github.com/pdiddy/sar-ingest/pkg/types"
)

const summaryPrefix = "pipeline_summary_"

// Pipeline wires the search backends, the scene selector and the acquirer
// into the per-run sequence. One Pipeline serves many runs.
type Pipeline struct {
	cfg      types.PipelineConfig
	backends []search.Backend
	acquirer *Acquirer
	store    *ledger.Store
	logger   *zap.Logger
	now      func() time.Time
}

// NewPipeline returns a Pipeline over the given backends.
func NewPipeline(cfg types.PipelineConfig, backends []search.Backend, acquirer *Acquirer) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		backends: backends,
		acquirer: acquirer,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
}

// WithLogger sets the structured logger. Returns the pipeline for chaining.
func (p *Pipeline) WithLogger(logger *zap.Logger) *Pipeline {
	p.logger = logger
	return p
}

// WithStore attaches the ingestion ledger. Without a store, runs are only
// recorded in summary files.
func (p *Pipeline) WithStore(store *ledger.Store) *Pipeline {
	p.store = store
	return p
}

// WithClock overrides the time source.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// RunOnce executes one complete pipeline run: search both providers,
// select the two anchor scenes, acquire each sequentially, then write the
// summary file and the ledger record. Zero selected scenes is a valid
// zero-count run, not an error.
func (p *Pipeline) RunOnce(ctx context.Context, daysBack int) (types.RunSummary, error) {
	if daysBack <= 0 {
		daysBack = p.cfg.TemporalRange.DaysBack
	}

	now := p.now()
	window := types.TimeRange{Start: now.AddDate(0, 0, -daysBack), End: now}

	p.logger.Info("starting pipeline run",
		zap.Int("days_back", daysBack),
		zap.Time("window_start", window.Start),
		zap.Time("window_end", window.End))

	query := search.Query{
		Area:        geometry.Polygon(p.cfg.AreaOfInterest.Coordinates),
		Start:       window.Start,
		End:         window.End,
		Platform:    p.cfg.ASF.Platform,
		ProductType: p.cfg.ASF.ProductType,
		MaxResults:  p.cfg.ASF.MaxResults,
	}

	output := search.RunAll(ctx, query, p.backends, p.logger)

	summary := types.RunSummary{
		ExecutionTime:  now.UTC(),
		TimeRange:      window,
		TargetDaysBack: daysBack,
		SearchErrors:   output.Errors,
		ASF: types.SourceCounts{
			Found: output.FoundBySource[search.SourceASF],
		},
		SentinelHub: types.SourceCounts{
			Found: output.FoundBySource[search.SourceSentinelHub],
		},
	}

	sel, err := selector.Select(output.Records, daysBack, now)
	if err != nil {
		// No usable scenes: still a valid run, recorded as zero counts.
		p.logger.Warn("no scenes selected", zap.Error(err))
		p.finishRun(ctx, &summary)
		return summary, nil
	}

	summary.SelectedScenes = sel.GranuleNames()
	for _, scene := range sel.Scenes {
		switch scene.Source {
		case search.SourceSentinelHub:
			summary.SentinelHub.Selected++
		default:
			summary.ASF.Selected++
		}
	}

	p.logger.Info("selected scenes",
		zap.Strings("granules", summary.SelectedScenes),
		zap.Int("closest_days_off", sel.ClosestDaysOff))

	for i, scene := range sel.Scenes {
		if i > 0 && p.cfg.DownloadDelay > 0 {
			select {
			case <-ctx.Done():
				p.finishRun(ctx, &summary)
				return summary, ctx.Err()
			case <-time.After(p.cfg.DownloadDelay):
			}
		}

		outcome := p.acquirer.Acquire(ctx, scene)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Verified() {
			summary.TotalFiles++
			switch scene.Source {
			case search.SourceSentinelHub:
				summary.SentinelHub.Downloaded++
			default:
				summary.ASF.Downloaded++
			}
		}
	}

	p.finishRun(ctx, &summary)
	return summary, nil
}

// finishRun writes the durable run record: the summary JSON under the data
// directory and, when a ledger is attached, a ledger row. Neither failure
// aborts the run at this point; both are logged.
func (p *Pipeline) finishRun(ctx context.Context, summary *types.RunSummary) {
	if err := p.writeSummary(*summary); err != nil {
		p.logger.Error("writing run summary failed", zap.Error(err))
	}
	if p.store != nil {
		if _, err := p.store.RecordRun(ctx, *summary); err != nil {
			p.logger.Error("recording run in ledger failed", zap.Error(err))
		}
	}
	p.logger.Info("pipeline run complete",
		zap.Int("asf_found", summary.ASF.Found),
		zap.Int("selected", len(summary.SelectedScenes)),
		zap.Int("total_files", summary.TotalFiles),
		zap.Int("search_errors", len(summary.SearchErrors)))
}

func (p *Pipeline) writeSummary(summary types.RunSummary) error {
	if err := os.MkdirAll(p.cfg.DataDirectory, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	name := summaryPrefix + summary.ExecutionTime.Format("20060102_150405") + ".json"
	path := filepath.Join(p.cfg.DataDirectory, name)

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// AcquireFromMetadata re-runs acquisition from per-scene metadata files in
// metadataDir, the resumption path when scenes were discovered earlier but
// not fully acquired. Run summary files are skipped; maxScenes caps how
// many files are processed (0 means no cap).
func (a *Acquirer) AcquireFromMetadata(ctx context.Context, metadataDir string, maxScenes int) ([]types.AcquisitionOutcome, error) {
	matches, err := filepath.Glob(filepath.Join(metadataDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing metadata files: %w", err)
	}

	var files []string
	for _, path := range matches {
		if strings.HasPrefix(filepath.Base(path), summaryPrefix) {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no metadata files in %s", metadataDir)
	}
	if maxScenes > 0 && len(files) > maxScenes {
		files = files[:maxScenes]
	}

	var outcomes []types.AcquisitionOutcome
	for i, path := range files {
		if i > 0 && a.cfg.DownloadDelay > 0 {
			select {
			case <-ctx.Done():
				return outcomes, ctx.Err()
			case <-time.After(a.cfg.DownloadDelay):
			}
		}

		meta, err := ReadSceneMetadata(path)
		if err != nil {
			a.logger.Warn("skipping unreadable metadata file",
				zap.String("file", filepath.Base(path)),
				zap.Error(err))
			outcomes = append(outcomes, types.AcquisitionOutcome{
				GranuleName:  strings.TrimSuffix(filepath.Base(path), ".json"),
				StageReached: types.StageFailed,
				Error:        err.Error(),
			})
			continue
		}

		outcomes = append(outcomes, a.Acquire(ctx, meta.SceneRecord))
	}
	return outcomes, nil
}
