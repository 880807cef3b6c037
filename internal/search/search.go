// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search issues spatio-temporal queries against the configured
// data providers and normalizes their heterogeneous records into uniform
// SceneRecords. Each provider is a Backend; a backend failure never fails
// the run, it is recorded and treated as an empty result set.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/sar-ingest/internal/geometry"
	"github.com/pdiddy/sar-ingest/pkg/types"
)

// Backend identifiers as they appear in SceneRecord.Source and in the
// run summary's per-source counts.
const (
	SourceASF         = "asf"
	SourceSentinelHub = "sentinel_hub"
)

// Backend searches a single data provider.
type Backend interface {
	Name() string
	Search(ctx context.Context, query Query) ([]types.SceneRecord, error)
}

// Query holds the spatio-temporal search parameters shared by all
// backends. The polygon is validated at configuration time.
type Query struct {
	Area  geometry.Polygon
	Start time.Time
	End   time.Time

	MaxResults  int
	Platform    string
	ProductType string
}

// Output aggregates the normalized results of one search pass.
type Output struct {
	Records []types.SceneRecord

	// FoundBySource counts raw hits per backend, including backends that
	// failed (count 0). The run summary distinguishes "found: 0" from a
	// recorded failure via Errors.
	FoundBySource map[string]int

	// Errors records per-backend failures as "<name>: <error>" strings.
	Errors []string
}

// RunAll executes every backend sequentially and collects their records.
// Backends run one at a time to stay inside provider rate limits. A
// backend error yields an empty contribution plus an Errors entry; callers
// continue either way.
func RunAll(ctx context.Context, query Query, backends []Backend, logger *zap.Logger) Output {
	out := Output{FoundBySource: make(map[string]int)}

	for _, b := range backends {
		records, err := b.Search(ctx, query)
		if err != nil {
			out.FoundBySource[b.Name()] = 0
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", b.Name(), err))
			logger.Warn("provider search failed",
				zap.String("provider", b.Name()),
				zap.Error(err))
			continue
		}
		out.FoundBySource[b.Name()] = len(records)
		out.Records = append(out.Records, records...)
		logger.Info("provider search completed",
			zap.String("provider", b.Name()),
			zap.Int("found", len(records)))
	}

	return out
}

// parseSceneTime parses the ISO-like acquisition timestamps the providers
// emit: RFC3339 with or without fractional seconds, a "+00:00" offset, or
// no zone designator at all.
func parseSceneTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
