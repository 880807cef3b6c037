// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/sar-ingest/internal/sentinelhub"
	"github.com/pdiddy/sar-ingest/pkg/types"
)

// SentinelHubBackend queries the CDSE catalog. Without configured
// credentials the backend reports zero results rather than failing.
type SentinelHubBackend struct {
	Client *sentinelhub.Client
}

// Name returns the backend identifier.
func (b *SentinelHubBackend) Name() string { return SourceSentinelHub }

// Search executes a bbox catalog query over the area of interest.
func (b *SentinelHubBackend) Search(ctx context.Context, query Query) ([]types.SceneRecord, error) {
	if !b.Client.Enabled() {
		return nil, nil
	}

	bbox := query.Area.Bounds().Slice()
	features, err := b.Client.Search(ctx, bbox, query.Start, query.End, query.MaxResults)
	if err != nil {
		return nil, err
	}

	records := make([]types.SceneRecord, 0, len(features))
	for _, f := range features {
		records = append(records, normalizeSentinelHub(f))
	}
	return records, nil
}

func normalizeSentinelHub(f sentinelhub.Feature) types.SceneRecord {
	r := types.SceneRecord{Source: SourceSentinelHub}

	r.GranuleName = f.ID
	if r.GranuleName == "" {
		r.GranuleName = types.UnknownGranule
		r.ParseNotes = append(r.ParseNotes, "catalog feature has no id")
	}

	if t, ok := parseSceneTime(f.Properties.Datetime); ok {
		r.AcquisitionTime = t
		r.TimeValid = true
	} else {
		r.ParseNotes = append(r.ParseNotes, fmt.Sprintf("unparsable datetime %q", f.Properties.Datetime))
	}

	r.Platform = defaultUnknown(f.Properties.Platform)
	r.BeamMode = defaultUnknown(f.Properties.InstrumentMode)
	r.OrbitDirection = defaultUnknown(f.Properties.OrbitState)
	r.Polarization = defaultUnknown(strings.Join(f.Properties.Polarizations, "+"))
	r.PathNumber = types.Unknown
	r.FrameNumber = types.Unknown

	if asset, ok := f.Assets["data"]; ok {
		r.URL = asset.Href
	}

	return r
}
