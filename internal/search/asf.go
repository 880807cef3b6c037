// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"

	"github.com/pdiddy/sar-ingest/internal/asf"
	"github.com/pdiddy/sar-ingest/pkg/types"
)

// ASFBackend queries the Alaska Satellite Facility search API.
type ASFBackend struct {
	Client *asf.Client
}

// Name returns the backend identifier.
func (b *ASFBackend) Name() string { return SourceASF }

// Search executes the query and normalizes each feature. Per-record
// normalization never fails the batch: malformed fields yield sentinel
// values with an attached parse note.
func (b *ASFBackend) Search(ctx context.Context, query Query) ([]types.SceneRecord, error) {
	params := asf.SearchParams{
		IntersectsWith: query.Area.WKT(),
		MaxResults:     query.MaxResults,
	}
	if query.Platform != "" {
		params.Platform = []string{query.Platform}
	}
	if query.ProductType != "" {
		params.ProcessingLevel = []string{query.ProductType}
	}
	if !query.Start.IsZero() {
		start := query.Start
		params.Start = &start
	}
	if !query.End.IsZero() {
		end := query.End
		params.End = &end
	}

	resp, err := b.Client.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	records := make([]types.SceneRecord, 0, len(resp.Features))
	for _, f := range resp.Features {
		records = append(records, normalizeASF(f))
	}
	return records, nil
}

// normalizeASF maps one raw ASF feature onto the fixed SceneRecord shape,
// walking the historical property-name fallback chains.
func normalizeASF(f asf.Feature) types.SceneRecord {
	p := f.Properties
	r := types.SceneRecord{Source: SourceASF}

	r.GranuleName = firstNonEmpty(p.SceneName, p.FileName, p.GranuleName, p.ProductName)
	if r.GranuleName == "" {
		r.GranuleName = types.UnknownGranule
		r.ParseNotes = append(r.ParseNotes, "no granule name field present")
	}

	rawTime := firstNonEmpty(p.StartTime, p.AcquisitionDate, p.SensingTime)
	if t, ok := parseSceneTime(rawTime); ok {
		r.AcquisitionTime = t
		r.TimeValid = true
	} else {
		r.ParseNotes = append(r.ParseNotes, fmt.Sprintf("unparsable acquisition time %q", rawTime))
	}

	r.Platform = defaultUnknown(p.Platform)
	r.BeamMode = defaultUnknown(p.BeamModeType)
	r.OrbitDirection = defaultUnknown(p.FlightDirection)
	r.Polarization = defaultUnknown(p.Polarization)
	r.URL = p.URL
	r.SizeMB = float64(p.Bytes) / (1024 * 1024)
	r.PathNumber = defaultUnknown(string(p.PathNumber))
	r.FrameNumber = defaultUnknown(string(p.FrameNumber))

	return r
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func defaultUnknown(v string) string {
	if v == "" {
		return types.Unknown
	}
	return v
}
