// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/sar-ingest/internal/geometry"
	"github.com/pdiddy/sar-ingest/pkg/types"
)

func TestReportRoundTrip(t *testing.T) {
	area, err := geometry.FromCoordinates([][2]float64{
		{34.2, 31.2}, {34.6, 31.2}, {34.6, 31.6}, {34.2, 31.6}, {34.2, 31.2},
	})
	if err != nil {
		t.Fatal(err)
	}

	query := Query{
		Area:       area,
		Start:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC),
		MaxResults: 50,
	}
	out := Output{
		Records: []types.SceneRecord{
			{GranuleName: "S1A_IW_GRDH_A", Source: SourceASF, TimeValid: true},
		},
		FoundBySource: map[string]int{SourceASF: 1, SourceSentinelHub: 0},
		Errors:        []string{"sentinel_hub: token rejected"},
	}

	path := filepath.Join(t.TempDir(), "report.yaml")
	if err := WriteReport(path, query, out, []string{"S1A_IW_GRDH_A"}); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	report, err := ReadReport(path)
	if err != nil {
		t.Fatalf("ReadReport: %v", err)
	}
	if report.Query.Start != "2026-08-01T00:00:00Z" {
		t.Errorf("query start = %s", report.Query.Start)
	}
	if len(report.Records) != 1 || report.Records[0].GranuleName != "S1A_IW_GRDH_A" {
		t.Errorf("records = %+v", report.Records)
	}
	if len(report.Selected) != 1 {
		t.Errorf("selected = %v", report.Selected)
	}
	if report.Summary.FoundBySource[SourceASF] != 1 {
		t.Errorf("found by source = %v", report.Summary.FoundBySource)
	}
	if len(report.Summary.Errors) != 1 {
		t.Errorf("errors = %v", report.Summary.Errors)
	}
}

func TestReadReportMissingFile(t *testing.T) {
	if _, err := ReadReport(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing report")
	}
}
