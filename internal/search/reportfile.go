// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sar-ingest/pkg/types"
)

// Report is the on-disk representation of one search pass and its
// selection. The operator can inspect what a query found and which scenes
// would be acquired without running any downloads.
type Report struct {
	Query    ReportQuery         `yaml:"query"`
	Records  []types.SceneRecord `yaml:"records"`
	Selected []string            `yaml:"selected"`
	Summary  ReportSummary       `yaml:"summary"`
}

// ReportQuery stores the query parameters in a serializable form.
type ReportQuery struct {
	Area        string `yaml:"area_wkt"`
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
	MaxResults  int    `yaml:"max_results"`
	Platform    string `yaml:"platform,omitempty"`
	ProductType string `yaml:"product_type,omitempty"`
}

// ReportSummary stores per-source statistics and a timestamp.
type ReportSummary struct {
	FoundBySource map[string]int `yaml:"found_by_source"`
	Errors        []string       `yaml:"errors,omitempty"`
	Timestamp     time.Time      `yaml:"timestamp"`
}

const reportTimeFmt = "2006-01-02T15:04:05Z"

// WriteReport saves the query, its normalized records, and the selected
// granule names to a YAML file.
func WriteReport(path string, query Query, out Output, selected []string) error {
	report := Report{
		Query: ReportQuery{
			Area:        query.Area.WKT(),
			Start:       query.Start.UTC().Format(reportTimeFmt),
			End:         query.End.UTC().Format(reportTimeFmt),
			MaxResults:  query.MaxResults,
			Platform:    query.Platform,
			ProductType: query.ProductType,
		},
		Records:  out.Records,
		Selected: selected,
		Summary: ReportSummary{
			FoundBySource: out.FoundBySource,
			Errors:        out.Errors,
			Timestamp:     time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling search report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing search report: %w", err)
	}
	return nil
}

// ReadReport loads a previously written search report.
func ReadReport(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("reading search report: %w", err)
	}
	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return Report{}, fmt.Errorf("parsing search report: %w", err)
	}
	return report, nil
}
