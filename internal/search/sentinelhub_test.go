// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"testing"

	"github.com/pdiddy/sar-ingest/internal/sentinelhub"
	"github.com/pdiddy/sar-ingest/pkg/types"
)

func TestNormalizeSentinelHub(t *testing.T) {
	t.Run("full feature", func(t *testing.T) {
		f := sentinelhub.Feature{
			ID: "S1A_IW_GRDH_1SDV_20250712T154855",
			Properties: sentinelhub.FeatureProps{
				Datetime:       "2025-07-12T15:48:55Z",
				Platform:       "sentinel-1a",
				InstrumentMode: "IW",
				OrbitState:     "descending",
				Polarizations:  []string{"VV", "VH"},
			},
			Assets: map[string]sentinelhub.Asset{
				"data": {Href: "s3://eodata/S1A_IW_GRDH.SAFE"},
			},
		}
		r := normalizeSentinelHub(f)
		if r.GranuleName != "S1A_IW_GRDH_1SDV_20250712T154855" {
			t.Errorf("GranuleName = %q", r.GranuleName)
		}
		if !r.TimeValid {
			t.Error("TimeValid = false")
		}
		if r.Polarization != "VV+VH" {
			t.Errorf("Polarization = %q, want VV+VH", r.Polarization)
		}
		if r.OrbitDirection != "descending" {
			t.Errorf("OrbitDirection = %q", r.OrbitDirection)
		}
		if r.URL != "s3://eodata/S1A_IW_GRDH.SAFE" {
			t.Errorf("URL = %q", r.URL)
		}
		if r.Source != "sentinel_hub" {
			t.Errorf("Source = %q", r.Source)
		}
	})

	t.Run("empty feature survives as sentinels", func(t *testing.T) {
		r := normalizeSentinelHub(sentinelhub.Feature{})
		if r.GranuleName != types.UnknownGranule {
			t.Errorf("GranuleName = %q, want %q", r.GranuleName, types.UnknownGranule)
		}
		if r.TimeValid {
			t.Error("TimeValid = true for empty feature")
		}
		if len(r.ParseNotes) == 0 {
			t.Error("ParseNotes empty, want diagnostics")
		}
		if r.Polarization != types.Unknown {
			t.Errorf("Polarization = %q, want unknown", r.Polarization)
		}
	})
}
