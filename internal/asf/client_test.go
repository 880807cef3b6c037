// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package asf

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, "/services/search/param") {
			t.Errorf("expected search path, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("platform") != "SENTINEL-1" {
			t.Errorf("platform = %q, want SENTINEL-1", q.Get("platform"))
		}
		if q.Get("processingLevel") != "SLC" {
			t.Errorf("processingLevel = %q, want SLC", q.Get("processingLevel"))
		}
		if q.Get("maxResults") != "100" {
			t.Errorf("maxResults = %q, want 100", q.Get("maxResults"))
		}
		if !strings.HasPrefix(q.Get("intersectsWith"), "POLYGON((") {
			t.Errorf("intersectsWith = %q, want WKT polygon", q.Get("intersectsWith"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"type": "FeatureCollection",
			"features": [{
				"type": "Feature",
				"properties": {
					"sceneName": "S1A_IW_SLC__1SDV_20250714T154854",
					"startTime": "2025-07-14T15:48:54.000000Z",
					"platform": "Sentinel-1A",
					"beamModeType": "IW",
					"flightDirection": "DESCENDING",
					"polarization": "VV+VH",
					"url": "https://datapool.asf.alaska.edu/SLC/SA/test.zip",
					"bytes": "4608380421",
					"pathNumber": 87,
					"frameNumber": "471"
				}
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sar-ingest/test", 30*time.Second)
	start := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

	resp, err := client.Search(context.Background(), SearchParams{
		Platform:        []string{"SENTINEL-1"},
		ProcessingLevel: []string{"SLC"},
		IntersectsWith:  "POLYGON((34.271 31.367,34.271 31.308,34.364 31.308,34.364 31.367,34.271 31.367))",
		Start:           &start,
		End:             &end,
		MaxResults:      100,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(resp.Features) != 1 {
		t.Fatalf("got %d features, want 1", len(resp.Features))
	}
	p := resp.Features[0].Properties
	if p.SceneName != "S1A_IW_SLC__1SDV_20250714T154854" {
		t.Errorf("SceneName = %q", p.SceneName)
	}
	if int64(p.Bytes) != 4608380421 {
		t.Errorf("Bytes = %d, want 4608380421", p.Bytes)
	}
	if string(p.PathNumber) != "87" || string(p.FrameNumber) != "471" {
		t.Errorf("PathNumber/FrameNumber = %q/%q, want 87/471", p.PathNumber, p.FrameNumber)
	}
}

func TestClientSearchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad query", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, "sar-ingest/test", 5*time.Second)
	_, err := client.Search(context.Background(), SearchParams{})
	if err == nil || !strings.Contains(err.Error(), "HTTP 400") {
		t.Errorf("Search() error = %v, want HTTP 400", err)
	}
}

func TestFlexDecoding(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantBytes int64
		wantPath  string
	}{
		{"numeric bytes", `{"bytes": 1048576, "pathNumber": "12"}`, 1048576, "12"},
		{"string bytes", `{"bytes": "1048576", "pathNumber": 12}`, 1048576, "12"},
		{"float bytes", `{"bytes": 1048576.0, "pathNumber": null}`, 1048576, ""},
		{"garbage bytes", `{"bytes": "lots", "pathNumber": "unknown"}`, 0, "unknown"},
		{"absent", `{}`, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Properties
			if err := json.Unmarshal([]byte(tt.input), &p); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if int64(p.Bytes) != tt.wantBytes {
				t.Errorf("Bytes = %d, want %d", p.Bytes, tt.wantBytes)
			}
			if string(p.PathNumber) != tt.wantPath {
				t.Errorf("PathNumber = %q, want %q", p.PathNumber, tt.wantPath)
			}
		})
	}
}

func TestSearchParamsGranuleList(t *testing.T) {
	// granule_list and maxResults are mutually exclusive on the ASF side.
	v := SearchParams{GranuleList: []string{"G1", "G2"}, MaxResults: 50}.ToURLValues()
	if v.Get("granule_list") != "G1,G2" {
		t.Errorf("granule_list = %q, want G1,G2", v.Get("granule_list"))
	}
	if v.Has("maxResults") {
		t.Error("maxResults should be omitted when granule_list is set")
	}
}
