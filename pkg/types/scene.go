// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared records and configuration structs used
// across the ingestion pipeline stages.
package types

import "time"

// UnknownGranule is the sentinel granule name assigned when a provider
// record carries none of the recognized name fields.
const UnknownGranule = "unknown_granule"

// Unknown is the sentinel value for absent free-form provider fields.
const Unknown = "unknown"

// SceneRecord is one normalized search hit. It is created by a provider
// backend from a single raw record and never mutated afterwards; the
// granule name is the de-duplication key across all selection logic.
type SceneRecord struct {
	GranuleName     string    `json:"granule_name" yaml:"granule_name"`
	AcquisitionTime time.Time `json:"acquisition_time" yaml:"acquisition_time"`

	// TimeValid reports whether AcquisitionTime parsed successfully.
	// Records with invalid times survive normalization but are excluded
	// from selection.
	TimeValid bool `json:"time_valid" yaml:"time_valid"`

	Platform       string  `json:"platform" yaml:"platform"`
	BeamMode       string  `json:"beam_mode" yaml:"beam_mode"`
	OrbitDirection string  `json:"orbit_direction" yaml:"orbit_direction"`
	Polarization   string  `json:"polarization" yaml:"polarization"`
	URL            string  `json:"url" yaml:"url"`
	SizeMB         float64 `json:"size_mb" yaml:"size_mb"`
	PathNumber     string  `json:"path_number" yaml:"path_number"`
	FrameNumber    string  `json:"frame_number" yaml:"frame_number"`

	// Source names the provider backend that produced this record.
	Source string `json:"source" yaml:"source"`

	// ParseNotes collects per-field normalization diagnostics. A malformed
	// field yields a sentinel value plus a note here, never a batch failure.
	ParseNotes []string `json:"parse_notes,omitempty" yaml:"parse_notes,omitempty"`
}

// AcquisitionStage identifies how far a scene progressed through the
// download, extract, verify sequence.
type AcquisitionStage string

const (
	StageNotStarted AcquisitionStage = "not_started"
	StageDownloaded AcquisitionStage = "downloaded"
	StageExtracted  AcquisitionStage = "extracted"
	StageVerified   AcquisitionStage = "verified"
	StageFailed     AcquisitionStage = "failed"
)

// AcquisitionOutcome is the terminal record for one scene's acquisition
// attempt. Outcomes are immutable; a retry produces a new outcome.
type AcquisitionOutcome struct {
	GranuleName  string           `json:"granule_name"`
	StageReached AcquisitionStage `json:"stage_reached"`
	FinalPath    string           `json:"final_path,omitempty"`
	Error        string           `json:"error,omitempty"`

	// Skipped reports that the verified product already existed and no
	// network or extraction work was performed.
	Skipped bool `json:"skipped,omitempty"`
}

// Verified reports whether the scene reached the verified terminal stage.
func (o AcquisitionOutcome) Verified() bool {
	return o.StageReached == StageVerified
}

// SceneMetadata is the per-scene JSON snapshot written under the download
// directory before any network activity, so failed attempts stay auditable.
type SceneMetadata struct {
	SceneRecord

	StageReached AcquisitionStage `json:"stage_reached"`
	AttemptedAt  time.Time        `json:"attempted_at"`
	FinalPath    string           `json:"final_path,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// TimeRange is the searched acquisition window.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SourceCounts aggregates per-provider results for a run.
type SourceCounts struct {
	Found      int `json:"found"`
	Selected   int `json:"selected,omitempty"`
	Downloaded int `json:"downloaded"`
}

// RunSummary is the durable record of one pipeline run. It is created once
// per run, written as pipeline_summary_<timestamp>.json, and never mutated.
type RunSummary struct {
	ExecutionTime  time.Time            `json:"execution_time"`
	TimeRange      TimeRange            `json:"time_range"`
	TargetDaysBack int                  `json:"target_days_back"`
	ASF            SourceCounts         `json:"asf_results"`
	SentinelHub    SourceCounts         `json:"sentinel_hub_results"`
	SearchErrors   []string             `json:"search_errors,omitempty"`
	SelectedScenes []string             `json:"selected_scenes"`
	Outcomes       []AcquisitionOutcome `json:"outcomes"`
	TotalFiles     int                  `json:"total_files"`
}
