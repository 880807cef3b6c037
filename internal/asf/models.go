// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package asf

import (
	"encoding/json"
	"strconv"
	"strings"
)

// GeoJSONResponse is ASF's FeatureCollection search response.
type GeoJSONResponse struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single search hit.
type Feature struct {
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
}

// Properties carries the granule metadata the normalizer consumes. The
// name and time fields mirror the fallback chains the pipeline applies:
// ASF has shipped the granule name and acquisition time under several
// property names over the years.
type Properties struct {
	SceneName   string `json:"sceneName"`
	FileName    string `json:"fileName"`
	GranuleName string `json:"granuleName"`
	ProductName string `json:"productName"`

	StartTime       string `json:"startTime"`
	AcquisitionDate string `json:"acquisitionDate"`
	SensingTime     string `json:"sensingTime"`

	Platform        string `json:"platform"`
	BeamModeType    string `json:"beamModeType"`
	FlightDirection string `json:"flightDirection"`
	Polarization    string `json:"polarization"`

	URL string `json:"url"`

	// Bytes can arrive as a JSON number or a quoted string depending on
	// the ASF response path.
	Bytes FlexInt64 `json:"bytes"`

	PathNumber  FlexString `json:"pathNumber"`
	FrameNumber FlexString `json:"frameNumber"`
}

// FlexInt64 decodes a JSON number or numeric string into an int64.
// Anything unparsable decodes to zero without failing the record.
type FlexInt64 int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if fl, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			*f = FlexInt64(int64(fl))
			return nil
		}
		*f = 0
		return nil
	}
	*f = FlexInt64(n)
	return nil
}

// FlexString decodes a JSON string or number into a string, covering the
// path/frame indices that ASF serves inconsistently typed.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	*f = ""
	return nil
}
