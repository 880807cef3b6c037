// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package asf

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SearchParams holds the query parameters for a granule search. Only the
// parameters the ingestion pipeline uses are modelled; the ASF API accepts
// many more.
type SearchParams struct {
	// Platform filters by mission (e.g. "SENTINEL-1").
	Platform []string

	// ProcessingLevel filters by product type (e.g. "SLC", "GRD_HD").
	ProcessingLevel []string

	// IntersectsWith is a WKT geometry the scene footprint must intersect.
	IntersectsWith string

	// Start and End bound the acquisition time (inclusive).
	Start *time.Time
	End   *time.Time

	// GranuleList selects specific granules by name. The ASF API rejects
	// maxResults when granule_list is present.
	GranuleList []string

	// MaxResults caps the result count.
	MaxResults int

	// Output is the response format; defaults to geojson.
	Output string
}

// ToURLValues renders the parameters as an ASF query string.
func (p SearchParams) ToURLValues() url.Values {
	values := url.Values{}

	if len(p.Platform) > 0 {
		values.Set("platform", strings.Join(p.Platform, ","))
	}
	if len(p.ProcessingLevel) > 0 {
		values.Set("processingLevel", strings.Join(p.ProcessingLevel, ","))
	}
	if p.IntersectsWith != "" {
		values.Set("intersectsWith", p.IntersectsWith)
	}
	if p.Start != nil {
		values.Set("start", p.Start.UTC().Format(time.RFC3339))
	}
	if p.End != nil {
		values.Set("end", p.End.UTC().Format(time.RFC3339))
	}
	if len(p.GranuleList) > 0 {
		values.Set("granule_list", strings.Join(p.GranuleList, ","))
	} else if p.MaxResults > 0 {
		values.Set("maxResults", strconv.Itoa(p.MaxResults))
	}

	output := p.Output
	if output == "" {
		output = "geojson"
	}
	values.Set("output", output)

	return values
}
