// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package geometry derives bounding boxes and WKT strings from the
// configured area-of-interest ring. Coordinates are [lon, lat] in WGS84.
package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Polygon is a single closed ring of [lon, lat] vertices.
type Polygon [][2]float64

// FromCoordinates builds a Polygon from configuration coordinates and
// validates it. The ring must have at least 3 distinct vertices; an open
// ring (first != last) is rejected so degenerate areas fail at config time.
func FromCoordinates(coords [][2]float64) (Polygon, error) {
	p := Polygon(coords)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the ring shape. Self-intersection is not checked here;
// the configured area is assumed sane beyond basic ring validity.
func (p Polygon) Validate() error {
	if len(p) < 4 {
		return fmt.Errorf("polygon needs at least 3 vertices plus a closing pair, got %d points", len(p))
	}
	first, last := p[0], p[len(p)-1]
	if first != last {
		return fmt.Errorf("polygon ring is not closed: first point %v != last point %v", first, last)
	}
	for i, pt := range p {
		if pt[0] < -180 || pt[0] > 180 || pt[1] < -90 || pt[1] > 90 {
			return fmt.Errorf("point %d out of WGS84 range: [%g, %g]", i, pt[0], pt[1])
		}
	}
	return nil
}

// BBox is a geographic bounding box.
type BBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// Bounds returns the bounding box of the ring.
func (p Polygon) Bounds() BBox {
	b := BBox{West: math.Inf(1), South: math.Inf(1), East: math.Inf(-1), North: math.Inf(-1)}
	for _, pt := range p {
		b.West = math.Min(b.West, pt[0])
		b.East = math.Max(b.East, pt[0])
		b.South = math.Min(b.South, pt[1])
		b.North = math.Max(b.North, pt[1])
	}
	return b
}

// Slice returns the box as [west, south, east, north].
func (b BBox) Slice() []float64 {
	return []float64{b.West, b.South, b.East, b.North}
}

// WKT renders the ring as a POLYGON well-known-text string, the geometry
// format the ASF search API accepts for intersection queries.
func (p Polygon) WKT() string {
	var sb strings.Builder
	sb.WriteString("POLYGON((")
	for i, pt := range p {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(formatCoord(pt[0]))
		sb.WriteString(" ")
		sb.WriteString(formatCoord(pt[1]))
	}
	sb.WriteString("))")
	return sb.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
