// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selector picks the scenes to acquire from a normalized search
// result set: the most recent acquisition plus the acquisition closest to
// the lookback target, de-duplicated by granule name. Selection is a pure
// function of (records, daysBack, now) so identical inputs always produce
// identical output.
package selector

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/pdiddy/sar-ingest/pkg/types"
)

// ErrNoValidScenes indicates the result set contains no record with a
// parsable acquisition time.
var ErrNoValidScenes = errors.New("no scenes with valid acquisition times")

// Selection is an ordered sequence of at most two distinct scene records,
// most recent first.
type Selection struct {
	Scenes []types.SceneRecord

	// ClosestDaysOff is the absolute day distance between the
	// closest-to-target pick and the lookback target.
	ClosestDaysOff int
}

// GranuleNames returns the selected granule names in order.
func (s Selection) GranuleNames() []string {
	names := make([]string, len(s.Scenes))
	for i, scene := range s.Scenes {
		names[i] = scene.GranuleName
	}
	return names
}

// Select applies the two-anchor policy. Records whose acquisition time
// failed to parse are dropped first; if none remain the selection is empty
// and ErrNoValidScenes is returned. The closest-to-target tie-break is the
// first record in the original input order with the minimum day distance,
// never the sorted order.
func Select(records []types.SceneRecord, daysBack int, now time.Time) (Selection, error) {
	valid := make([]types.SceneRecord, 0, len(records))
	for _, r := range records {
		if r.TimeValid {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return Selection{}, ErrNoValidScenes
	}

	// Stable sort keeps the earliest-discovered record first among equal
	// acquisition times, so the most-recent pick is deterministic too.
	sorted := make([]types.SceneRecord, len(valid))
	copy(sorted, valid)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AcquisitionTime.After(sorted[j].AcquisitionTime)
	})
	mostRecent := sorted[0]

	target := now.AddDate(0, 0, -daysBack)
	closest := valid[0]
	closestDays := daysApart(valid[0].AcquisitionTime, target)
	for _, r := range valid[1:] {
		if d := daysApart(r.AcquisitionTime, target); d < closestDays {
			closest = r
			closestDays = d
		}
	}

	sel := Selection{Scenes: []types.SceneRecord{mostRecent}, ClosestDaysOff: closestDays}
	if closest.GranuleName != mostRecent.GranuleName {
		sel.Scenes = append(sel.Scenes, closest)
	}
	return sel, nil
}

// daysApart returns the whole-day distance from target to t. The signed
// day count floors before taking the absolute value, so a scene hours
// after the target scores zero while one hours before scores one.
func daysApart(t, target time.Time) int {
	d := int(math.Floor(t.Sub(target).Hours() / 24))
	if d < 0 {
		d = -d
	}
	return d
}
