// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package geometry

import (
	"testing"
)

var gazaRing = [][2]float64{
	{34.271, 31.367},
	{34.271, 31.308},
	{34.364, 31.308},
	{34.364, 31.367},
	{34.271, 31.367},
}

func TestFromCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		coords  [][2]float64
		wantErr bool
	}{
		{"valid closed ring", gazaRing, false},
		{"too few points", [][2]float64{{0, 0}, {1, 1}, {0, 0}}, true},
		{"open ring", [][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}}, true},
		{"longitude out of range", [][2]float64{{-181, 0}, {0, 1}, {1, 1}, {-181, 0}}, true},
		{"latitude out of range", [][2]float64{{0, 91}, {0, 1}, {1, 1}, {0, 91}}, true},
		{"empty", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromCoordinates(tt.coords)
			if (err != nil) != tt.wantErr {
				t.Errorf("FromCoordinates() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	p, err := FromCoordinates(gazaRing)
	if err != nil {
		t.Fatalf("FromCoordinates() error = %v", err)
	}
	b := p.Bounds()
	if b.West != 34.271 || b.South != 31.308 || b.East != 34.364 || b.North != 31.367 {
		t.Errorf("Bounds() = %+v, want west=34.271 south=31.308 east=34.364 north=31.367", b)
	}
	got := b.Slice()
	want := []float64{34.271, 31.308, 34.364, 31.367}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Slice()[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestWKT(t *testing.T) {
	p := Polygon{{-74, 40.7}, {-74, 40.8}, {-73.9, 40.8}, {-73.9, 40.7}, {-74, 40.7}}
	want := "POLYGON((-74 40.7,-74 40.8,-73.9 40.8,-73.9 40.7,-74 40.7))"
	if got := p.WKT(); got != want {
		t.Errorf("WKT() = %q, want %q", got, want)
	}
}
