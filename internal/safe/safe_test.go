// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package safe

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type archiveEntry struct {
	name    string
	content string // ignored for directory entries (trailing slash)
}

func writeArchive(t *testing.T, path string, entries []archiveEntry) {
	t.Helper()
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating archive: %v", err)
	}
	zw := zip.NewWriter(out)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("adding %s: %v", e.name, err)
		}
		if _, err := w.Write([]byte(e.content)); err != nil {
			t.Fatalf("writing %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("closing file: %v", err)
	}
}

const productName = "S1A_IW_GRDH_1SDV_20260810T031500.SAFE"

func completeArchiveEntries() []archiveEntry {
	return []archiveEntry{
		{name: productName + "/"},
		{name: productName + "/manifest.safe", content: "<xfdu/>"},
		{name: productName + "/annotation/", content: ""},
		{name: productName + "/annotation/s1a-iw-grd-vv.xml", content: "<a/>"},
		{name: productName + "/measurement/s1a-iw-grd-vv-001.tiff", content: "II*"},
		{name: productName + "/measurement/s1a-iw-grd-vh-002.tiff", content: "II*"},
		{name: productName + "/preview/quick-look.png", content: "png"},
	}
}

func TestExtractAndVerifyComplete(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "product.zip")
	writeArchive(t, archive, completeArchiveEntries())

	dest := filepath.Join(dir, "out")
	productPath, err := ExtractAndVerify(archive, dest)
	if err != nil {
		t.Fatalf("ExtractAndVerify: %v", err)
	}
	if want := filepath.Join(dest, productName); productPath != want {
		t.Errorf("product path = %s, want %s", productPath, want)
	}
	if _, err := os.Stat(filepath.Join(productPath, "manifest.safe")); err != nil {
		t.Errorf("manifest missing after extraction: %v", err)
	}
}

func TestExtractNoProductRoot(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "junk.zip")
	writeArchive(t, archive, []archiveEntry{
		{name: "readme.txt", content: "not a product"},
	})

	_, err := Extract(archive, filepath.Join(dir, "out"))
	if !errors.Is(err, ErrNoProductRoot) {
		t.Fatalf("err = %v, want ErrNoProductRoot", err)
	}
}

func TestExtractWithoutDirectoryEntries(t *testing.T) {
	// Some producers omit explicit directory members; the product root is
	// then only visible as a leading path segment.
	dir := t.TempDir()
	archive := filepath.Join(dir, "flat.zip")
	writeArchive(t, archive, []archiveEntry{
		{name: productName + "/manifest.safe", content: "<xfdu/>"},
	})

	productPath, err := Extract(archive, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, err := os.Stat(filepath.Join(productPath, "manifest.safe")); err != nil {
		t.Errorf("manifest missing: %v", err)
	}
}

func TestExtractReplacesExistingProduct(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "product.zip")
	writeArchive(t, archive, completeArchiveEntries())

	dest := filepath.Join(dir, "out")
	stale := filepath.Join(dest, productName, "stale.txt")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("leftover"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Extract(archive, dest); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale file survived re-extraction")
	}
}

func TestExtractRejectsEscapingPaths(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.zip")
	writeArchive(t, archive, []archiveEntry{
		{name: productName + "/../../evil.txt", content: "nope"},
	})

	if _, err := Extract(archive, filepath.Join(dir, "out")); err == nil {
		t.Fatal("expected error for escaping member path")
	}
}

func TestVerifyFailures(t *testing.T) {
	tests := []struct {
		name string
		drop func(entries []archiveEntry) []archiveEntry
	}{
		{
			name: "missing preview directory",
			drop: dropByName(productName + "/preview/quick-look.png"),
		},
		{
			name: "missing manifest",
			drop: dropByName(productName + "/manifest.safe"),
		},
		{
			name: "no measurement tiffs",
			drop: func(entries []archiveEntry) []archiveEntry {
				out := entries[:0]
				for _, e := range entries {
					if filepath.Ext(e.name) == ".tiff" {
						e.name = e.name[:len(e.name)-len(".tiff")] + ".dat"
					}
					out = append(out, e)
				}
				// Keep the directory visible so only the tiff check fires.
				return out
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			archive := filepath.Join(dir, "product.zip")
			writeArchive(t, archive, tc.drop(completeArchiveEntries()))

			productPath, err := Extract(archive, filepath.Join(dir, "out"))
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if err := Verify(productPath); !errors.Is(err, ErrStructureInvalid) {
				t.Errorf("Verify err = %v, want ErrStructureInvalid", err)
			}
		})
	}
}

func dropByName(name string) func([]archiveEntry) []archiveEntry {
	return func(entries []archiveEntry) []archiveEntry {
		var out []archiveEntry
		for _, e := range entries {
			if e.name != name {
				out = append(out, e)
			}
		}
		return out
	}
}

func TestVerifyNoRecognizedPolarization(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "product.zip")
	entries := []archiveEntry{
		{name: productName + "/manifest.safe", content: "<xfdu/>"},
		{name: productName + "/annotation/a.xml", content: "<a/>"},
		{name: productName + "/measurement/band-unknown.tiff", content: "II*"},
		{name: productName + "/preview/quick-look.png", content: "png"},
	}
	writeArchive(t, archive, entries)

	productPath, err := Extract(archive, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if err := Verify(productPath); !errors.Is(err, ErrStructureInvalid) {
		t.Errorf("Verify err = %v, want ErrStructureInvalid", err)
	}
}

func TestMeasurementFilesByPolarization(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "product.zip")
	writeArchive(t, archive, completeArchiveEntries())

	productPath, err := Extract(archive, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	byPol, err := MeasurementFilesByPolarization(productPath)
	if err != nil {
		t.Fatalf("MeasurementFilesByPolarization: %v", err)
	}
	if len(byPol) != 2 {
		t.Fatalf("polarization count = %d, want 2 (%v)", len(byPol), byPol)
	}
	for _, pol := range []string{"VV", "VH"} {
		if _, ok := byPol[pol]; !ok {
			t.Errorf("missing polarization %s", pol)
		}
	}
}
