// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package safe extracts downloaded product archives and verifies the
// unpacked SAFE directory against the required-content contract:
// annotation, measurement and preview subdirectories, a manifest.safe
// file, and at least one recognizable polarization among the measurement
// files.
package safe

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoProductRoot indicates the archive contains no top-level .SAFE
// product directory.
var ErrNoProductRoot = errors.New("no .SAFE product root in archive")

// ErrStructureInvalid indicates the unpacked product fails one of the
// required-content checks. The extracted directory is left on disk for
// inspection; callers must not treat the product as usable.
var ErrStructureInvalid = errors.New("SAFE structure invalid")

const (
	productSuffix = ".SAFE"
	manifestFile  = "manifest.safe"
)

// requiredDirs are the subdirectories every usable product must carry.
var requiredDirs = []string{"annotation", "measurement", "preview"}

// polarizations are the recognized transmit/receive tags, matched as
// lowercase substrings of measurement filenames. Order matters: a
// filename is assigned to the first tag it contains.
var polarizations = []string{"vv", "vh", "hh", "hv"}

// ExtractAndVerify unpacks the archive's product directory into destDir
// and runs the structure checks. On a verification failure the extracted
// tree is retained and the error wraps ErrStructureInvalid.
func ExtractAndVerify(archivePath, destDir string) (string, error) {
	productPath, err := Extract(archivePath, destDir)
	if err != nil {
		return "", err
	}
	if err := Verify(productPath); err != nil {
		return "", err
	}
	return productPath, nil
}

// Extract locates the product root inside the archive and unpacks it to
// destDir. An existing product directory of the same name is removed
// first; extraction is all-or-nothing per run, never a partial merge.
func Extract(archivePath, destDir string) (string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer zr.Close()

	root := findProductRoot(&zr.Reader)
	if root == "" {
		return "", fmt.Errorf("%w: %s", ErrNoProductRoot, filepath.Base(archivePath))
	}

	productPath := filepath.Join(destDir, root)
	if _, err := os.Stat(productPath); err == nil {
		if err := os.RemoveAll(productPath); err != nil {
			return "", fmt.Errorf("removing existing product %s: %w", productPath, err)
		}
	}

	for _, f := range zr.File {
		if f.Name != root && !strings.HasPrefix(f.Name, root+"/") {
			continue
		}
		if err := extractMember(f, destDir); err != nil {
			return "", fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}

	return productPath, nil
}

// findProductRoot returns the name of the first top-level entry carrying
// the product suffix. Archives without explicit directory entries are
// handled by inspecting each member's leading path segment.
func findProductRoot(zr *zip.Reader) string {
	for _, f := range zr.File {
		seg, _, _ := strings.Cut(f.Name, "/")
		if strings.HasSuffix(seg, productSuffix) {
			return seg
		}
	}
	return ""
}

func extractMember(f *zip.File, destDir string) error {
	// Reject member names that would escape destDir.
	if !filepath.IsLocal(filepath.FromSlash(f.Name)) {
		return fmt.Errorf("unsafe member path %q", f.Name)
	}
	target := filepath.Join(destDir, filepath.FromSlash(f.Name))

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	_, copyErr := io.Copy(out, rc)
	closeErr := out.Close()
	if copyErr != nil {
		return copyErr
	}
	return closeErr
}

// Verify runs the required-content checks in order. It is read-only; a
// failing product stays on disk.
func Verify(productPath string) error {
	for _, dir := range requiredDirs {
		info, err := os.Stat(filepath.Join(productPath, dir))
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: missing directory %s", ErrStructureInvalid, dir)
		}
	}

	tiffs, err := measurementFiles(productPath)
	if err != nil {
		return fmt.Errorf("%w: reading measurement directory: %v", ErrStructureInvalid, err)
	}
	if len(tiffs) == 0 {
		return fmt.Errorf("%w: no imaging data files in measurement", ErrStructureInvalid)
	}

	if _, err := os.Stat(filepath.Join(productPath, manifestFile)); err != nil {
		return fmt.Errorf("%w: missing %s", ErrStructureInvalid, manifestFile)
	}

	byPol, err := MeasurementFilesByPolarization(productPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStructureInvalid, err)
	}
	if len(byPol) == 0 {
		return fmt.Errorf("%w: no recognized polarization among measurement files", ErrStructureInvalid)
	}

	return nil
}

// MeasurementFilesByPolarization maps each recognized polarization tag to
// a measurement file carrying it. The mapping is exposed independently of
// verification for downstream consumers; the first file per tag in
// lexical order wins.
func MeasurementFilesByPolarization(productPath string) (map[string]string, error) {
	tiffs, err := measurementFiles(productPath)
	if err != nil {
		return nil, err
	}

	byPol := make(map[string]string)
	for _, path := range tiffs {
		name := strings.ToLower(filepath.Base(path))
		for _, pol := range polarizations {
			if strings.Contains(name, pol) {
				key := strings.ToUpper(pol)
				if _, ok := byPol[key]; !ok {
					byPol[key] = path
				}
				break
			}
		}
	}
	return byPol, nil
}

// measurementFiles returns the imaging data files in lexical order.
func measurementFiles(productPath string) ([]string, error) {
	pattern := filepath.Join(productPath, "measurement", "*.tiff")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	return matches, nil
}
