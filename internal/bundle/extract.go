// Package bundle unpacks zipped shapefile archives into scratch storage.
package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/geoforge/geoedit/internal/geodata"
)

// Extraction is an unpacked bundle rooted in a scratch directory. The .shp
// component's siblings (.dbf, .shx, .prj) live in Dir under the same
// basename. Close releases the scratch directory with everything in it.
type Extraction struct {
	ShpPath string
	Dir     string
}

// Close removes the scratch directory.
func (e *Extraction) Close() error {
	return os.RemoveAll(e.Dir)
}

// Extract unpacks a zip payload into a fresh scratch directory under
// scratchRoot (the OS temp dir when empty) and locates the primary .shp
// component. When several .shp entries exist, the first in sorted name
// order wins; callers should not rely on the tie-break beyond that. The
// scratch directory is released on every failure path.
func Extract(payload []byte, scratchRoot string) (*Extraction, error) {
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive: %v", geodata.ErrGeometryParse, err)
	}

	dir, err := os.MkdirTemp(scratchRoot, "geoedit-bundle-*")
	if err != nil {
		return nil, err
	}

	if err := unpack(zr, dir); err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}

	shpPath, err := findShp(dir)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}

	log.Debug().Str("shp", filepath.Base(shpPath)).Str("dir", dir).Msg("Bundle extracted")

	return &Extraction{ShpPath: shpPath, Dir: dir}, nil
}

// unpack writes every archive file into dir by base name. Flattening keeps
// companion files siblings no matter how the archive nests them, and
// discards any path traversal in entry names.
func unpack(zr *zip.Reader, dir string) error {
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}

		name := filepath.Base(filepath.ToSlash(f.Name))
		if name == "." || name == ".." || name == "/" || strings.HasPrefix(name, "._") {
			continue
		}

		if err := writeEntry(f, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(f *zip.File, dst string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// findShp returns the primary geometry component of the extracted bundle.
func findShp(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var names []string
	for _, e := range entries {
		if strings.EqualFold(filepath.Ext(e.Name()), ".shp") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", geodata.ErrMissingBundleComponent
	}

	sort.Strings(names)
	if len(names) > 1 {
		log.Warn().Strs("candidates", names).Msg("Multiple .shp components in bundle, using first")
	}

	return filepath.Join(dir, names[0]), nil
}
