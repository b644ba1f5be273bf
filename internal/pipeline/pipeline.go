// Package pipeline is the collaborator-facing surface of the core: it wires
// detection, extraction, loading, normalization, merging and export into the
// three calls the presentation layer needs. It holds no dataset state; the
// caller owns the dataset between calls.
package pipeline

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/geoforge/geoedit/internal/bundle"
	"github.com/geoforge/geoedit/internal/crs"
	"github.com/geoforge/geoedit/internal/export"
	"github.com/geoforge/geoedit/internal/format"
	"github.com/geoforge/geoedit/internal/geodata"
	"github.com/geoforge/geoedit/internal/loader"
	"github.com/geoforge/geoedit/internal/merge"
)

// Pipeline carries shared settings for core operations.
type Pipeline struct {
	// ScratchDir roots the transient extraction and export directories.
	// Empty means the OS temp dir.
	ScratchDir string
}

// Load ingests an uploaded payload and returns a dataset normalized to the
// canonical reference system. The filename decides the format; unpacked
// bundle scratch storage is released before Load returns.
func (p *Pipeline) Load(raw []byte, filename string) (*geodata.Dataset, error) {
	var ds *geodata.Dataset

	switch kind := format.Detect(filename); kind {
	case format.Bundle:
		ext, err := bundle.Extract(raw, p.ScratchDir)
		if err != nil {
			return nil, err
		}
		defer func() { _ = ext.Close() }()

		if ds, err = loader.FromShapefile(ext.ShpPath); err != nil {
			return nil, err
		}
	case format.FeatureCollection:
		var err error
		if ds, err = loader.FromFeatureCollection(raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q (want a .zip shapefile bundle or a .geojson file)",
			geodata.ErrUnsupportedFormat, filename)
	}

	if err := crs.Normalize(ds); err != nil {
		return nil, err
	}

	log.Info().
		Str("file", filename).
		Int("features", ds.FeatureCount()).
		Str("crs", ds.CRS).
		Msg("Dataset loaded")

	return ds, nil
}

// MergeDrawn appends drawn geometries (already canonical) to ds and returns
// how many were actually added. Invalid features are skipped, not fatal.
func (p *Pipeline) MergeDrawn(ds *geodata.Dataset, drawn []byte) (int, error) {
	return merge.Drawn(ds, drawn)
}

// Export serializes ds to the requested format and returns the payload with
// its download filename and mimetype.
func (p *Pipeline) Export(ds *geodata.Dataset, f export.Format) (*export.Result, error) {
	return export.Dataset(ds, f, p.ScratchDir)
}
