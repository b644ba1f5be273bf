// Package export serializes datasets to their interchange formats.
package export

import (
	"fmt"
	"strings"

	"github.com/geoforge/geoedit/internal/geodata"
)

// Format selects the export target.
type Format int

const (
	// GeoJSON is the text feature-collection format.
	GeoJSON Format = iota
	// Shapefile is the zipped multi-file bundle format.
	Shapefile
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "geojson", "json":
		return GeoJSON, nil
	case "shapefile", "shp", "zip":
		return Shapefile, nil
	}
	return 0, fmt.Errorf("%w: unknown export format %q", geodata.ErrUnsupportedFormat, s)
}

// Result is one downloadable export artifact.
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

// Dataset serializes ds in the requested format. Bundle exports stage their
// component files under scratchRoot (the OS temp dir when empty); scratch
// storage is released on every exit path.
func Dataset(ds *geodata.Dataset, format Format, scratchRoot string) (*Result, error) {
	switch format {
	case GeoJSON:
		return toGeoJSON(ds)
	case Shapefile:
		return toShapefileBundle(ds, scratchRoot)
	}
	return nil, fmt.Errorf("%w: unknown export format %d", geodata.ErrUnsupportedFormat, format)
}

// basename is the shared output name stem: datasets with merged geometries
// export as "edited_file", untouched conversions as "converted".
func basename(ds *geodata.Dataset) string {
	if ds.Edited() {
		return "edited_file"
	}
	return "converted"
}
