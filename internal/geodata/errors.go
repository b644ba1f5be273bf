package geodata

import "errors"

// Error kinds surfaced by the pipeline. Callers classify with errors.Is;
// messages wrapped around them carry the human-readable detail.
var (
	// ErrUnsupportedFormat marks an upload whose extension is neither a
	// zipped shapefile bundle nor GeoJSON text.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrMissingBundleComponent marks an extracted bundle that contains no
	// .shp geometry component.
	ErrMissingBundleComponent = errors.New("no .shp component found in archive")

	// ErrGeometryParse marks malformed geometry encoding or structurally
	// invalid feature records, for a whole source or a single feature.
	ErrGeometryParse = errors.New("malformed geometry")

	// ErrUnsupportedCRS marks a declared reference system the projection
	// registry cannot reproject from.
	ErrUnsupportedCRS = errors.New("unsupported coordinate reference system")

	// ErrExportIO marks a write or archive failure during export.
	ErrExportIO = errors.New("export failed")
)
