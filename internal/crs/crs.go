// Package crs normalizes datasets to the canonical reference system and
// maps external CRS declarations (.prj text, GeoJSON crs members) to codes.
package crs

import (
	"fmt"

	"github.com/paulmach/orb/project"
	"github.com/rs/zerolog/log"

	"github.com/geoforge/geoedit/internal/geodata"
)

// Canonical is the reference system every in-memory dataset is normalized to.
const Canonical = "EPSG:4326"

// CanonicalGeoJSONName is the legacy crs-member name written on export.
const CanonicalGeoJSONName = "urn:ogc:def:crs:OGC:1.3:CRS84"

// CanonicalWKT is the well-known-text definition written to exported .prj
// components.
const CanonicalWKT = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// Normalize rewrites ds in place so its CRS equals Canonical.
//
// An unset CRS is assumed canonical and assigned without transforming any
// coordinates. A declared non-canonical CRS is reprojected geometry by
// geometry. Applying Normalize twice yields the same dataset as applying
// it once.
func Normalize(ds *geodata.Dataset) error {
	switch ds.CRS {
	case "":
		log.Info().Str("crs", Canonical).Msg("Dataset has no declared CRS, assuming canonical")
		ds.CRS = Canonical
		return nil
	case Canonical:
		return nil
	}

	proj := forCode(ds.CRS)
	if proj == nil {
		return fmt.Errorf("%w: %s", geodata.ErrUnsupportedCRS, ds.CRS)
	}

	log.Debug().
		Str("from", ds.CRS).
		Str("to", Canonical).
		Int("features", ds.FeatureCount()).
		Msg("Reprojecting dataset")

	for i := range ds.Features {
		ds.Features[i].Geometry = project.Geometry(ds.Features[i].Geometry, proj.ToWGS84)
	}
	ds.CRS = Canonical

	return nil
}
