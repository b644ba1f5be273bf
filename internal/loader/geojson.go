// Package loader parses geometry sources into in-memory datasets.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"github.com/geoforge/geoedit/internal/crs"
	"github.com/geoforge/geoedit/internal/geodata"
)

// FromFeatureCollection parses GeoJSON text into a dataset. The CRS is
// taken from the legacy crs member when present and left unset otherwise;
// normalization decides what an unset CRS means.
func FromFeatureCollection(data []byte) (*geodata.Dataset, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty feature collection", geodata.ErrGeometryParse)
	}

	var doc geodata.FeatureCollectionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", geodata.ErrGeometryParse, err)
	}
	if doc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: unexpected document type %q", geodata.ErrGeometryParse, doc.Type)
	}

	ds := &geodata.Dataset{Features: make([]geodata.Feature, 0, len(doc.Features))}
	if doc.CRS != nil {
		ds.CRS = crs.FromGeoJSONName(doc.CRS.Properties.Name)
	}

	for i, f := range doc.Features {
		if f == nil || f.Geometry == nil {
			return nil, fmt.Errorf("%w: feature %d has no geometry", geodata.ErrGeometryParse, i)
		}

		props := f.Properties
		if props == nil {
			props = geojson.Properties{}
		}
		ds.Features = append(ds.Features, geodata.Feature{Geometry: f.Geometry, Properties: props})
	}

	return ds, nil
}
