package export

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"github.com/geoforge/geoedit/internal/crs"
	"github.com/geoforge/geoedit/internal/geodata"
)

// toGeoJSON serializes features and the canonical CRS tag into GeoJSON text.
func toGeoJSON(ds *geodata.Dataset) (*Result, error) {
	doc := geodata.FeatureCollectionDoc{
		Type:     "FeatureCollection",
		CRS:      geodata.NewCRSMember(crs.CanonicalGeoJSONName),
		Features: make([]*geojson.Feature, 0, len(ds.Features)),
	}

	for i := range ds.Features {
		f := geojson.NewFeature(ds.Features[i].Geometry)
		f.Properties = ds.Features[i].Properties
		doc.Features = append(doc.Features, f)
	}

	data, err := json.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", geodata.ErrExportIO, err)
	}

	return &Result{
		Data:     data,
		Filename: basename(ds) + ".geojson",
		MimeType: "application/json",
	}, nil
}
