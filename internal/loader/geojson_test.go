package loader

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"

	"github.com/geoforge/geoedit/internal/geodata"
)

const sampleFC = `{
	"type": "FeatureCollection",
	"crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:OGC:1.3:CRS84"}},
	"features": [
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [10.75, 59.91]}, "properties": {"name": "Oslo", "pop": 709037}},
		{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1], [2, 0]]}, "properties": {"name": "path"}},
		{"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [4, 0], [4, 4], [0, 4], [0, 0]]]}, "properties": {}}
	]
}`

func TestFromFeatureCollection(t *testing.T) {
	ds, err := FromFeatureCollection([]byte(sampleFC))
	if err != nil {
		t.Fatalf("FromFeatureCollection failed: %v", err)
	}

	if ds.CRS != "EPSG:4326" {
		t.Errorf("CRS = %q, want EPSG:4326", ds.CRS)
	}
	if ds.FeatureCount() != 3 {
		t.Fatalf("feature count = %d, want 3", ds.FeatureCount())
	}

	p, ok := ds.Features[0].Geometry.(orb.Point)
	if !ok {
		t.Fatalf("feature 0 geometry is %T, want orb.Point", ds.Features[0].Geometry)
	}
	if p[0] != 10.75 || p[1] != 59.91 {
		t.Errorf("feature 0 coordinates = %v", p)
	}
	if ds.Features[0].Properties["name"] != "Oslo" {
		t.Errorf("feature 0 name = %v", ds.Features[0].Properties["name"])
	}

	if _, ok := ds.Features[1].Geometry.(orb.LineString); !ok {
		t.Errorf("feature 1 geometry is %T, want orb.LineString", ds.Features[1].Geometry)
	}
	if _, ok := ds.Features[2].Geometry.(orb.Polygon); !ok {
		t.Errorf("feature 2 geometry is %T, want orb.Polygon", ds.Features[2].Geometry)
	}
}

func TestFromFeatureCollectionWithoutCRS(t *testing.T) {
	ds, err := FromFeatureCollection([]byte(`{"type":"FeatureCollection","features":[]}`))
	if err != nil {
		t.Fatalf("FromFeatureCollection failed: %v", err)
	}
	if ds.CRS != "" {
		t.Errorf("CRS = %q, want unset", ds.CRS)
	}
	if ds.FeatureCount() != 0 {
		t.Errorf("feature count = %d, want 0", ds.FeatureCount())
	}
}

func TestFromFeatureCollectionDeclaredEPSG(t *testing.T) {
	data := `{"type":"FeatureCollection","crs":{"type":"name","properties":{"name":"urn:ogc:def:crs:EPSG::3857"}},"features":[]}`

	ds, err := FromFeatureCollection([]byte(data))
	if err != nil {
		t.Fatalf("FromFeatureCollection failed: %v", err)
	}
	if ds.CRS != "EPSG:3857" {
		t.Errorf("CRS = %q, want EPSG:3857", ds.CRS)
	}
}

func TestFromFeatureCollectionMalformed(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"not json", "{{{"},
		{"wrong type", `{"type":"Feature","features":[]}`},
		{"bad geometry", `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":"oops"},"properties":{}}]}`},
		{"missing geometry", `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{}}]}`},
	}

	for _, c := range cases {
		if _, err := FromFeatureCollection([]byte(c.data)); !errors.Is(err, geodata.ErrGeometryParse) {
			t.Errorf("%s: err = %v, want ErrGeometryParse", c.name, err)
		}
	}
}
