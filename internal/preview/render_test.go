package preview

import (
	"bytes"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/geoforge/geoedit/internal/geodata"
)

func TestRenderProducesWebP(t *testing.T) {
	ds := &geodata.Dataset{
		CRS: "EPSG:4326",
		Features: []geodata.Feature{
			{Geometry: orb.Point{10, 50}, Properties: geojson.Properties{}},
			{Geometry: orb.LineString{{0, 0}, {5, 5}, {10, 0}}, Properties: geojson.Properties{}},
			{Geometry: orb.Polygon{{{2, 2}, {8, 2}, {8, 8}, {2, 8}, {2, 2}}}, Properties: geojson.Properties{}},
		},
	}

	data, err := Render(ds, 128, 128)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty image payload")
	}

	// WebP images are RIFF containers.
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Errorf("payload does not start with RIFF header: % x", data[:4])
	}
}

func TestRenderEmptyDataset(t *testing.T) {
	data, err := Render(&geodata.Dataset{CRS: "EPSG:4326"}, 64, 64)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty image payload")
	}
}

func TestRenderRejectsBadSize(t *testing.T) {
	if _, err := Render(&geodata.Dataset{}, 0, 64); err == nil {
		t.Fatal("Render accepted zero width")
	}
	if _, err := Render(&geodata.Dataset{}, 64, -1); err == nil {
		t.Fatal("Render accepted negative height")
	}
}
