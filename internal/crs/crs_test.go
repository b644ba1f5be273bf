package crs

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/geoforge/geoedit/internal/geodata"
)

func pointDataset(crsCode string, x, y float64) *geodata.Dataset {
	return &geodata.Dataset{
		CRS: crsCode,
		Features: []geodata.Feature{
			{Geometry: orb.Point{x, y}, Properties: geojson.Properties{}},
		},
	}
}

func TestNormalizeAssumesCanonicalWhenUndeclared(t *testing.T) {
	ds := pointDataset("", 10.5, 59.9)

	if err := Normalize(ds); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if ds.CRS != Canonical {
		t.Errorf("CRS = %q, want %q", ds.CRS, Canonical)
	}

	// No transform: coordinates must be untouched.
	p := ds.Features[0].Geometry.(orb.Point)
	if p[0] != 10.5 || p[1] != 59.9 {
		t.Errorf("coordinates changed to %v", p)
	}
}

func TestNormalizeCanonicalIsNoop(t *testing.T) {
	ds := pointDataset(Canonical, 1, 2)

	if err := Normalize(ds); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	p := ds.Features[0].Geometry.(orb.Point)
	if p[0] != 1 || p[1] != 2 {
		t.Errorf("coordinates changed to %v", p)
	}
}

func TestWebMercatorKnownCoordinates(t *testing.T) {
	// Reference values for (15°E, 50°N) in EPSG:3857 meters.
	const mercX, mercY = 1669792.36, 6446275.84

	proj := forCode("EPSG:3857")
	if proj == nil {
		t.Fatal("no projection registered for EPSG:3857")
	}

	fwd := proj.FromWGS84(orb.Point{15, 50})
	if math.Abs(fwd[0]-mercX) > 1 || math.Abs(fwd[1]-mercY) > 1 {
		t.Errorf("FromWGS84(15, 50) = %v, want (%v, %v)", fwd, mercX, mercY)
	}

	back := proj.ToWGS84(orb.Point{mercX, mercY})
	if math.Abs(back[0]-15) > 1e-6 || math.Abs(back[1]-50) > 1e-6 {
		t.Errorf("ToWGS84(%v, %v) = %v, want (15, 50)", mercX, mercY, back)
	}
}

func TestNormalizeReprojectsWebMercator(t *testing.T) {
	// EPSG:3857 coordinates of roughly (15°E, 50°N)
	merc := webMercator{}.FromWGS84(orb.Point{15, 50})
	ds := pointDataset("EPSG:3857", merc[0], merc[1])

	if err := Normalize(ds); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if ds.CRS != Canonical {
		t.Errorf("CRS = %q, want %q", ds.CRS, Canonical)
	}

	p := ds.Features[0].Geometry.(orb.Point)
	if math.Abs(p[0]-15) > 1e-6 || math.Abs(p[1]-50) > 1e-6 {
		t.Errorf("reprojected to %v, want (15, 50)", p)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	merc := webMercator{}.FromWGS84(orb.Point{-73.97, 40.78})
	ds := pointDataset("EPSG:3857", merc[0], merc[1])

	if err := Normalize(ds); err != nil {
		t.Fatalf("first Normalize failed: %v", err)
	}
	first := ds.Features[0].Geometry.(orb.Point)

	if err := Normalize(ds); err != nil {
		t.Fatalf("second Normalize failed: %v", err)
	}
	second := ds.Features[0].Geometry.(orb.Point)

	if first != second {
		t.Errorf("second Normalize moved coordinates: %v != %v", first, second)
	}
	if ds.CRS != Canonical {
		t.Errorf("CRS = %q, want %q", ds.CRS, Canonical)
	}
}

func TestNormalizeUnsupportedCRS(t *testing.T) {
	ds := pointDataset("EPSG:27700", 530000, 180000)

	err := Normalize(ds)
	if !errors.Is(err, geodata.ErrUnsupportedCRS) {
		t.Fatalf("err = %v, want ErrUnsupportedCRS", err)
	}
	// The dataset must not be half-transformed.
	if ds.CRS != "EPSG:27700" {
		t.Errorf("CRS changed to %q", ds.CRS)
	}
	p := ds.Features[0].Geometry.(orb.Point)
	if p[0] != 530000 || p[1] != 180000 {
		t.Errorf("coordinates changed to %v", p)
	}
}
