package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"

	"github.com/geoforge/geoedit/internal/crs"
	"github.com/geoforge/geoedit/internal/geodata"
)

// dBASE column names are limited to 10 characters.
const dbfNameLimit = 10

// toShapefileBundle writes the .shp/.shx/.dbf/.prj component set under one
// shared basename into a scratch directory, then zips the set into a single
// archive payload.
func toShapefileBundle(ds *geodata.Dataset, scratchRoot string) (*Result, error) {
	dir, err := os.MkdirTemp(scratchRoot, "geoedit-export-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", geodata.ErrExportIO, err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			log.Error().Err(rmErr).Str("dir", dir).Msg("Failed to release export scratch directory")
		}
	}()

	name := basename(ds)
	if err := writeComponents(ds, filepath.Join(dir, name)); err != nil {
		return nil, err
	}

	data, err := zipDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", geodata.ErrExportIO, err)
	}

	log.Debug().
		Str("basename", name).
		Int("features", ds.FeatureCount()).
		Int("bytes", len(data)).
		Msg("Shapefile bundle written")

	return &Result{
		Data:     data,
		Filename: name + "_shapefile.zip",
		MimeType: "application/zip",
	}, nil
}

// writeComponents writes the geometry, index, attribute and reference-system
// components for the dataset at base (path without extension).
func writeComponents(ds *geodata.Dataset, base string) error {
	shapeType, err := bundleShapeType(ds)
	if err != nil {
		return err
	}

	w, err := shp.Create(base+".shp", shapeType)
	if err != nil {
		return fmt.Errorf("%w: %v", geodata.ErrExportIO, err)
	}

	fields, keys := attributeSchema(ds)
	w.SetFields(fields)

	for row := range ds.Features {
		s, err := featureShape(ds.Features[row].Geometry)
		if err != nil {
			w.Close()
			return err
		}
		w.Write(s)

		for col, key := range keys {
			if err := w.WriteAttribute(row, col, attributeValue(ds.Features[row].Properties[key])); err != nil {
				w.Close()
				return fmt.Errorf("%w: attribute %q row %d: %v", geodata.ErrExportIO, key, row, err)
			}
		}
	}
	w.Close()

	if err := os.WriteFile(base+".prj", []byte(crs.CanonicalWKT), 0644); err != nil {
		return fmt.Errorf("%w: %v", geodata.ErrExportIO, err)
	}
	return nil
}

// bundleShapeType picks the single shapefile geometry class for the dataset.
// A shapefile cannot mix classes, so mixed datasets cannot round-trip to a
// bundle.
func bundleShapeType(ds *geodata.Dataset) (shp.ShapeType, error) {
	if ds.FeatureCount() == 0 {
		return shp.NULL, fmt.Errorf("%w: dataset has no features", geodata.ErrExportIO)
	}

	want := shapeClass(ds.Features[0].Geometry)
	if want == shp.NULL {
		return shp.NULL, fmt.Errorf("%w: unsupported geometry type %s",
			geodata.ErrExportIO, ds.Features[0].Geometry.GeoJSONType())
	}

	for i := range ds.Features {
		got := shapeClass(ds.Features[i].Geometry)
		if got == shp.NULL {
			return shp.NULL, fmt.Errorf("%w: unsupported geometry type %s",
				geodata.ErrExportIO, ds.Features[i].Geometry.GeoJSONType())
		}
		if got != want {
			return shp.NULL, fmt.Errorf("%w: shapefile cannot mix %s and %s geometries",
				geodata.ErrExportIO, className(want), className(got))
		}
	}
	return want, nil
}

func shapeClass(g orb.Geometry) shp.ShapeType {
	switch g.(type) {
	case orb.Point:
		return shp.POINT
	case orb.MultiPoint:
		return shp.MULTIPOINT
	case orb.LineString, orb.MultiLineString:
		return shp.POLYLINE
	case orb.Polygon, orb.MultiPolygon:
		return shp.POLYGON
	}
	return shp.NULL
}

func className(t shp.ShapeType) string {
	switch t {
	case shp.POINT:
		return "point"
	case shp.MULTIPOINT:
		return "multipoint"
	case shp.POLYLINE:
		return "polyline"
	case shp.POLYGON:
		return "polygon"
	}
	return "unsupported"
}

// featureShape maps a geometry to its shapefile record. Multi-part
// geometries flatten into part arrays; multipolygons concatenate the part
// lists of their members.
func featureShape(g orb.Geometry) (shp.Shape, error) {
	switch v := g.(type) {
	case orb.Point:
		return &shp.Point{X: v[0], Y: v[1]}, nil
	case orb.MultiPoint:
		pts := shpPoints(v)
		return &shp.MultiPoint{Box: pointBox(pts), NumPoints: int32(len(pts)), Points: pts}, nil
	case orb.LineString:
		return shp.NewPolyLine([][]shp.Point{shpPoints(v)}), nil
	case orb.MultiLineString:
		parts := make([][]shp.Point, len(v))
		for i, ls := range v {
			parts[i] = shpPoints(ls)
		}
		return shp.NewPolyLine(parts), nil
	case orb.Polygon:
		return (*shp.Polygon)(shp.NewPolyLine(polygonParts(v))), nil
	case orb.MultiPolygon:
		var parts [][]shp.Point
		for _, poly := range v {
			parts = append(parts, polygonParts(poly)...)
		}
		return (*shp.Polygon)(shp.NewPolyLine(parts)), nil
	}
	return nil, fmt.Errorf("%w: unsupported geometry type %s", geodata.ErrExportIO, g.GeoJSONType())
}

// polygonParts closes every ring and enforces the shapefile winding
// convention: outer ring clockwise, holes counter-clockwise.
func polygonParts(p orb.Polygon) [][]shp.Point {
	parts := make([][]shp.Point, 0, len(p))
	for i, ring := range p {
		r := ring.Clone()
		if len(r) > 0 && !r.Closed() {
			r = append(r, r[0])
		}

		wantCW := i == 0
		if len(r) > 0 && (r.Orientation() == orb.CW) != wantCW {
			r.Reverse()
		}

		parts = append(parts, shpPoints(r))
	}
	return parts
}

func shpPoints(points []orb.Point) []shp.Point {
	out := make([]shp.Point, len(points))
	for i, p := range points {
		out[i] = shp.Point{X: p[0], Y: p[1]}
	}
	return out
}

func pointBox(points []shp.Point) shp.Box {
	if len(points) == 0 {
		return shp.Box{}
	}

	b := shp.Box{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}
	return b
}

// attributeSchema derives the dBASE column set: the sorted union of property
// keys, names truncated to the dBASE limit. A column is numeric only when
// every feature carries a numeric value for it; anything else round-trips
// through text, which is as much fidelity as dBASE offers.
func attributeSchema(ds *geodata.Dataset) ([]shp.Field, []string) {
	var keys []string
	numeric := make(map[string]int)
	seen := make(map[string]bool)

	for i := range ds.Features {
		for k, v := range ds.Features[i].Properties {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
			switch v.(type) {
			case float64, float32, int, int32, int64, json.Number:
				numeric[k]++
			}
		}
	}
	sort.Strings(keys)

	fields := make([]shp.Field, len(keys))
	taken := make(map[string]bool, len(keys))
	for i, k := range keys {
		name := columnName(k, taken)
		taken[name] = true
		if name != k {
			log.Warn().Str("key", k).Str("column", name).Msg("Property key does not fit dBASE column name, renamed")
		}

		if numeric[k] == ds.FeatureCount() {
			fields[i] = shp.FloatField(name, 32, 10)
		} else {
			fields[i] = shp.StringField(name, 128)
		}
	}
	return fields, keys
}

// columnName fits a property key into the dBASE name limit. Keys whose
// truncations collide get a numeric suffix so no column shadows another.
func columnName(key string, taken map[string]bool) string {
	name := key
	if len(name) > dbfNameLimit {
		name = name[:dbfNameLimit]
	}
	if !taken[name] {
		return name
	}

	for n := 2; ; n++ {
		suffix := strconv.Itoa(n)
		stem := name
		if len(stem)+len(suffix) > dbfNameLimit {
			stem = stem[:dbfNameLimit-len(suffix)]
		}
		if candidate := stem + suffix; !taken[candidate] {
			return candidate
		}
	}
}

// attributeValue flattens a property value into something the dBASE writer
// accepts.
func attributeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return t
	case int32:
		return int(t)
	case int64:
		return int(t)
	case string:
		return t
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// zipDir archives every file in dir into one zip payload, in sorted name
// order so archives are reproducible.
func zipDir(dir string) ([]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}

		f, err := zw.Create(e.Name())
		if err != nil {
			return nil, err
		}
		if _, err := f.Write(data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
