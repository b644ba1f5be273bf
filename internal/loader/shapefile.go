package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"github.com/geoforge/geoedit/internal/crs"
	"github.com/geoforge/geoedit/internal/geodata"
)

// FromShapefile reads the .shp geometry component plus its sibling .dbf
// attribute table. A sibling .prj declares the CRS; without one the CRS is
// left unset. Z and M coordinate variants are flattened to 2D.
func FromShapefile(shpPath string) (*geodata.Dataset, error) {
	r, err := shp.Open(shpPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", geodata.ErrGeometryParse, err)
	}
	defer r.Close()

	fields := r.Fields()
	ds := &geodata.Dataset{}

	for row := 0; r.Next(); row++ {
		_, shape := r.Shape()

		geom, err := shapeGeometry(shape)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", geodata.ErrGeometryParse, row, err)
		}

		props := geojson.Properties{}
		for col := range fields {
			props[fields[col].String()] = attributeValue(fields[col], r.ReadAttribute(row, col))
		}

		ds.Features = append(ds.Features, geodata.Feature{Geometry: geom, Properties: props})
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", geodata.ErrGeometryParse, err)
	}

	if err := readPrj(ds, shpPath); err != nil {
		return nil, err
	}

	log.Debug().
		Str("shp", filepath.Base(shpPath)).
		Int("features", ds.FeatureCount()).
		Str("crs", ds.CRS).
		Msg("Shapefile loaded")

	return ds, nil
}

// readPrj sniffs the sibling .prj for a reference-system declaration. A
// declared system we cannot map is an error: silently assuming canonical
// would skip a reprojection the source asked for.
func readPrj(ds *geodata.Dataset, shpPath string) error {
	base := strings.TrimSuffix(shpPath, filepath.Ext(shpPath))
	wkt, err := os.ReadFile(base + ".prj")
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("shp", filepath.Base(shpPath)).Msg("No .prj component, CRS left undeclared")
			return nil
		}
		return err
	}

	if strings.TrimSpace(string(wkt)) == "" {
		return nil
	}

	code := crs.FromWKT(string(wkt))
	if code == "" {
		return fmt.Errorf("%w: unrecognized .prj definition", geodata.ErrUnsupportedCRS)
	}
	ds.CRS = code
	return nil
}

// shapeGeometry maps a shapefile record to the geometry model. PolyLine and
// Polygon records may carry several parts; single-part records collapse to
// the simple variant.
func shapeGeometry(s shp.Shape) (orb.Geometry, error) {
	switch v := s.(type) {
	case *shp.Point:
		return orb.Point{v.X, v.Y}, nil
	case *shp.PointZ:
		return orb.Point{v.X, v.Y}, nil
	case *shp.PointM:
		return orb.Point{v.X, v.Y}, nil
	case *shp.MultiPoint:
		return multiPoint(v.Points), nil
	case *shp.MultiPointZ:
		return multiPoint(v.Points), nil
	case *shp.MultiPointM:
		return multiPoint(v.Points), nil
	case *shp.PolyLine:
		return lineGeometry(v.Parts, v.Points), nil
	case *shp.PolyLineZ:
		return lineGeometry(v.Parts, v.Points), nil
	case *shp.PolyLineM:
		return lineGeometry(v.Parts, v.Points), nil
	case *shp.Polygon:
		return polygonGeometry(v.Parts, v.Points), nil
	case *shp.PolygonZ:
		return polygonGeometry(v.Parts, v.Points), nil
	case *shp.PolygonM:
		return polygonGeometry(v.Parts, v.Points), nil
	}
	return nil, fmt.Errorf("unsupported shape type %T", s)
}

func multiPoint(points []shp.Point) orb.MultiPoint {
	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = orb.Point{p.X, p.Y}
	}
	return mp
}

// splitParts slices the flat point array into per-part line strings using
// the shapefile part offsets.
func splitParts(parts []int32, points []shp.Point) []orb.LineString {
	if len(parts) == 0 {
		parts = []int32{0}
	}

	out := make([]orb.LineString, 0, len(parts))
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || start > end || end > int32(len(points)) {
			continue
		}

		ls := make(orb.LineString, 0, end-start)
		for _, p := range points[start:end] {
			ls = append(ls, orb.Point{p.X, p.Y})
		}
		out = append(out, ls)
	}
	return out
}

func lineGeometry(parts []int32, points []shp.Point) orb.Geometry {
	lines := splitParts(parts, points)
	if len(lines) == 1 {
		return lines[0]
	}

	mls := make(orb.MultiLineString, len(lines))
	copy(mls, lines)
	return mls
}

// polygonGeometry reassembles rings into polygons following the shapefile
// convention: clockwise rings open a new polygon, counter-clockwise rings
// are holes of the most recent one.
func polygonGeometry(parts []int32, points []shp.Point) orb.Geometry {
	var mp orb.MultiPolygon
	for _, line := range splitParts(parts, points) {
		ring := orb.Ring(line)
		if len(ring) > 0 && !ring.Closed() {
			ring = append(ring, ring[0])
		}

		if len(mp) == 0 || ring.Orientation() == orb.CW {
			mp = append(mp, orb.Polygon{ring})
		} else {
			mp[len(mp)-1] = append(mp[len(mp)-1], ring)
		}
	}

	if len(mp) == 1 {
		return mp[0]
	}
	return mp
}

// attributeValue converts a raw dBASE attribute to its natural scalar type:
// numeric columns to float64, logical columns to bool, the rest to string.
func attributeValue(f shp.Field, raw string) interface{} {
	raw = strings.TrimSpace(raw)

	switch f.Fieldtype {
	case 'N', 'F':
		if raw == "" {
			return nil
		}
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
	case 'L':
		switch raw {
		case "T", "t", "Y", "y":
			return true
		case "F", "f", "N", "n":
			return false
		}
		return nil
	}

	return raw
}
