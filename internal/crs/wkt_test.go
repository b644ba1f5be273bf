package crs

import "testing"

const webMercatorWKT = `PROJCS["WGS_1984_Web_Mercator_Auxiliary_Sphere",GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]],PROJECTION["Mercator_Auxiliary_Sphere"],UNIT["Meter",1.0]]`

func TestFromWKT(t *testing.T) {
	cases := []struct {
		name string
		wkt  string
		want string
	}{
		{"esri wgs84", CanonicalWKT, "EPSG:4326"},
		{"web mercator by name", webMercatorWKT, "EPSG:3857"},
		{"epsg authority", `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],AUTHORITY["EPSG","4326"]]`, "EPSG:4326"},
		{"mercator authority wins over nested geogcs", `PROJCS["WGS 84 / Pseudo-Mercator",GEOGCS["WGS 84",AUTHORITY["EPSG","4326"]],AUTHORITY["EPSG","3857"]]`, "EPSG:3857"},
		{"foreign authority", `PROJCS["OSGB 1936 / British National Grid",AUTHORITY["EPSG","27700"]]`, "EPSG:27700"},
		{"garbage", "not well known text", ""},
		{"empty", "", ""},
	}

	for _, c := range cases {
		if got := FromWKT(c.wkt); got != c.want {
			t.Errorf("%s: FromWKT = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestFromGeoJSONName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"urn:ogc:def:crs:OGC:1.3:CRS84", "EPSG:4326"},
		{"CRS84", "EPSG:4326"},
		{"urn:ogc:def:crs:EPSG::3857", "EPSG:3857"},
		{"EPSG:4326", "EPSG:4326"},
		{"epsg:3857", "EPSG:3857"},
		{"", ""},
		{"something:else", "something:else"},
	}

	for _, c := range cases {
		if got := FromGeoJSONName(c.name); got != c.want {
			t.Errorf("FromGeoJSONName(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}
