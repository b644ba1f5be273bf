package crs

import (
	"regexp"
	"strings"
)

var authorityRe = regexp.MustCompile(`AUTHORITY\["EPSG",\s*"(\d+)"\]`)

// FromWKT maps a .prj well-known-text definition to an "EPSG:n" code.
// Returns "" when the definition is not recognized.
//
// The mercator checks run first: a projected EPSG:3857 definition nests the
// geographic WGS84 definition inside itself, so WGS84 markers alone are not
// conclusive.
func FromWKT(wkt string) string {
	up := strings.ToUpper(strings.TrimSpace(wkt))
	if up == "" {
		return ""
	}

	if strings.Contains(up, "PSEUDO-MERCATOR") ||
		strings.Contains(up, "PSEUDO_MERCATOR") ||
		strings.Contains(up, "WEB_MERCATOR") ||
		strings.Contains(up, `AUTHORITY["EPSG","3857"]`) {
		return "EPSG:3857"
	}

	// The outermost AUTHORITY clause comes last in WKT.
	if all := authorityRe.FindAllStringSubmatch(up, -1); len(all) > 0 {
		return "EPSG:" + all[len(all)-1][1]
	}

	if strings.HasPrefix(up, "GEOGCS") &&
		(strings.Contains(up, "WGS_1984") || strings.Contains(up, "WGS 84") || strings.Contains(up, "WGS84")) {
		return "EPSG:4326"
	}

	return ""
}

// FromGeoJSONName maps a legacy GeoJSON crs-member name to an "EPSG:n" code.
// Unrecognized names pass through untouched so normalization can reject them
// with the offending tag in the message.
func FromGeoJSONName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.EqualFold(name, CanonicalGeoJSONName) || strings.EqualFold(name, "CRS84") {
		return Canonical
	}

	up := strings.ToUpper(name)
	if code, ok := strings.CutPrefix(up, "URN:OGC:DEF:CRS:EPSG::"); ok {
		return "EPSG:" + code
	}
	if strings.HasPrefix(up, "EPSG:") {
		return up
	}

	return name
}
