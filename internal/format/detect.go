// Package format classifies uploaded files by extension.
package format

import (
	"path/filepath"
	"strings"
)

// Kind is the detected upload format.
type Kind int

const (
	// Unsupported is anything that is neither a bundle nor GeoJSON.
	Unsupported Kind = iota
	// Bundle is a zipped shapefile component set.
	Bundle
	// FeatureCollection is GeoJSON text.
	FeatureCollection
)

// String returns a short name for logs and error messages.
func (k Kind) String() string {
	switch k {
	case Bundle:
		return "bundle"
	case FeatureCollection:
		return "feature collection"
	}
	return "unsupported"
}

// Detect classifies a filename by its extension, case-insensitively.
func Detect(filename string) Kind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".zip":
		return Bundle
	case ".geojson", ".json":
		return FeatureCollection
	}
	return Unsupported
}
