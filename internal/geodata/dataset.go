// Package geodata defines the in-memory dataset model shared by the pipeline.
package geodata

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature is one geometry plus its attribute record.
type Feature struct {
	Geometry   orb.Geometry
	Properties geojson.Properties
}

// Dataset holds an ordered sequence of features sharing a single reference
// system. Feature order is append order and is preserved through export.
type Dataset struct {
	Features []Feature
	CRS      string // empty until the source declares one or normalization assigns the canonical system

	appended int
}

// Append adds a feature at the end of the sequence and marks the dataset
// as edited. Loaders fill Features directly; only merged geometries go
// through Append.
func (d *Dataset) Append(f Feature) {
	d.Features = append(d.Features, f)
	d.appended++
}

// Edited reports whether any features were appended after loading.
func (d *Dataset) Edited() bool {
	return d.appended > 0
}

// FeatureCount returns the number of features in the dataset.
func (d *Dataset) FeatureCount() int {
	return len(d.Features)
}
