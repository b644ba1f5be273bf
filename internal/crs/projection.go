package crs

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Projection converts coordinates between a source reference system and
// WGS84 degrees.
type Projection interface {
	ToWGS84(p orb.Point) orb.Point
	FromWGS84(p orb.Point) orb.Point
	Code() string
}

// forCode returns the projection registered for an "EPSG:n" code, or nil
// when the code is not supported. New systems are added here.
func forCode(code string) Projection {
	switch code {
	case "EPSG:4326":
		return wgs84{}
	case "EPSG:3857":
		return webMercator{}
	}
	return nil
}

// wgs84 is the identity projection for data already in canonical degrees.
type wgs84 struct{}

func (wgs84) ToWGS84(p orb.Point) orb.Point   { return p }
func (wgs84) FromWGS84(p orb.Point) orb.Point { return p }
func (wgs84) Code() string                    { return "EPSG:4326" }

// webMercator projects between EPSG:3857 meters and WGS84 degrees.
type webMercator struct{}

func (webMercator) ToWGS84(p orb.Point) orb.Point   { return project.Mercator.ToWGS84(p) }
func (webMercator) FromWGS84(p orb.Point) orb.Point { return project.WGS84.ToMercator(p) }
func (webMercator) Code() string                    { return "EPSG:3857" }
