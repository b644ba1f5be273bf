package geodata

import "github.com/paulmach/orb/geojson"

// FeatureCollectionDoc is the GeoJSON document envelope. It keeps the legacy
// crs member the interchange format allows, which orb's own FeatureCollection
// type does not model.
type FeatureCollectionDoc struct {
	Type     string             `json:"type"`
	CRS      *CRSMember         `json:"crs,omitempty"`
	Features []*geojson.Feature `json:"features"`
}

// CRSMember is the legacy GeoJSON named-CRS object.
type CRSMember struct {
	Type       string       `json:"type"`
	Properties CRSMemberRef `json:"properties"`
}

// CRSMemberRef holds the reference-system name inside a CRSMember.
type CRSMemberRef struct {
	Name string `json:"name"`
}

// NewCRSMember builds a named crs member for the given identifier.
func NewCRSMember(name string) *CRSMember {
	return &CRSMember{Type: "name", Properties: CRSMemberRef{Name: name}}
}
