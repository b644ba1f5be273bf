// Package merge appends externally drawn geometries to a dataset.
package merge

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"github.com/geoforge/geoedit/internal/geodata"
)

// drawnDoc keeps each feature raw so one bad feature cannot sink the rest
// of the payload.
type drawnDoc struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

// Drawn validates a drawn feature-collection payload and appends every
// valid feature to ds with empty attributes. A feature that fails to parse
// is skipped and logged; the remaining features still land. Returns how
// many features were actually appended.
//
// An empty or absent payload is a no-op that leaves ds untouched. Drawn
// geometries are trusted to already be in the canonical reference system,
// since drawing happens on a canonical map view.
func Drawn(ds *geodata.Dataset, payload []byte) (int, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return 0, nil
	}

	var doc drawnDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return 0, fmt.Errorf("%w: %v", geodata.ErrGeometryParse, err)
	}
	if doc.Type != "" && doc.Type != "FeatureCollection" {
		return 0, fmt.Errorf("%w: unexpected document type %q", geodata.ErrGeometryParse, doc.Type)
	}
	if len(doc.Features) == 0 {
		return 0, nil
	}

	appended := 0
	for i, raw := range doc.Features {
		f, err := geojson.UnmarshalFeature(raw)
		if err != nil || f.Geometry == nil {
			log.Warn().Int("feature", i).Err(err).Msg("Skipping drawn feature with invalid geometry")
			continue
		}

		ds.Append(geodata.Feature{Geometry: f.Geometry, Properties: geojson.Properties{}})
		appended++
	}

	log.Info().
		Int("appended", appended).
		Int("received", len(doc.Features)).
		Msg("Merged drawn geometries")

	return appended, nil
}
