// internal/exchange/exchange.go - Boundary import/export
package exchange

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Boundaries travel between sessions as a JSON array of ring-coordinate
// arrays: Array<Array<[lon, lat]>>. The geometry processor is
// format-agnostic; this package only converts between that wire shape and
// orb rings.

// MarshalRings encodes rings as the boundary wire shape
func MarshalRings(rings []orb.Ring) ([]byte, error) {
	out := make([][][2]float64, len(rings))
	for i, ring := range rings {
		coords := make([][2]float64, len(ring))
		for j, p := range ring {
			coords[j] = [2]float64{p[0], p[1]}
		}
		out[i] = coords
	}
	return json.Marshal(out)
}

// UnmarshalRings decodes the boundary wire shape back into rings
func UnmarshalRings(data []byte) ([]orb.Ring, error) {
	var raw [][][2]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed boundary data: %w", err)
	}

	rings := make([]orb.Ring, len(raw))
	for i, coords := range raw {
		ring := make(orb.Ring, len(coords))
		for j, c := range coords {
			ring[j] = orb.Point{c[0], c[1]}
		}
		rings[i] = ring
	}
	return rings, nil
}

// WriteRings exports rings to a file in the boundary wire shape
func WriteRings(path string, rings []orb.Ring) error {
	data, err := MarshalRings(rings)
	if err != nil {
		return fmt.Errorf("failed to encode boundary rings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write boundary file: %w", err)
	}

	return nil
}

// ReadBoundary reads a polygonal geometry from a user-supplied file. Both
// the ring wire shape and GeoJSON (feature, feature collection, or bare
// geometry) are accepted; rings become a single polygon.
func ReadBoundary(path string) (orb.Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read boundary file: %w", err)
	}

	return DecodeBoundary(data)
}

// DecodeBoundary decodes boundary bytes in any accepted shape
func DecodeBoundary(data []byte) (orb.Geometry, error) {
	trimmed := strings.TrimSpace(string(data))

	// The ring wire shape is a bare JSON array; GeoJSON documents are
	// objects.
	if strings.HasPrefix(trimmed, "[") {
		rings, err := UnmarshalRings(data)
		if err != nil {
			return nil, err
		}
		if len(rings) == 0 {
			return nil, fmt.Errorf("boundary file contains no rings")
		}
		return orb.Polygon(rings), nil
	}

	if f, err := geojson.UnmarshalFeature(data); err == nil && f.Geometry != nil {
		return f.Geometry, nil
	}

	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil {
		if len(fc.Features) == 0 || fc.Features[0].Geometry == nil {
			return nil, fmt.Errorf("feature collection contains no geometry")
		}
		return fc.Features[0].Geometry, nil
	}

	if g, err := geojson.UnmarshalGeometry(data); err == nil {
		return g.Geometry(), nil
	}

	return nil, fmt.Errorf("unrecognized boundary format")
}
