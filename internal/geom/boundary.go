// internal/geom/boundary.go - Boundary measurement processing
package geom

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/danielsivyer4567/parcelmeter/internal"
)

// EdgeMeasurement is one measured boundary edge. The midpoint is the
// arithmetic mean of the endpoints, a planar approximation that is fine at
// parcel scale but not generally correct for long edges.
type EdgeMeasurement struct {
	Index        int       `json:"index"`
	LengthMeters float64   `json:"length_meters"`
	Midpoint     orb.Point `json:"midpoint"`
}

// BoundarySummary is the measurement payload handed to a presentation
// sink. Values are meters and square meters; rounding and unit conversion
// belong to the presentation layer.
type BoundarySummary struct {
	AreaSquareMeters float64           `json:"area_square_meters"`
	PerimeterMeters  float64           `json:"perimeter_meters"`
	Edges            []EdgeMeasurement `json:"edges"`
}

// EdgeLengths returns just the per-edge lengths in edge order
func (s *BoundarySummary) EdgeLengths() []float64 {
	lengths := make([]float64, len(s.Edges))
	for i, e := range s.Edges {
		lengths[i] = e.LengthMeters
	}
	return lengths
}

// Rings extracts the measurable rings of a polygonal geometry. A polygon
// contributes its ring list directly; a multi-polygon flattens all of its
// polygons' rings in order. Holes are enumerated like outer rings. Any
// other geometry type is rejected.
func Rings(g orb.Geometry) ([]orb.Ring, error) {
	switch geom := g.(type) {
	case orb.Polygon:
		return []orb.Ring(geom), nil
	case orb.MultiPolygon:
		var rings []orb.Ring
		for _, poly := range geom {
			rings = append(rings, []orb.Ring(poly)...)
		}
		return rings, nil
	default:
		return nil, internal.NewError(internal.ErrorCodeGeometry,
			fmt.Sprintf("unsupported geometry type %q", g.GeoJSONType()), nil)
	}
}

// Summarize turns a polygonal geometry into a boundary summary plus the
// ring vertices (closing duplicates excluded) for selection markers. An
// unsupported geometry yields an empty summary and an error; it never
// produces partial measurements.
func Summarize(g orb.Geometry) (*BoundarySummary, []orb.Point, error) {
	rings, err := Rings(g)
	if err != nil {
		return &BoundarySummary{}, nil, err
	}

	summary := &BoundarySummary{}
	var vertices []orb.Point

	for _, ring := range rings {
		// The ring's last point duplicates the first per closed-ring
		// convention, so each consecutive pair is an edge and no
		// wraparound edge is added.
		for i := 0; i+1 < len(ring); i++ {
			v1, v2 := ring[i], ring[i+1]

			length := GreatCircleDistance(v1[0], v1[1], v2[0], v2[1])
			midpoint := orb.Point{(v1[0] + v2[0]) / 2, (v1[1] + v2[1]) / 2}

			summary.Edges = append(summary.Edges, EdgeMeasurement{
				Index:        len(summary.Edges),
				LengthMeters: length,
				Midpoint:     midpoint,
			})
			summary.PerimeterMeters += length

			vertices = append(vertices, v1)
		}
	}

	summary.AreaSquareMeters = geo.Area(g)

	return summary, vertices, nil
}
