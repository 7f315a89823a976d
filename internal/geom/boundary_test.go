// internal/geom/boundary_test.go - Unit tests for boundary summarization
package geom

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitSquare is a 0.001 x 0.001 degree parcel at the equator. Each side is
// about 111.2 m, the perimeter about 444.8 m, and the area about 12,366 m2.
func unitSquare() orb.Polygon {
	return orb.Polygon{
		{{0, 0}, {0.001, 0}, {0.001, 0.001}, {0, 0.001}, {0, 0}},
	}
}

func TestRingsPolygon(t *testing.T) {
	rings, err := Rings(unitSquare())
	require.NoError(t, err)
	assert.Len(t, rings, 1)
}

func TestRingsPolygonWithHole(t *testing.T) {
	poly := unitSquare()
	poly = append(poly, orb.Ring{
		{0.0002, 0.0002}, {0.0008, 0.0002}, {0.0008, 0.0008}, {0.0002, 0.0008}, {0.0002, 0.0002},
	})

	rings, err := Rings(poly)
	require.NoError(t, err)
	assert.Len(t, rings, 2)
}

func TestRingsMultiPolygonFlattens(t *testing.T) {
	second := orb.Polygon{
		{{1, 1}, {1.001, 1}, {1.001, 1.001}, {1, 1.001}, {1, 1}},
	}
	mp := orb.MultiPolygon{unitSquare(), second}

	rings, err := Rings(mp)
	require.NoError(t, err)
	assert.Len(t, rings, 2)
}

func TestRingsRejectsNonPolygonal(t *testing.T) {
	for _, g := range []orb.Geometry{
		orb.Point{153.4, -28.0},
		orb.LineString{{0, 0}, {1, 1}},
	} {
		_, err := Rings(g)
		assert.Error(t, err)
	}
}

func TestSummarizeUnitSquare(t *testing.T) {
	summary, vertices, err := Summarize(unitSquare())
	require.NoError(t, err)

	// Four edges from a five-point closed ring, no wraparound duplicate.
	require.Len(t, summary.Edges, 4)
	assert.Len(t, vertices, 4)

	for i, edge := range summary.Edges {
		assert.Equal(t, i, edge.Index)
		assert.InDelta(t, 111.19, edge.LengthMeters, 0.5)
	}

	assert.InDelta(t, 444.78, summary.PerimeterMeters, 445.0*0.05)
	assert.InDelta(t, 12400.0, summary.AreaSquareMeters, 12400.0*0.05)
}

func TestSummarizePerimeterIsSumOfEdges(t *testing.T) {
	summary, _, err := Summarize(unitSquare())
	require.NoError(t, err)

	total := 0.0
	for _, length := range summary.EdgeLengths() {
		total += length
	}
	assert.InDelta(t, total, summary.PerimeterMeters, 1e-9)
}

func TestSummarizeMidpoints(t *testing.T) {
	summary, _, err := Summarize(unitSquare())
	require.NoError(t, err)

	// First edge runs from (0,0) to (0.001,0).
	assert.Equal(t, orb.Point{0.0005, 0}, summary.Edges[0].Midpoint)
	// Second edge runs from (0.001,0) to (0.001,0.001).
	assert.Equal(t, orb.Point{0.001, 0.0005}, summary.Edges[1].Midpoint)
}

func TestSummarizeMultiPolygonMeasuresEveryRing(t *testing.T) {
	second := orb.Polygon{
		{{1, 1}, {1.001, 1}, {1.001, 1.001}, {1, 1.001}, {1, 1}},
	}
	mp := orb.MultiPolygon{unitSquare(), second}

	single, _, err := Summarize(unitSquare())
	require.NoError(t, err)

	combined, vertices, err := Summarize(mp)
	require.NoError(t, err)

	assert.Len(t, combined.Edges, 8)
	assert.Len(t, vertices, 8)
	assert.InDelta(t, 2*single.PerimeterMeters, combined.PerimeterMeters, 0.5)

	// Edge indexes continue across rings.
	for i, edge := range combined.Edges {
		assert.Equal(t, i, edge.Index)
	}
}

func TestSummarizeHoleAddsToPerimeter(t *testing.T) {
	solid, _, err := Summarize(unitSquare())
	require.NoError(t, err)

	holed := unitSquare()
	holed = append(holed, orb.Ring{
		{0.0002, 0.0002}, {0.0008, 0.0002}, {0.0008, 0.0008}, {0.0002, 0.0008}, {0.0002, 0.0002},
	})
	withHole, _, err := Summarize(holed)
	require.NoError(t, err)

	assert.Greater(t, withHole.PerimeterMeters, solid.PerimeterMeters)
	assert.Len(t, withHole.Edges, 8)
	// The hole subtracts from the enclosed area.
	assert.Less(t, withHole.AreaSquareMeters, solid.AreaSquareMeters)
}

func TestSummarizeUnsupportedGeometryYieldsEmptySummary(t *testing.T) {
	summary, vertices, err := Summarize(orb.LineString{{0, 0}, {1, 1}})
	require.Error(t, err)
	require.NotNil(t, summary)
	assert.Empty(t, summary.Edges)
	assert.Zero(t, summary.PerimeterMeters)
	assert.Zero(t, summary.AreaSquareMeters)
	assert.Nil(t, vertices)
}
