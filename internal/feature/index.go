// internal/feature/index.go - Spatial hit-test index
package feature

import (
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/tidwall/rtree"
)

// Index answers point hit-tests against loaded polygon features. It stands
// in for the rendered-layer hit-test a map SDK performs on click: bounding
// boxes narrow the candidates, then a point-in-polygon test decides.
type Index struct {
	mu   sync.RWMutex
	tree rtree.RTreeG[*geojson.Feature]
}

// NewIndex creates an empty hit-test index
func NewIndex() *Index {
	return &Index{}
}

// Add indexes a feature by its geometry's bounding box
func (ix *Index) Add(features ...*geojson.Feature) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, f := range features {
		if f == nil || f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		ix.tree.Insert(
			[2]float64{b.Min[0], b.Min[1]},
			[2]float64{b.Max[0], b.Max[1]},
			f,
		)
	}
}

// At returns every polygon feature containing the point, in insertion
// order within the tree's traversal
func (ix *Index) At(lon, lat float64) []*geojson.Feature {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	point := orb.Point{lon, lat}

	var hits []*geojson.Feature
	ix.tree.Search(
		[2]float64{lon, lat},
		[2]float64{lon, lat},
		func(min, max [2]float64, f *geojson.Feature) bool {
			if contains(f.Geometry, point) {
				hits = append(hits, f)
			}
			return true
		},
	)
	return hits
}

// First returns the topmost hit for the point, or nil when nothing matches
func (ix *Index) First(lon, lat float64) *geojson.Feature {
	hits := ix.At(lon, lat)
	if len(hits) == 0 {
		return nil
	}
	return hits[0]
}

// contains reports whether a polygonal geometry contains the point
func contains(g orb.Geometry, p orb.Point) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(geom, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(geom, p)
	default:
		return false
	}
}
