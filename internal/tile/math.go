// internal/tile/math.go - Slippy-map projection math
package tile

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// At returns the key of the tile containing the given point at the given
// zoom. The projection is the standard slippy-map scheme:
//
//	x = floor((lon + 180) / 360 * 2^z)
//	y = floor((1 - ln(tan(lat) + sec(lat)) / pi) / 2 * 2^z)
//
// The same point at the same zoom always yields the same key.
func At(lon, lat float64, zoom int) Key {
	t := maptile.At(orb.Point{lon, lat}, maptile.Zoom(zoom))
	return NewKey(int(t.Z), int(t.X), int(t.Y))
}

// RangeFromBound returns the inclusive tile range covering the viewport
// bound at the given continuous zoom. The zoom is floored before use.
func RangeFromBound(bound orb.Bound, zoom float64) Range {
	z := int(math.Floor(zoom))

	nw := At(bound.Left(), bound.Top(), z)
	se := At(bound.Right(), bound.Bottom(), z)

	return Range{
		Zoom: z,
		MinX: nw.X,
		MaxX: se.X,
		MinY: nw.Y,
		MaxY: se.Y,
	}
}
