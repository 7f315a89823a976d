// internal/geom/distance_test.go - Unit tests for great-circle distance
package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGreatCircleDistanceZero(t *testing.T) {
	assert.Equal(t, 0.0, GreatCircleDistance(153.4, -28.0, 153.4, -28.0))
}

func TestGreatCircleDistanceSymmetry(t *testing.T) {
	forward := GreatCircleDistance(153.40, -28.00, 153.41, -28.01)
	backward := GreatCircleDistance(153.41, -28.01, 153.40, -28.00)
	assert.InDelta(t, forward, backward, 1e-9)
}

func TestGreatCircleDistanceOneDegreeAtEquator(t *testing.T) {
	// One degree of longitude along the equator subtends 1/360 of the
	// earth's circumference: 2*pi*6371000/360 = 111194.93 m.
	d := GreatCircleDistance(0, 0, 1, 0)
	assert.InDelta(t, 111194.93, d, 1.0)
}

func TestGreatCircleDistanceOneDegreeOfLatitude(t *testing.T) {
	// Meridians are great circles, so a degree of latitude is the same
	// arc length at any longitude.
	atGreenwich := GreatCircleDistance(0, 10, 0, 11)
	atGoldCoast := GreatCircleDistance(153.4, -28.0, 153.4, -27.0)
	assert.InDelta(t, 111194.93, atGreenwich, 1.0)
	assert.InDelta(t, atGreenwich, atGoldCoast, 1e-6)
}

func TestGreatCircleDistanceShrinksWithLatitude(t *testing.T) {
	// A degree of longitude is shorter away from the equator.
	atEquator := GreatCircleDistance(153.0, 0, 154.0, 0)
	atGoldCoast := GreatCircleDistance(153.0, -28.0, 154.0, -28.0)
	assert.Less(t, atGoldCoast, atEquator)
	// cos(28 deg) = 0.8829; haversine along a parallel is close to
	// equatorial length scaled by the cosine at parcel-test precision.
	assert.InDelta(t, atEquator*0.8829, atGoldCoast, 50.0)
}
