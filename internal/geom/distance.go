// internal/geom/distance.go - Great-circle distance
package geom

import "math"

// EarthRadiusMeters is the mean Earth radius used for all distance math
const EarthRadiusMeters = 6371000.0

// GreatCircleDistance calculates the distance between two points in meters
// using the haversine formula
func GreatCircleDistance(lon1, lat1, lon2, lat2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180.0 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	lat1Rad := toRad(lat1)
	lat2Rad := toRad(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}
