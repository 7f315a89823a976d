// internal/geom/front.go - Front boundary identification heuristics
package geom

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// FrontBoundary is the outcome of front boundary identification: the edge
// index most likely to face the street, a confidence in [0, 1], and a
// human-readable reason.
type FrontBoundary struct {
	Index      int     `json:"index"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// IdentifyFrontBoundary combines length- and coordinate-based heuristics
// to pick the front boundary of a lot. Measurements are per-edge lengths
// in meters, in edge order; coords are the matching edge start vertices
// and may be nil when only lengths are known.
func IdentifyFrontBoundary(measurements []float64, coords []orb.Point) FrontBoundary {
	if len(measurements) == 0 {
		return FrontBoundary{
			Index:      -1,
			Confidence: 0,
			Reason:     "no edges to evaluate",
		}
	}

	// Irregular lots (5+ sides) need coordinate analysis when available
	if len(measurements) >= 5 {
		if len(coords) == len(measurements) {
			return frontForIrregular(measurements, coords)
		}
		return frontForIrregularFallback(measurements)
	}

	if len(measurements) == 4 {
		return frontForRectangular(measurements, coords)
	}

	if len(measurements) == 3 {
		return frontForTriangular(measurements, coords)
	}

	return FrontBoundary{
		Index:      longestIndex(measurements),
		Confidence: 0.3,
		Reason:     "fallback: longest boundary",
	}
}

// frontForRectangular identifies the front boundary of a four-sided lot
func frontForRectangular(measurements []float64, coords []orb.Point) FrontBoundary {
	if len(coords) == 4 {
		return frontByCoordinates(measurements, coords)
	}

	// Edge order walks the ring, so edges 0 and 2 oppose each other, as do
	// 1 and 3. Treat the 0/2 pair as the horizontal sides.
	maxLength := maxOf(measurements)
	minLength := minOf(measurements)

	// A clearly longest boundary (>1.5x the shortest) is likely street
	// frontage
	if minLength > 0 && maxLength/minLength > 1.5 {
		longest := longestIndex(measurements)

		if longest == 0 || longest == 2 {
			return FrontBoundary{
				Index:      longest,
				Confidence: 0.8,
				Reason:     "longest horizontal boundary (typical street frontage)",
			}
		}

		horizontal := 0
		if measurements[2] > measurements[0] {
			horizontal = 2
		}

		if measurements[horizontal] >= maxLength*0.6 {
			return FrontBoundary{
				Index:      horizontal,
				Confidence: 0.7,
				Reason:     "substantial horizontal boundary preferred over longest vertical",
			}
		}

		return FrontBoundary{
			Index:      longest,
			Confidence: 0.6,
			Reason:     "longest boundary (vertical street frontage)",
		}
	}

	// Similar-length boundaries: prefer the bottom edge over the top
	return FrontBoundary{
		Index:      2,
		Confidence: 0.5,
		Reason:     "bottom boundary preferred (typical lot orientation)",
	}
}

// frontByCoordinates scores every edge on southern positioning, length
// suitability, and orientation
func frontByCoordinates(measurements []float64, coords []orb.Point) FrontBoundary {
	bestIndex := 0
	bestScore := 0.0

	minLat, maxLat := latRange(coords)
	minLength := minOf(measurements)
	maxLength := maxOf(measurements)

	for i := range coords {
		current := coords[i]
		next := coords[(i+1)%len(coords)]
		length := measurements[i]

		midLat := (current[1] + next[1]) / 2

		score := 0.0

		// Southern positioning (40%): most lots front south of their
		// extent
		if r := maxLat - minLat; r > 0 {
			score += (maxLat - midLat) / r * 40
		}

		// Length appropriateness (35%): substantial but not necessarily
		// longest
		if r := maxLength - minLength; r > 0 {
			ratio := (length - minLength) / r
			var lengthScore float64
			switch {
			case ratio >= 0.6:
				lengthScore = 1.0
			case ratio >= 0.3:
				lengthScore = 0.8
			default:
				lengthScore = ratio / 0.3 * 0.4
			}
			score += lengthScore * 35
		}

		// Orientation preference (25%): east-west edges score highest
		angle := edgeAngle(current, next)
		score += math.Abs(math.Cos(angle*math.Pi/180)) * 25

		if score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}

	return FrontBoundary{
		Index:      bestIndex,
		Confidence: math.Min(bestScore/100, 0.95),
		Reason:     "coordinate analysis",
	}
}

// frontForIrregular identifies the front boundary of a 5+ sided lot with
// known vertices
func frontForIrregular(measurements []float64, coords []orb.Point) FrontBoundary {
	center := centroid(coords)
	bestIndex := 0
	bestScore := 0.0

	minLat, maxLat := latRange(coords)
	minLength := minOf(measurements)
	maxLength := maxOf(measurements)

	maxCentroidDist := 0.0
	for _, c := range coords {
		d := math.Hypot(c[1]-center[1], c[0]-center[0])
		if d > maxCentroidDist {
			maxCentroidDist = d
		}
	}

	for i := range coords {
		current := coords[i]
		next := coords[(i+1)%len(coords)]
		length := measurements[i]

		midLon := (current[0] + next[0]) / 2
		midLat := (current[1] + next[1]) / 2

		score := 0.0

		// Southern positioning (30%)
		if r := maxLat - minLat; r > 0 {
			score += (maxLat - midLat) / r * 30
		}

		// Length suitability (30%): avoid very short (utility easements)
		// and very long (rear boundaries); sweet spot is 20-70% of the
		// length range
		if r := maxLength - minLength; r > 0 {
			ratio := (length - minLength) / r
			var lengthScore float64
			switch {
			case ratio >= 0.2 && ratio <= 0.7:
				lengthScore = 1.0 - math.Abs(ratio-0.45)/0.25
			case ratio < 0.2:
				lengthScore = ratio / 0.2 * 0.3
			default:
				lengthScore = math.Max(0, (1.0-ratio)/0.3*0.5)
			}
			score += lengthScore * 30
		}

		// Orientation (25%)
		angle := edgeAngle(current, next)
		score += math.Abs(math.Cos(angle*math.Pi/180)) * 25

		// Accessibility (15%): edges closer to the centroid
		if maxCentroidDist > 0 {
			d := math.Hypot(midLat-center[1], midLon-center[0])
			score += (1 - d/maxCentroidDist) * 15
		}

		if score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}

	return FrontBoundary{
		Index:      bestIndex,
		Confidence: math.Min(bestScore/100, 0.9),
		Reason:     "irregular lot analysis",
	}
}

// frontForIrregularFallback picks a medium-length boundary when vertices
// are unknown
func frontForIrregularFallback(measurements []float64) FrontBoundary {
	type sided struct {
		length float64
		index  int
	}

	sorted := make([]sided, len(measurements))
	for i, l := range measurements {
		sorted[i] = sided{length: l, index: i}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].length < sorted[j].length })

	minLength := sorted[0].length
	maxLength := sorted[len(sorted)-1].length
	lengthRange := maxLength - minLength

	if lengthRange > minLength*2 {
		for _, s := range sorted {
			ratio := (s.length - minLength) / lengthRange
			if ratio >= 0.25 && ratio <= 0.65 {
				return FrontBoundary{
					Index:      s.index,
					Confidence: 0.6,
					Reason:     "medium-length boundary suitable for access",
				}
			}
		}
	}

	// 30th percentile boundary
	candidate := sorted[len(sorted)*3/10]
	return FrontBoundary{
		Index:      candidate.index,
		Confidence: 0.4,
		Reason:     "30th percentile boundary (irregular lot fallback)",
	}
}

// frontForTriangular identifies the front boundary of a three-sided lot
func frontForTriangular(measurements []float64, coords []orb.Point) FrontBoundary {
	if len(coords) == 3 {
		return frontByCoordinates(measurements, coords)
	}

	return FrontBoundary{
		Index:      longestIndex(measurements),
		Confidence: 0.7,
		Reason:     "longest boundary (triangular lot street frontage)",
	}
}

// edgeAngle returns the bearing of the edge in degrees from east
func edgeAngle(p1, p2 orb.Point) float64 {
	return math.Atan2(p2[1]-p1[1], p2[0]-p1[0]) * 180 / math.Pi
}

// centroid returns the arithmetic mean of the vertices
func centroid(coords []orb.Point) orb.Point {
	var lon, lat float64
	for _, c := range coords {
		lon += c[0]
		lat += c[1]
	}
	n := float64(len(coords))
	return orb.Point{lon / n, lat / n}
}

// latRange returns the min and max latitude of the vertices
func latRange(coords []orb.Point) (float64, float64) {
	minLat, maxLat := coords[0][1], coords[0][1]
	for _, c := range coords[1:] {
		minLat = math.Min(minLat, c[1])
		maxLat = math.Max(maxLat, c[1])
	}
	return minLat, maxLat
}

func longestIndex(measurements []float64) int {
	index := 0
	for i, l := range measurements {
		if l > measurements[index] {
			index = i
		}
	}
	return index
}

func maxOf(values []float64) float64 {
	out := values[0]
	for _, v := range values[1:] {
		out = math.Max(out, v)
	}
	return out
}

func minOf(values []float64) float64 {
	out := values[0]
	for _, v := range values[1:] {
		out = math.Min(out, v)
	}
	return out
}
