// Package geo provides the small set of geodesic primitives the router
// needs: great-circle distance, a fast planar approximation for heuristics,
// and point-to-segment projection for snapping.
package geo

import "math"

const (
	earthRadiusMeters = 6_371_000.0
	degToRad          = math.Pi / 180

	// degToMeters converts degree-scaled equirectangular distances to meters.
	degToMeters = degToRad * earthRadiusMeters
)

// LatLng is a WGS-84 coordinate in degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	sinLat := math.Sin((lat2 - lat1) * degToRad / 2)
	sinLon := math.Sin((lon2 - lon1) * degToRad / 2)

	a := sinLat*sinLat + math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*sinLon*sinLon
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// EquirectangularDist returns an approximate distance in meters using a
// latitude-corrected planar projection. ~3x faster than Haversine and accurate
// to <0.1% over campus-scale distances at low latitudes. Use for heuristics
// and candidate filtering, not for final edge lengths.
func EquirectangularDist(lat1, lon1, lat2, lon2 float64) float64 {
	x := (lon2 - lon1) * math.Cos((lat1+lat2)/2*degToRad)
	y := lat2 - lat1
	return math.Hypot(x, y) * degToMeters
}

// PathLength sums the great-circle lengths of successive segments.
func PathLength(pts []LatLng) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += Haversine(pts[i-1].Lat, pts[i-1].Lng, pts[i].Lat, pts[i].Lng)
	}
	return total
}

// PointToSegmentDist computes the perpendicular distance in meters from point
// P to segment AB, and the projection ratio along AB clamped to [0,1]. It
// works in a degree-scaled equirectangular plane, which is plenty accurate at
// snapping distances.
func PointToSegmentDist(pLat, pLon, aLat, aLon, bLat, bLon float64) (dist float64, ratio float64) {
	cosLat := math.Cos((aLat + bLat) / 2 * degToRad)

	// Degenerate segments are compared in the original coordinates: the
	// cosLat multiplication below can make identical endpoints differ by
	// ~1e-15 in projected space.
	if aLat == bLat && aLon == bLon {
		return math.Hypot((pLon-aLon)*cosLat, pLat-aLat) * degToMeters, 0
	}

	dx := (bLon - aLon) * cosLat
	dy := bLat - aLat
	t := ((pLon-aLon)*cosLat*dx + (pLat-aLat)*dy) / (dx*dx + dy*dy)
	t = math.Min(1, math.Max(0, t))

	ex := (pLon-aLon)*cosLat - t*dx
	ey := (pLat - aLat) - t*dy
	return math.Hypot(ex, ey) * degToMeters, t
}
