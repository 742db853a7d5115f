// Package geo holds the single implementation of great-circle math used by
// the rest of the service. Persistence layers may use CoarseBounds to build a
// cheap rectangular pre-filter, but final distances always come from Distance.
package geo

import (
	"math"
)

// earthRadiusKm is the mean Earth radius used by the Haversine formula.
const earthRadiusKm = 6371.0

// distanceEpsilonKm is the tolerance used when comparing a computed distance
// against an exact boundary (e.g. radius 0).
const distanceEpsilonKm = 1e-9

// Point represents a WGS84 coordinate in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Bounds describes a lat/lon rectangle plus its midpoint, for map viewports.
type Bounds struct {
	North  float64 `json:"north"`
	South  float64 `json:"south"`
	East   float64 `json:"east"`
	West   float64 `json:"west"`
	Center Point   `json:"center"`
}

// Validate reports whether lat/lon form a usable coordinate pair.
// NaN and infinities are rejected along with out-of-range values.
func Validate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Distance returns the great-circle distance between a and b in kilometers
// using the Haversine formula. The result is unrounded; use RoundKm for
// display values.
func Distance(a, b Point) float64 {
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Latitude))*math.Cos(radians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// RoundKm rounds a distance to one decimal place for presentation.
func RoundKm(d float64) float64 {
	return math.Round(d*10) / 10
}

// WithinEpsilon reports whether d is at most limit, allowing for
// floating-point error at the boundary.
func WithinEpsilon(d, limit float64) bool {
	return d <= limit+distanceEpsilonKm
}

// BoundingBox computes the minimal lat/lon rectangle containing all points.
// The center is the midpoint of the box, not the centroid of the points.
// Returns nil for an empty input; callers must check.
func BoundingBox(points []Point) *Bounds {
	if len(points) == 0 {
		return nil
	}

	minLat, maxLat := points[0].Latitude, points[0].Latitude
	minLon, maxLon := points[0].Longitude, points[0].Longitude

	for _, p := range points[1:] {
		minLat = math.Min(minLat, p.Latitude)
		maxLat = math.Max(maxLat, p.Latitude)
		minLon = math.Min(minLon, p.Longitude)
		maxLon = math.Max(maxLon, p.Longitude)
	}

	return &Bounds{
		North: maxLat,
		South: minLat,
		East:  maxLon,
		West:  minLon,
		Center: Point{
			Latitude:  (minLat + maxLat) / 2,
			Longitude: (minLon + maxLon) / 2,
		},
	}
}

// CoarseBounds returns a rectangle that is guaranteed to contain the circle
// of radiusKm around center. It over-selects (the rectangle corners lie
// outside the circle), so results still need an exact Distance check.
func CoarseBounds(center Point, radiusKm float64) *Bounds {
	if radiusKm < 0 {
		radiusKm = 0
	}

	dLat := radiusKm / 111.0 // ~111 km per degree of latitude
	cosLat := math.Cos(radians(center.Latitude))
	dLon := dLat
	if cosLat > 1e-6 {
		dLon = dLat / cosLat
	}

	return &Bounds{
		North:  math.Min(center.Latitude+dLat, 90),
		South:  math.Max(center.Latitude-dLat, -90),
		East:   center.Longitude + dLon,
		West:   center.Longitude - dLon,
		Center: center,
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
