package entities

import "github.com/mbengwi/pharmafind/backend/pkg/geo"

// Marker types understood by the map frontend.
const (
	MarkerTypePharmacy = "pharmacy"
	MarkerTypeUser     = "user"
)

// Marker is one pin on the results map.
type Marker struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Position    geo.Point `json:"position"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DistanceKm  *float64  `json:"distance_km,omitempty"`
	IsVerified  bool      `json:"is_verified,omitempty"`
}

// MapView bundles the map payload returned alongside search results.
type MapView struct {
	Markers []Marker    `json:"markers"`
	Bounds  *geo.Bounds `json:"bounds,omitempty"`
}
