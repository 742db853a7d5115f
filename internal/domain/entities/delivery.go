package entities

import "github.com/mbengwi/pharmafind/backend/pkg/geo"

// DeliveryZone is one concentric delivery ring around a pharmacy, shown on
// map UIs. Zones share their boundaries with the delivery fee table; a point
// belongs to the first zone whose radius contains it.
type DeliveryZone struct {
	Name     string    `json:"name"`
	RadiusKm float64   `json:"radius_km"`
	Fee      float64   `json:"delivery_fee"`
	ETA      string    `json:"estimated_time"`
	Center   geo.Point `json:"center"`
}

// DeliveryEstimate is the fee/ETA quote attached to search results and used
// by order-creation flows.
type DeliveryEstimate struct {
	DistanceKm float64 `json:"distance_km"`
	Fee        float64 `json:"fee"`
	Currency   string  `json:"currency"`
	ETA        string  `json:"estimated_time"`
}
