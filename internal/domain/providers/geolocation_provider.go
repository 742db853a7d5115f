package providers

import (
	"context"

	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

// GeolocationProvider defines the interface for external geocoding services.
type GeolocationProvider interface {
	// Geocode converts a free-form address to coordinates
	Geocode(ctx context.Context, address string) (*GeocodedAddress, error)

	// ReverseGeocode converts coordinates to an address
	ReverseGeocode(ctx context.Context, lat, lon float64) (*GeocodedAddress, error)

	// LocateIP resolves an IP address to an approximate position
	LocateIP(ctx context.Context, ip string) (*IPLocation, error)
}

// GeocodedAddress represents a geocoded address
type GeocodedAddress struct {
	FormattedAddress string    `json:"formatted_address"`
	Street           string    `json:"street,omitempty"`
	City             string    `json:"city,omitempty"`
	Region           string    `json:"region,omitempty"`
	Country          string    `json:"country,omitempty"`
	Coordinates      geo.Point `json:"coordinates"`
}

// IPLocation is the coarse position derived from an IP address.
type IPLocation struct {
	Coordinates geo.Point `json:"coordinates"`
	City        string    `json:"city,omitempty"`
	Region      string    `json:"region,omitempty"`
	Country     string    `json:"country,omitempty"`
	Timezone    string    `json:"timezone,omitempty"`
}
