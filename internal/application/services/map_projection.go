package services

import (
	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

// MapProjection turns search results into map presentation data: markers and
// a bounding viewport.
type MapProjection struct{}

// NewMapProjection creates a new map projection.
func NewMapProjection() *MapProjection {
	return &MapProjection{}
}

// Markers produces one marker per pharmacy that has a location. Pharmacies
// without coordinates simply get no marker. When userLocation is given, a
// distinguished user marker is prepended.
func (m *MapProjection) Markers(groups []entities.PharmacyGroup, userLocation *geo.Point) []entities.Marker {
	markers := make([]entities.Marker, 0, len(groups)+1)

	if userLocation != nil {
		markers = append(markers, entities.Marker{
			ID:       "user",
			Type:     entities.MarkerTypeUser,
			Position: *userLocation,
			Title:    "Your location",
		})
	}

	for i := range groups {
		pharmacy := groups[i].Pharmacy
		if pharmacy == nil || !pharmacy.HasLocation() {
			continue
		}

		marker := entities.Marker{
			ID:          pharmacy.ID,
			Type:        entities.MarkerTypePharmacy,
			Position:    *pharmacy.Location,
			Title:       pharmacy.Name,
			Description: pharmacy.Address.Street,
			IsVerified:  pharmacy.IsVerified,
		}
		if groups[i].DistanceKm != nil {
			rounded := geo.RoundKm(*groups[i].DistanceKm)
			marker.DistanceKm = &rounded
		}
		markers = append(markers, marker)
	}

	return markers
}

// BoundsFor computes the viewport containing every located pharmacy plus the
// user, if given. Returns nil when nothing has a location.
func (m *MapProjection) BoundsFor(groups []entities.PharmacyGroup, userLocation *geo.Point) *geo.Bounds {
	points := make([]geo.Point, 0, len(groups)+1)
	for i := range groups {
		if groups[i].Pharmacy != nil && groups[i].Pharmacy.HasLocation() {
			points = append(points, *groups[i].Pharmacy.Location)
		}
	}
	if userLocation != nil {
		points = append(points, *userLocation)
	}
	return geo.BoundingBox(points)
}

// View bundles markers and bounds for the response payload.
func (m *MapProjection) View(groups []entities.PharmacyGroup, userLocation *geo.Point) entities.MapView {
	return entities.MapView{
		Markers: m.Markers(groups, userLocation),
		Bounds:  m.BoundsFor(groups, userLocation),
	}
}
