package services

import (
	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	apperrors "github.com/mbengwi/pharmafind/backend/pkg/errors"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

// PharmacyDistance pairs a pharmacy with its computed distance from a search
// center.
type PharmacyDistance struct {
	Pharmacy   *entities.Pharmacy
	DistanceKm float64
}

// ProximityFilter applies the radius inclusion test to location-bearing
// candidates. It never sorts; ordering belongs to the ranking policies.
type ProximityFilter struct{}

// NewProximityFilter creates a new proximity filter.
func NewProximityFilter() *ProximityFilter {
	return &ProximityFilter{}
}

// WithinRadius computes the distance from center to every candidate that has
// a location and keeps those within radiusKm, boundary inclusive. Candidates
// without a location are skipped; they cannot be geo-filtered. A radius of
// zero keeps only candidates at the center itself.
func (f *ProximityFilter) WithinRadius(center geo.Point, radiusKm float64, candidates []*entities.Pharmacy) ([]PharmacyDistance, error) {
	if !geo.Validate(center.Latitude, center.Longitude) {
		return nil, apperrors.NewValidationError("invalid center coordinate")
	}
	if radiusKm < 0 {
		return nil, apperrors.NewValidationError("radius must not be negative")
	}

	within := make([]PharmacyDistance, 0, len(candidates))
	for _, candidate := range candidates {
		if !candidate.HasLocation() {
			continue
		}

		d := geo.Distance(center, *candidate.Location)
		if geo.WithinEpsilon(d, radiusKm) {
			within = append(within, PharmacyDistance{Pharmacy: candidate, DistanceKm: d})
		}
	}

	return within, nil
}
