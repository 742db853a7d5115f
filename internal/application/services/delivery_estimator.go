package services

import (
	"math"

	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	apperrors "github.com/mbengwi/pharmafind/backend/pkg/errors"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

// deliveryTier is one row of the fee table. maxKm is the inclusive upper
// bound; ringKm is the radius drawn for the zone on maps (the catch-all tier
// needs a finite ring).
type deliveryTier struct {
	name   string
	maxKm  float64
	fee    float64
	eta    string
	ringKm float64
}

// deliveryTiers is the single source of truth for delivery pricing. Zones,
// fees and ETAs are all derived from it so they cannot diverge.
var deliveryTiers = []deliveryTier{
	{name: "Immediate", maxKm: 2, fee: 500, eta: "15-30 minutes", ringKm: 2},
	{name: "Local", maxKm: 5, fee: 800, eta: "30-45 minutes", ringKm: 5},
	{name: "Extended", maxKm: 10, fee: 1200, eta: "45-60 minutes", ringKm: 10},
	{name: "Far", maxKm: math.Inf(1), fee: 1500, eta: "60-90 minutes", ringKm: 15},
}

// DeliveryEstimator maps distances to delivery fees and ETA buckets.
type DeliveryEstimator struct {
	currency string
}

// NewDeliveryEstimator creates an estimator quoting in the given currency.
func NewDeliveryEstimator(currency string) *DeliveryEstimator {
	return &DeliveryEstimator{currency: currency}
}

// FeeFor returns the delivery fee for a distance in kilometers.
func (e *DeliveryEstimator) FeeFor(distanceKm float64) (float64, error) {
	tier, err := tierFor(distanceKm)
	if err != nil {
		return 0, err
	}
	return tier.fee, nil
}

// ETAFor returns the estimated delivery time range for a distance.
func (e *DeliveryEstimator) ETAFor(distanceKm float64) (string, error) {
	tier, err := tierFor(distanceKm)
	if err != nil {
		return "", err
	}
	return tier.eta, nil
}

// EstimateForDistance quotes a delivery for an already-computed distance.
func (e *DeliveryEstimator) EstimateForDistance(distanceKm float64) (*entities.DeliveryEstimate, error) {
	tier, err := tierFor(distanceKm)
	if err != nil {
		return nil, err
	}
	return &entities.DeliveryEstimate{
		DistanceKm: geo.RoundKm(distanceKm),
		Fee:        tier.fee,
		Currency:   e.currency,
		ETA:        tier.eta,
	}, nil
}

// Estimate quotes a delivery between two coordinates.
func (e *DeliveryEstimator) Estimate(from, to geo.Point) (*entities.DeliveryEstimate, error) {
	if !geo.Validate(from.Latitude, from.Longitude) || !geo.Validate(to.Latitude, to.Longitude) {
		return nil, apperrors.NewValidationError("invalid coordinates")
	}
	return e.EstimateForDistance(geo.Distance(from, to))
}

// Zones materializes the fee tiers as concentric rings around a pharmacy for
// map display.
func (e *DeliveryEstimator) Zones(center geo.Point) ([]entities.DeliveryZone, error) {
	if !geo.Validate(center.Latitude, center.Longitude) {
		return nil, apperrors.NewValidationError("invalid center coordinate")
	}

	zones := make([]entities.DeliveryZone, 0, len(deliveryTiers))
	for _, tier := range deliveryTiers {
		zones = append(zones, entities.DeliveryZone{
			Name:     tier.name,
			RadiusKm: tier.ringKm,
			Fee:      tier.fee,
			ETA:      tier.eta,
			Center:   center,
		})
	}
	return zones, nil
}

// tierFor picks the first tier whose upper bound covers the distance.
// Negative distances are caller bugs, not a reason to quote the first tier.
func tierFor(distanceKm float64) (*deliveryTier, error) {
	if distanceKm < 0 || math.IsNaN(distanceKm) {
		return nil, apperrors.NewValidationError("distance must not be negative")
	}
	for i := range deliveryTiers {
		if distanceKm <= deliveryTiers[i].maxKm {
			return &deliveryTiers[i], nil
		}
	}
	// Unreachable: the last tier has an infinite bound.
	return &deliveryTiers[len(deliveryTiers)-1], nil
}
