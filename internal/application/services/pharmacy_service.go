package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	"github.com/mbengwi/pharmafind/backend/internal/domain/repositories"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

// PharmacyService handles pharmacy-centric reads: nearby listings and single
// pharmacy detail with its inventory.
type PharmacyService struct {
	pharmacies repositories.PharmacyRepository
	offers     repositories.OfferRepository
	proximity  *ProximityFilter
}

// NewPharmacyService creates a new pharmacy service.
func NewPharmacyService(pharmacies repositories.PharmacyRepository, offers repositories.OfferRepository) *PharmacyService {
	return &PharmacyService{
		pharmacies: pharmacies,
		offers:     offers,
		proximity:  NewProximityFilter(),
	}
}

// Nearby lists approved pharmacies within radiusKm of center, closest first.
// Each group carries the pharmacy's current inventory so callers can show
// stock levels without a second round trip.
func (s *PharmacyService) Nearby(ctx context.Context, center geo.Point, radiusKm float64) ([]entities.PharmacyGroup, error) {
	filter := repositories.PharmacyFilter{Bounds: geo.CoarseBounds(center, radiusKm)}
	candidates, err := s.pharmacies.ListApproved(ctx, filter)
	if err != nil {
		return nil, err
	}

	within, err := s.proximity.WithinRadius(center, radiusKm, candidates)
	if err != nil {
		return nil, err
	}

	groups := make([]entities.PharmacyGroup, 0, len(within))
	for _, pd := range within {
		d := pd.DistanceKm
		group := entities.PharmacyGroup{Pharmacy: pd.Pharmacy, DistanceKm: &d}

		offers, err := s.offers.ListByPharmacy(ctx, pd.Pharmacy.ID)
		if err != nil {
			// Inventory is an enrichment here; the listing still stands.
			log.Warn().Err(err).Str("pharmacy_id", pd.Pharmacy.ID).Msg("failed to load pharmacy inventory")
		} else {
			group.Offers = offers
		}
		groups = append(groups, group)
	}

	PharmacyProximityOrder(groups)
	return groups, nil
}

// GetWithOffers returns one pharmacy and its full inventory.
func (s *PharmacyService) GetWithOffers(ctx context.Context, id string) (*entities.PharmacyGroup, error) {
	pharmacy, err := s.pharmacies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	offers, err := s.offers.ListByPharmacy(ctx, id)
	if err != nil {
		return nil, err
	}

	return &entities.PharmacyGroup{Pharmacy: pharmacy, Offers: offers}, nil
}
