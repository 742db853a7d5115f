package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	"github.com/mbengwi/pharmafind/backend/internal/domain/repositories"
	apperrors "github.com/mbengwi/pharmafind/backend/pkg/errors"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

// DrugSearchService aggregates drug availability across pharmacies: it asks
// the candidate supplier for matching (pharmacy, offer) rows, applies the
// geo filter when a center is given, groups by pharmacy and ranks the groups.
type DrugSearchService struct {
	offers          repositories.OfferRepository
	searchRepo      repositories.OfferSearchRepository
	analytics       repositories.SearchAnalyticsRepository
	proximity       *ProximityFilter
	defaultRadiusKm float64
}

// NewDrugSearchService creates a new drug search service. searchRepo and
// analytics may be nil; the service then supplies candidates from the
// database only and skips event logging.
func NewDrugSearchService(
	offers repositories.OfferRepository,
	searchRepo repositories.OfferSearchRepository,
	analytics repositories.SearchAnalyticsRepository,
	defaultRadiusKm float64,
) *DrugSearchService {
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = 10
	}
	return &DrugSearchService{
		offers:          offers,
		searchRepo:      searchRepo,
		analytics:       analytics,
		proximity:       NewProximityFilter(),
		defaultRadiusKm: defaultRadiusKm,
	}
}

// Search runs one drug availability query. An empty result is a valid
// outcome; a blank term is not.
func (s *DrugSearchService) Search(ctx context.Context, query entities.SearchQuery) ([]entities.PharmacyGroup, error) {
	start := time.Now()

	term := strings.TrimSpace(query.Term)
	if term == "" {
		return nil, apperrors.NewValidationError("search term is required")
	}
	if query.Center != nil && !geo.Validate(query.Center.Latitude, query.Center.Longitude) {
		return nil, apperrors.NewValidationError("invalid search center")
	}

	radiusKm := s.defaultRadiusKm
	if query.RadiusKm != nil {
		if *query.RadiusKm < 0 {
			return nil, apperrors.NewValidationError("radius must not be negative")
		}
		radiusKm = *query.RadiusKm
	}

	offerQuery := repositories.OfferQuery{Term: term, Filters: query.Filters}
	if query.Center != nil {
		offerQuery.Bounds = geo.CoarseBounds(*query.Center, radiusKm)
	}

	candidates, err := s.findCandidates(ctx, offerQuery)
	if err != nil {
		return nil, err
	}

	groups := s.aggregate(term, query.Filters, candidates)

	if query.Center != nil {
		groups, err = s.applyGeoFilter(*query.Center, radiusKm, groups)
		if err != nil {
			return nil, err
		}
	}

	DrugSearchOrder(groups)

	s.logEvent(ctx, term, query, radiusKm, len(groups), time.Since(start))

	return groups, nil
}

// findCandidates prefers the search engine when one is configured, falling
// back to the database supplier on error.
func (s *DrugSearchService) findCandidates(ctx context.Context, query repositories.OfferQuery) ([]entities.CandidateOffer, error) {
	if s.searchRepo != nil {
		candidates, err := s.searchRepo.FindMatching(ctx, query)
		if err == nil {
			return candidates, nil
		}
		log.Warn().Err(err).Str("term", query.Term).Msg("offer index lookup failed, falling back to database")
	}
	return s.offers.FindMatching(ctx, query)
}

// aggregate applies the offer-level filters and groups the surviving rows by
// pharmacy, preserving first-seen pharmacy order. Pharmacy metadata is
// attached once per group. A group whose offers are all filtered away is
// dropped entirely.
func (s *DrugSearchService) aggregate(term string, filters entities.SearchFilters, candidates []entities.CandidateOffer) []entities.PharmacyGroup {
	groups := make([]entities.PharmacyGroup, 0)
	index := make(map[string]int)

	for i := range candidates {
		pharmacy := candidates[i].Pharmacy
		offer := candidates[i].Offer

		if pharmacy == nil || pharmacy.Status != entities.StatusApproved {
			continue
		}
		if !matchesTerm(term, &offer) {
			continue
		}
		if filters.InStockOnly && offer.Quantity == 0 {
			continue
		}
		if filters.MaxPrice != nil && offer.Price > *filters.MaxPrice {
			continue
		}
		if filters.Category != "" && !strings.EqualFold(filters.Category, offer.Category) {
			continue
		}

		pos, seen := index[pharmacy.ID]
		if !seen {
			pos = len(groups)
			index[pharmacy.ID] = pos
			groups = append(groups, entities.PharmacyGroup{Pharmacy: pharmacy})
		}
		groups[pos].Offers = append(groups[pos].Offers, offer)
	}

	return groups
}

// applyGeoFilter keeps only groups whose pharmacy lies within the radius and
// annotates each with its distance. Pharmacies without coordinates are
// dropped from geo-filtered results.
func (s *DrugSearchService) applyGeoFilter(center geo.Point, radiusKm float64, groups []entities.PharmacyGroup) ([]entities.PharmacyGroup, error) {
	pharmacies := make([]*entities.Pharmacy, 0, len(groups))
	for i := range groups {
		pharmacies = append(pharmacies, groups[i].Pharmacy)
	}

	within, err := s.proximity.WithinRadius(center, radiusKm, pharmacies)
	if err != nil {
		return nil, err
	}

	distances := make(map[string]float64, len(within))
	for _, pd := range within {
		distances[pd.Pharmacy.ID] = pd.DistanceKm
	}

	filtered := groups[:0]
	for i := range groups {
		d, ok := distances[groups[i].Pharmacy.ID]
		if !ok {
			continue
		}
		group := groups[i]
		group.DistanceKm = &d
		filtered = append(filtered, group)
	}
	return filtered, nil
}

// matchesTerm is the case-insensitive substring match over drug name,
// generic name and category. Suppliers are expected to pre-filter, but the
// check is repeated here so index-backed suppliers with fuzzier matching
// cannot widen the contract.
func matchesTerm(term string, offer *entities.DrugOffer) bool {
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(offer.Name), needle) ||
		strings.Contains(strings.ToLower(offer.GenericName), needle) ||
		strings.Contains(strings.ToLower(offer.Category), needle)
}

// logEvent records the search for analytics. Failures are logged and
// swallowed; analytics never breaks a search.
func (s *DrugSearchService) logEvent(ctx context.Context, term string, query entities.SearchQuery, radiusKm float64, resultCount int, elapsed time.Duration) {
	if s.analytics == nil {
		return
	}

	event := &entities.SearchEvent{
		ID:          uuid.New().String(),
		Term:        term,
		RadiusKm:    radiusKm,
		ResultCount: resultCount,
		LatencyMs:   elapsed.Milliseconds(),
		CreatedAt:   time.Now(),
	}
	if query.Center != nil {
		event.Latitude = &query.Center.Latitude
		event.Longitude = &query.Center.Longitude
	}

	if err := s.analytics.LogEvent(ctx, event); err != nil {
		log.Warn().Err(err).Str("term", term).Msg("failed to log search event")
	}
}
