package repositories

import (
	"context"

	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

// OfferQuery is the storage-level shape of a candidate lookup. Bounds, when
// set, lets the adapter pre-filter with a cheap rectangle; the exact radius
// check always happens in the application layer.
type OfferQuery struct {
	Term    string
	Filters entities.SearchFilters
	Bounds  *geo.Bounds
	Limit   int
}

// OfferRepository is the candidate supplier: given a term and filters it
// returns raw (pharmacy, offer) rows from persistent storage. Matching is a
// case-insensitive substring test against drug name, generic name and
// category.
type OfferRepository interface {
	FindMatching(ctx context.Context, query OfferQuery) ([]entities.CandidateOffer, error)
	ListByPharmacy(ctx context.Context, pharmacyID string) ([]entities.DrugOffer, error)
}

// OfferSearchRepository is the optional search-engine backed supplier. When
// configured it serves candidate lookups, falling back to OfferRepository.
type OfferSearchRepository interface {
	FindMatching(ctx context.Context, query OfferQuery) ([]entities.CandidateOffer, error)
	Index(ctx context.Context, pharmacy *entities.Pharmacy, offer *entities.DrugOffer) error
	Delete(ctx context.Context, offerID string) error
}
