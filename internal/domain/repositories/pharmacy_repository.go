package repositories

import (
	"context"

	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

// PharmacyFilter narrows pharmacy listings.
type PharmacyFilter struct {
	Bounds *geo.Bounds
	Limit  int
	Offset int
}

// PharmacyRepository provides read access to approved pharmacies.
type PharmacyRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Pharmacy, error)
	ListApproved(ctx context.Context, filter PharmacyFilter) ([]*entities.Pharmacy, error)
	UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error
}
