package repositories

import (
	"context"

	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
)

// RatingRepository stores client reviews of pharmacies.
type RatingRepository interface {
	Create(ctx context.Context, rating *entities.Rating) error
	ListByPharmacy(ctx context.Context, pharmacyID string, limit int) ([]*entities.Rating, error)
	AverageForPharmacy(ctx context.Context, pharmacyID string) (avg float64, count int, err error)
}
