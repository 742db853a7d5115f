package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	"github.com/mbengwi/pharmafind/backend/internal/domain/repositories"
	apperrors "github.com/mbengwi/pharmafind/backend/pkg/errors"
)

// RatingService records client reviews and keeps the denormalized pharmacy
// rating (consumed by the ranking policies) up to date.
type RatingService struct {
	ratings    repositories.RatingRepository
	pharmacies repositories.PharmacyRepository
}

// NewRatingService creates a new rating service.
func NewRatingService(ratings repositories.RatingRepository, pharmacies repositories.PharmacyRepository) *RatingService {
	return &RatingService{ratings: ratings, pharmacies: pharmacies}
}

// Submit stores a rating and refreshes the pharmacy's average.
func (s *RatingService) Submit(ctx context.Context, rating *entities.Rating) error {
	if rating.Score < 1 || rating.Score > 5 {
		return apperrors.NewValidationError("score must be between 1 and 5")
	}
	if rating.PharmacyID == "" {
		return apperrors.NewValidationError("pharmacy id is required")
	}

	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now()
	}

	if err := s.ratings.Create(ctx, rating); err != nil {
		return err
	}

	avg, count, err := s.ratings.AverageForPharmacy(ctx, rating.PharmacyID)
	if err != nil {
		return err
	}

	// One decimal place, matching what clients see.
	return s.pharmacies.UpdateRating(ctx, rating.PharmacyID, math.Round(avg*10)/10, count)
}

// ListForPharmacy returns recent ratings for a pharmacy.
func (s *RatingService) ListForPharmacy(ctx context.Context, pharmacyID string, limit int) ([]*entities.Rating, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.ratings.ListByPharmacy(ctx, pharmacyID, limit)
}
