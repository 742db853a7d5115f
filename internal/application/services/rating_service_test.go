package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	apperrors "github.com/mbengwi/pharmafind/backend/pkg/errors"
)

type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *entities.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) ListByPharmacy(ctx context.Context, pharmacyID string, limit int) ([]*entities.Rating, error) {
	args := m.Called(ctx, pharmacyID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Rating), args.Error(1)
}

func (m *MockRatingRepository) AverageForPharmacy(ctx context.Context, pharmacyID string) (float64, int, error) {
	args := m.Called(ctx, pharmacyID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

func TestSubmit_RejectsOutOfRangeScore(t *testing.T) {
	svc := NewRatingService(new(MockRatingRepository), new(MockPharmacyRepository))

	for _, score := range []int{0, -1, 6} {
		err := svc.Submit(context.Background(), &entities.Rating{PharmacyID: "p1", Score: score})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), "score %d", score)
	}
}

func TestSubmit_UpdatesRoundedAverage(t *testing.T) {
	ratings := new(MockRatingRepository)
	pharmacies := new(MockPharmacyRepository)
	svc := NewRatingService(ratings, pharmacies)

	ratings.On("Create", mock.Anything, mock.MatchedBy(func(r *entities.Rating) bool {
		return r.ID != "" && !r.CreatedAt.IsZero()
	})).Return(nil)
	ratings.On("AverageForPharmacy", mock.Anything, "p1").Return(4.266666, 3, nil)
	pharmacies.On("UpdateRating", mock.Anything, "p1", 4.3, 3).Return(nil)

	err := svc.Submit(context.Background(), &entities.Rating{PharmacyID: "p1", ClientID: "c1", Score: 5})
	require.NoError(t, err)

	ratings.AssertExpectations(t)
	pharmacies.AssertExpectations(t)
}

func TestListForPharmacy_DefaultsLimit(t *testing.T) {
	ratings := new(MockRatingRepository)
	svc := NewRatingService(ratings, new(MockPharmacyRepository))

	ratings.On("ListByPharmacy", mock.Anything, "p1", 20).Return([]*entities.Rating{}, nil)

	_, err := svc.ListForPharmacy(context.Background(), "p1", 0)
	require.NoError(t, err)
	ratings.AssertExpectations(t)
}
