package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mbengwi/pharmafind/backend/internal/api/handlers"
	"github.com/mbengwi/pharmafind/backend/internal/application/services"
	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	"github.com/mbengwi/pharmafind/backend/internal/domain/repositories"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) FindMatching(ctx context.Context, query repositories.OfferQuery) ([]entities.CandidateOffer, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.CandidateOffer), args.Error(1)
}

func (m *MockOfferRepository) ListByPharmacy(ctx context.Context, pharmacyID string) ([]entities.DrugOffer, error) {
	args := m.Called(ctx, pharmacyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.DrugOffer), args.Error(1)
}

type MockPharmacyRepository struct {
	mock.Mock
}

func (m *MockPharmacyRepository) GetByID(ctx context.Context, id string) (*entities.Pharmacy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Pharmacy), args.Error(1)
}

func (m *MockPharmacyRepository) ListApproved(ctx context.Context, filter repositories.PharmacyFilter) ([]*entities.Pharmacy, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Pharmacy), args.Error(1)
}

func (m *MockPharmacyRepository) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	args := m.Called(ctx, id, rating, reviewCount)
	return args.Error(0)
}

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

func approvedPharmacy(id string, lat, lon float64) *entities.Pharmacy {
	return &entities.Pharmacy{
		ID:       id,
		Name:     "Pharmacy " + id,
		Status:   entities.StatusApproved,
		Rating:   4.0,
		Location: &geo.Point{Latitude: lat, Longitude: lon},
	}
}

func newSearchHandler(repo repositories.OfferRepository) *handlers.SearchHandler {
	svc := services.NewDrugSearchService(repo, nil, nil, 10)
	return handlers.NewSearchHandler(
		svc,
		services.NewDeliveryEstimator("XAF"),
		services.NewMapProjection(),
		nil,
	)
}

type searchResponse struct {
	Results []struct {
		Pharmacy *entities.Pharmacy `json:"pharmacy"`
		Offers   []struct {
			entities.DrugOffer
			StockLabel string `json:"stock_label"`
		} `json:"offers"`
		DistanceKm *float64                   `json:"distance_km"`
		Delivery   *entities.DeliveryEstimate `json:"delivery"`
	} `json:"results"`
	Count int             `json:"count"`
	Map   entities.MapView `json:"map"`
}

func TestSearchDrugs_RequiresTerm(t *testing.T) {
	handler := newSearchHandler(new(MockOfferRepository))

	req := httptest.NewRequest(http.MethodGet, "/api/search/drugs", nil)
	rec := httptest.NewRecorder()

	handler.SearchDrugs(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchDrugs_InvalidCoordinates(t *testing.T) {
	handler := newSearchHandler(new(MockOfferRepository))

	req := httptest.NewRequest(http.MethodGet, "/api/search/drugs?q=paracetamol&lat=abc&lng=10.1", nil)
	rec := httptest.NewRecorder()

	handler.SearchDrugs(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchDrugs_ReturnsGroupedResultsWithDelivery(t *testing.T) {
	repo := new(MockOfferRepository)
	pharmacy := approvedPharmacy("p1", 5.9612, 10.1485)
	repo.On("FindMatching", mock.Anything, mock.Anything).Return([]entities.CandidateOffer{
		{Pharmacy: pharmacy, Offer: entities.DrugOffer{
			ID: "o1", PharmacyID: "p1", Name: "Paracetamol",
			GenericName: "Acetaminophen", Category: "Pain Relievers",
			Price: 500, Quantity: 50,
		}},
	}, nil)

	handler := newSearchHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/search/drugs?q=paracetamol&lat=5.9597&lng=10.1460&radius=5", nil)
	rec := httptest.NewRecorder()

	handler.SearchDrugs(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	require.Len(t, resp.Results, 1)

	result := resp.Results[0]
	assert.Equal(t, "p1", result.Pharmacy.ID)
	require.Len(t, result.Offers, 1)
	assert.Equal(t, "In Stock", result.Offers[0].StockLabel)

	// The pharmacy sits a few hundred meters away, inside the cheapest tier.
	require.NotNil(t, result.DistanceKm)
	require.NotNil(t, result.Delivery)
	assert.Equal(t, 500.0, result.Delivery.Fee)
	assert.Equal(t, "15-30 minutes", result.Delivery.ETA)
	assert.Equal(t, "XAF", result.Delivery.Currency)

	// Map payload carries the user marker plus one pharmacy marker.
	require.Len(t, resp.Map.Markers, 2)
	assert.Equal(t, entities.MarkerTypeUser, resp.Map.Markers[0].Type)
	assert.Equal(t, entities.MarkerTypePharmacy, resp.Map.Markers[1].Type)
}

func TestSearchDrugs_EmptyResultIsOK(t *testing.T) {
	repo := new(MockOfferRepository)
	repo.On("FindMatching", mock.Anything, mock.Anything).Return([]entities.CandidateOffer{}, nil)

	handler := newSearchHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/search/drugs?q=unobtainium", nil)
	rec := httptest.NewRecorder()

	handler.SearchDrugs(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
}

func TestSearchDrugs_FilterParametersArePassedThrough(t *testing.T) {
	repo := new(MockOfferRepository)
	repo.On("FindMatching", mock.Anything, mock.MatchedBy(func(q repositories.OfferQuery) bool {
		return q.Filters.Category == "Antibiotics" &&
			q.Filters.MaxPrice != nil && *q.Filters.MaxPrice == 2000 &&
			q.Filters.InStockOnly
	})).Return([]entities.CandidateOffer{}, nil)

	handler := newSearchHandler(repo)

	req := httptest.NewRequest(http.MethodGet,
		"/api/search/drugs?q=amoxicillin&category=Antibiotics&max_price=2000&in_stock_only=true", nil)
	rec := httptest.NewRecorder()

	handler.SearchDrugs(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}
