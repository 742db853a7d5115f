package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mbengwi/pharmafind/backend/internal/api/handlers"
	"github.com/mbengwi/pharmafind/backend/internal/application/services"
	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
)

func newRatingHandler(ratings *MockRatingRepository, pharmacies *MockPharmacyRepository) *handlers.RatingHandler {
	return handlers.NewRatingHandler(services.NewRatingService(ratings, pharmacies))
}

func TestSubmitRating_CreatesAndRefreshesAverage(t *testing.T) {
	ratings := new(MockRatingRepository)
	pharmacies := new(MockPharmacyRepository)

	ratings.On("Create", mock.Anything, mock.MatchedBy(func(r *entities.Rating) bool {
		return r.PharmacyID == "p1" && r.Score == 4 && r.ID != ""
	})).Return(nil)
	ratings.On("AverageForPharmacy", mock.Anything, "p1").Return(4.25, 8, nil)
	pharmacies.On("UpdateRating", mock.Anything, "p1", 4.3, 8).Return(nil)

	handler := newRatingHandler(ratings, pharmacies)

	body := `{"client_id":"c1","score":4,"comment":"quick service"}`
	req := httptest.NewRequest(http.MethodPost, "/api/pharmacies/p1/ratings", strings.NewReader(body))
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	handler.SubmitRating(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	ratings.AssertExpectations(t)
	pharmacies.AssertExpectations(t)
}

func TestSubmitRating_RejectsOutOfRangeScore(t *testing.T) {
	handler := newRatingHandler(new(MockRatingRepository), new(MockPharmacyRepository))

	for _, score := range []int{0, 6, -1} {
		body, _ := json.Marshal(map[string]interface{}{"client_id": "c1", "score": score})
		req := httptest.NewRequest(http.MethodPost, "/api/pharmacies/p1/ratings", strings.NewReader(string(body)))
		req.SetPathValue("id", "p1")
		rec := httptest.NewRecorder()

		handler.SubmitRating(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "score %d", score)
	}
}

func TestSubmitRating_RejectsInvalidBody(t *testing.T) {
	handler := newRatingHandler(new(MockRatingRepository), new(MockPharmacyRepository))

	req := httptest.NewRequest(http.MethodPost, "/api/pharmacies/p1/ratings", strings.NewReader("{not json"))
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	handler.SubmitRating(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRatings_ReturnsRatings(t *testing.T) {
	ratings := new(MockRatingRepository)
	pharmacies := new(MockPharmacyRepository)
	ratings.On("ListByPharmacy", mock.Anything, "p1", 20).Return([]*entities.Rating{
		{ID: "r1", PharmacyID: "p1", Score: 5},
		{ID: "r2", PharmacyID: "p1", Score: 3},
	}, nil)

	handler := newRatingHandler(ratings, pharmacies)

	req := httptest.NewRequest(http.MethodGet, "/api/pharmacies/p1/ratings", nil)
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	handler.ListRatings(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Ratings []*entities.Rating `json:"ratings"`
		Count   int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}
