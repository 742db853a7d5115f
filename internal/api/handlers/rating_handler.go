package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mbengwi/pharmafind/backend/internal/application/services"
	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
)

// RatingHandler handles pharmacy rating HTTP requests
type RatingHandler struct {
	ratings *services.RatingService
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(ratings *services.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

type submitRatingRequest struct {
	ClientID string `json:"client_id"`
	Score    int    `json:"score"`
	Comment  string `json:"comment"`
}

// SubmitRating handles POST /api/pharmacies/{id}/ratings
func (h *RatingHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	pharmacyID := r.PathValue("id")
	if pharmacyID == "" {
		respondWithError(w, http.StatusBadRequest, "pharmacy ID is required")
		return
	}

	var req submitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rating := &entities.Rating{
		PharmacyID: pharmacyID,
		ClientID:   req.ClientID,
		Score:      req.Score,
		Comment:    req.Comment,
	}

	if err := h.ratings.Submit(r.Context(), rating); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, rating)
}

// ListRatings handles GET /api/pharmacies/{id}/ratings
func (h *RatingHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	pharmacyID := r.PathValue("id")
	if pharmacyID == "" {
		respondWithError(w, http.StatusBadRequest, "pharmacy ID is required")
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			respondWithError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	ratings, err := h.ratings.ListForPharmacy(r.Context(), pharmacyID, limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"ratings": ratings,
		"count":   len(ratings),
	})
}
