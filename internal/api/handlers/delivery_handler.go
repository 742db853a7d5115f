package handlers

import (
	"net/http"

	"github.com/mbengwi/pharmafind/backend/internal/application/services"
)

// DeliveryHandler handles delivery quote HTTP requests
type DeliveryHandler struct {
	estimator *services.DeliveryEstimator
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(estimator *services.DeliveryEstimator) *DeliveryHandler {
	return &DeliveryHandler{estimator: estimator}
}

// Quote handles GET /api/delivery/quote
func (h *DeliveryHandler) Quote(w http.ResponseWriter, r *http.Request) {
	from, err := parseCoordinates(r, "from_lat", "from_lng")
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	to, err := parseCoordinates(r, "to_lat", "to_lng")
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if from == nil || to == nil {
		respondWithError(w, http.StatusBadRequest, "from_lat, from_lng, to_lat and to_lng parameters are required")
		return
	}

	estimate, err := h.estimator.Estimate(*from, *to)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, estimate)
}
