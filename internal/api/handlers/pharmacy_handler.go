package handlers

import (
	"net/http"
	"strconv"

	"github.com/mbengwi/pharmafind/backend/internal/application/services"
	apperrors "github.com/mbengwi/pharmafind/backend/pkg/errors"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

// PharmacyHandler handles pharmacy HTTP requests
type PharmacyHandler struct {
	pharmacies      *services.PharmacyService
	estimator       *services.DeliveryEstimator
	projection      *services.MapProjection
	defaultRadiusKm float64
}

// NewPharmacyHandler creates a new pharmacy handler
func NewPharmacyHandler(
	pharmacies *services.PharmacyService,
	estimator *services.DeliveryEstimator,
	projection *services.MapProjection,
	defaultRadiusKm float64,
) *PharmacyHandler {
	return &PharmacyHandler{
		pharmacies:      pharmacies,
		estimator:       estimator,
		projection:      projection,
		defaultRadiusKm: defaultRadiusKm,
	}
}

// Nearby handles GET /api/pharmacies/nearby
func (h *PharmacyHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	center, err := parseCoordinates(r, "lat", "lng")
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if center == nil {
		respondWithError(w, http.StatusBadRequest, "lat and lng parameters are required")
		return
	}

	radiusKm := h.defaultRadiusKm
	if radiusStr := r.URL.Query().Get("radius"); radiusStr != "" {
		radiusKm, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid radius parameter")
			return
		}
	}

	groups, err := h.pharmacies.Nearby(r.Context(), *center, radiusKm)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	results := make([]searchResult, 0, len(groups))
	for i := range groups {
		g := &groups[i]
		result := searchResult{
			Pharmacy:   g.Pharmacy,
			Offers:     offerViews(g.Offers),
			DistanceKm: g.DistanceKm,
		}
		if g.DistanceKm != nil {
			if estimate, err := h.estimator.EstimateForDistance(*g.DistanceKm); err == nil {
				result.Delivery = estimate
			}
		}
		results = append(results, result)
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"pharmacies": results,
		"count":      len(results),
		"map":        h.projection.View(groups, center),
	})
}

// GetPharmacy handles GET /api/pharmacies/{id}
func (h *PharmacyHandler) GetPharmacy(w http.ResponseWriter, r *http.Request) {
	pharmacyID := r.PathValue("id")
	if pharmacyID == "" {
		respondWithError(w, http.StatusBadRequest, "pharmacy ID is required")
		return
	}

	group, err := h.pharmacies.GetWithOffers(r.Context(), pharmacyID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"pharmacy": group.Pharmacy,
		"offers":   offerViews(group.Offers),
	})
}

// DeliveryZones handles GET /api/pharmacies/{id}/delivery-zones
func (h *PharmacyHandler) DeliveryZones(w http.ResponseWriter, r *http.Request) {
	pharmacyID := r.PathValue("id")
	if pharmacyID == "" {
		respondWithError(w, http.StatusBadRequest, "pharmacy ID is required")
		return
	}

	group, err := h.pharmacies.GetWithOffers(r.Context(), pharmacyID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if !group.Pharmacy.HasLocation() {
		respondWithError(w, http.StatusConflict, "pharmacy has no location on record")
		return
	}

	zones, err := h.estimator.Zones(*group.Pharmacy.Location)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"pharmacy_id": group.Pharmacy.ID,
		"center":      group.Pharmacy.Location,
		"zones":       zones,
	})
}

// parseCoordinates reads an optional coordinate pair from query parameters.
// Returns nil when both are absent, an error when only one is present or
// either fails to parse.
func parseCoordinates(r *http.Request, latParam, lngParam string) (*geo.Point, error) {
	latStr := r.URL.Query().Get(latParam)
	lngStr := r.URL.Query().Get(lngParam)
	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, apperrors.NewValidationError(latParam + " and " + lngParam + " must be provided together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid " + latParam + " parameter")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid " + lngParam + " parameter")
	}
	if !geo.Validate(lat, lng) {
		return nil, apperrors.NewValidationError("coordinates out of range")
	}

	return &geo.Point{Latitude: lat, Longitude: lng}, nil
}
