package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mbengwi/pharmafind/backend/internal/application/services"
	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	"github.com/mbengwi/pharmafind/backend/internal/infrastructure/observability"
	apperrors "github.com/mbengwi/pharmafind/backend/pkg/errors"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

// SearchHandler handles drug search HTTP requests
type SearchHandler struct {
	search     *services.DrugSearchService
	estimator  *services.DeliveryEstimator
	projection *services.MapProjection
	metrics    *observability.Metrics
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(
	search *services.DrugSearchService,
	estimator *services.DeliveryEstimator,
	projection *services.MapProjection,
	metrics *observability.Metrics,
) *SearchHandler {
	return &SearchHandler{
		search:     search,
		estimator:  estimator,
		projection: projection,
		metrics:    metrics,
	}
}

// searchResult is one pharmacy in the search response
type searchResult struct {
	Pharmacy   *entities.Pharmacy         `json:"pharmacy"`
	Offers     []offerView                `json:"offers"`
	DistanceKm *float64                   `json:"distance_km,omitempty"`
	Delivery   *entities.DeliveryEstimate `json:"delivery,omitempty"`
}

// offerView decorates a drug offer with its client-facing stock label
type offerView struct {
	entities.DrugOffer
	StockLabel string `json:"stock_label"`
}

// SearchDrugs handles GET /api/search/drugs
func (h *SearchHandler) SearchDrugs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	query, err := parseSearchQuery(r)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	groups, err := h.search.Search(r.Context(), query)
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

	view := h.projection.View(groups, query.Center)

	observability.RecordSearchMetric(r.Context(), h.metrics, len(results), time.Since(start))

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
		"map":     view,
	})
}

func parseSearchQuery(r *http.Request) (entities.SearchQuery, error) {
	q := r.URL.Query()

	query := entities.SearchQuery{
		Term: strings.TrimSpace(q.Get("q")),
	}
	if query.Term == "" {
		// Support both ?q= and ?term=
		query.Term = strings.TrimSpace(q.Get("term"))
	}

	latStr, lngStr := q.Get("lat"), q.Get("lng")
	if latStr != "" || lngStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return query, apperrors.NewValidationError("invalid lat parameter")
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			return query, apperrors.NewValidationError("invalid lng parameter")
		}
		query.Center = &geo.Point{Latitude: lat, Longitude: lng}
	}

	if radiusStr := q.Get("radius"); radiusStr != "" {
		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			return query, apperrors.NewValidationError("invalid radius parameter")
		}
		query.RadiusKm = &radius
	}

	query.Filters.Category = strings.TrimSpace(q.Get("category"))
	if maxPriceStr := q.Get("max_price"); maxPriceStr != "" {
		maxPrice, err := strconv.ParseFloat(maxPriceStr, 64)
		if err != nil {
			return query, apperrors.NewValidationError("invalid max_price parameter")
		}
		query.Filters.MaxPrice = &maxPrice
	}
	if inStockStr := q.Get("in_stock_only"); inStockStr != "" {
		inStock, err := strconv.ParseBool(inStockStr)
		if err != nil {
			return query, apperrors.NewValidationError("invalid in_stock_only parameter")
		}
		query.Filters.InStockOnly = inStock
	}

	return query, nil
}

func offerViews(offers []entities.DrugOffer) []offerView {
	views := make([]offerView, 0, len(offers))
	for i := range offers {
		views = append(views, offerView{
			DrugOffer:  offers[i],
			StockLabel: offers[i].StockLabel(),
		})
	}
	return views
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError translates the error taxonomy to HTTP status codes
func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
