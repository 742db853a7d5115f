package routes

import (
	"net/http"

	"github.com/mbengwi/pharmafind/backend/internal/api/handlers"
	"github.com/mbengwi/pharmafind/backend/internal/api/middleware"
	"github.com/mbengwi/pharmafind/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler      *handlers.SearchHandler
	pharmacyHandler    *handlers.PharmacyHandler
	deliveryHandler    *handlers.DeliveryHandler
	ratingHandler      *handlers.RatingHandler
	geolocationHandler *handlers.GeolocationHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	pharmacyHandler *handlers.PharmacyHandler,
	deliveryHandler *handlers.DeliveryHandler,
	ratingHandler *handlers.RatingHandler,
	geolocationHandler *handlers.GeolocationHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		searchHandler:      searchHandler,
		pharmacyHandler:    pharmacyHandler,
		deliveryHandler:    deliveryHandler,
		ratingHandler:      ratingHandler,
		geolocationHandler: geolocationHandler,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Search endpoints
	r.mux.HandleFunc("GET /api/search/drugs", r.searchHandler.SearchDrugs)

	// Pharmacy endpoints
	r.mux.HandleFunc("GET /api/pharmacies/nearby", r.pharmacyHandler.Nearby)
	r.mux.HandleFunc("GET /api/pharmacies/{id}", r.pharmacyHandler.GetPharmacy)
	r.mux.HandleFunc("GET /api/pharmacies/{id}/delivery-zones", r.pharmacyHandler.DeliveryZones)

	// Rating endpoints
	r.mux.HandleFunc("POST /api/pharmacies/{id}/ratings", r.ratingHandler.SubmitRating)
	r.mux.HandleFunc("GET /api/pharmacies/{id}/ratings", r.ratingHandler.ListRatings)

	// Delivery endpoints
	r.mux.HandleFunc("GET /api/delivery/quote", r.deliveryHandler.Quote)

	// Geolocation endpoints
	r.mux.HandleFunc("GET /api/geolocation/geocode", r.geolocationHandler.Geocode)
	r.mux.HandleFunc("GET /api/geolocation/reverse", r.geolocationHandler.ReverseGeocode)
	r.mux.HandleFunc("GET /api/geolocation/current", r.geolocationHandler.CurrentLocation)
	r.mux.HandleFunc("GET /api/geolocation/validate-coordinates", r.geolocationHandler.ValidateCoordinates)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS is outermost so every response carries its headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
