package handlers

import (
	"net"
	"net/http"
	"strings"

	"github.com/mbengwi/pharmafind/backend/internal/domain/providers"
	"github.com/mbengwi/pharmafind/backend/internal/infrastructure/observability"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

// GeolocationHandler handles geolocation endpoints.
type GeolocationHandler struct {
	provider providers.GeolocationProvider
}

// NewGeolocationHandler creates a new geolocation handler.
func NewGeolocationHandler(provider providers.GeolocationProvider) *GeolocationHandler {
	return &GeolocationHandler{provider: provider}
}

// Geocode handles GET /api/geolocation/geocode?address=...
func (h *GeolocationHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		respondWithError(w, http.StatusBadRequest, "address parameter is required")
		return
	}

	result, err := h.provider.Geocode(r.Context(), address)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Str("address", address).Msg("geocode failed")
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// ReverseGeocode handles GET /api/geolocation/reverse?lat=...&lng=...
func (h *GeolocationHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	point, err := parseCoordinates(r, "lat", "lng")
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if point == nil {
		respondWithError(w, http.StatusBadRequest, "lat and lng parameters are required")
		return
	}

	address, err := h.provider.ReverseGeocode(r.Context(), point.Latitude, point.Longitude)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("reverse geocode failed")
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, address)
}

// CurrentLocation handles GET /api/geolocation/current. It resolves the
// caller's IP to an approximate position, honoring X-Forwarded-For when the
// service runs behind a proxy.
func (h *GeolocationHandler) CurrentLocation(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	location, err := h.provider.LocateIP(r.Context(), ip)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Str("ip", ip).Msg("ip lookup failed")
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, location)
}

// ValidateCoordinates handles GET /api/geolocation/validate-coordinates
func (h *GeolocationHandler) ValidateCoordinates(w http.ResponseWriter, r *http.Request) {
	point, err := parseCoordinates(r, "lat", "lng")
	if err != nil || point == nil {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"valid": false,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"valid":       geo.Validate(point.Latitude, point.Longitude),
		"coordinates": point,
	})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
