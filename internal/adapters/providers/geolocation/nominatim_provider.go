package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mbengwi/pharmafind/backend/internal/adapters/cache"
	"github.com/mbengwi/pharmafind/backend/internal/domain/providers"
	apperrors "github.com/mbengwi/pharmafind/backend/pkg/errors"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

const (
	defaultNominatimURL    = "https://nominatim.openstreetmap.org"
	defaultIPLookupURL     = "http://ip-api.com/json"
	defaultGeocodeCacheTTL = 60 * 60 * 24 * 30
	defaultIPCacheTTL      = 60 * 60 * 6
	defaultHTTPTimeout     = 8 * time.Second
)

// NominatimProvider implements GeolocationProvider against the OpenStreetMap
// Nominatim API for address work and ip-api.com for IP lookups. Results are
// cached aggressively; both upstreams rate-limit free clients.
type NominatimProvider struct {
	httpClient  *http.Client
	cache       providers.CacheProvider
	baseURL     string
	ipLookupURL string
	userAgent   string
}

// NewNominatimProvider creates a new Nominatim-backed provider.
func NewNominatimProvider(userAgent string, cache providers.CacheProvider) providers.GeolocationProvider {
	return NewNominatimProviderWithOptions(userAgent, cache, defaultNominatimURL, defaultIPLookupURL, nil)
}

// NewNominatimProviderWithOptions allows overriding base URLs and HTTP client (used for tests).
func NewNominatimProviderWithOptions(userAgent string, cache providers.CacheProvider, baseURL, ipLookupURL string, httpClient *http.Client) providers.GeolocationProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultNominatimURL
	}
	if strings.TrimSpace(ipLookupURL) == "" {
		ipLookupURL = defaultIPLookupURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &NominatimProvider{
		httpClient:  httpClient,
		cache:       cache,
		baseURL:     strings.TrimRight(baseURL, "/"),
		ipLookupURL: strings.TrimRight(ipLookupURL, "/"),
		userAgent:   userAgent,
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		Road    string `json:"road"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

type ipAPIResult struct {
	Status     string  `json:"status"`
	Message    string  `json:"message"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	City       string  `json:"city"`
	RegionName string  `json:"regionName"`
	Country    string  `json:"country"`
	Timezone   string  `json:"timezone"`
}

// Geocode converts a free-form address to coordinates.
func (p *NominatimProvider) Geocode(ctx context.Context, address string) (*providers.GeocodedAddress, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("address is required")
	}

	cacheKey := "geo:geocode:" + hashKey(strings.ToLower(trimmed))
	if cached := p.cachedAddress(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	params := url.Values{
		"q":              []string{trimmed},
		"format":         []string{"json"},
		"limit":          []string{"1"},
		"addressdetails": []string{"1"},
	}

	var results []nominatimResult
	if err := p.doGet(ctx, p.baseURL+"/search?"+params.Encode(), &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no results for address %q", trimmed))
	}

	addr, err := toGeocodedAddress(results[0])
	if err != nil {
		return nil, err
	}

	p.cacheAddress(ctx, cacheKey, addr)
	return addr, nil
}

// ReverseGeocode converts coordinates to an address.
func (p *NominatimProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.GeocodedAddress, error) {
	if !geo.Validate(lat, lon) {
		return nil, apperrors.NewValidationError("invalid coordinates")
	}

	cacheKey := fmt.Sprintf("geo:reverse:%.5f:%.5f", lat, lon)
	if cached := p.cachedAddress(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	params := url.Values{
		"lat":            []string{strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":            []string{strconv.FormatFloat(lon, 'f', -1, 64)},
		"format":         []string{"json"},
		"addressdetails": []string{"1"},
	}

	var result nominatimResult
	if err := p.doGet(ctx, p.baseURL+"/reverse?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	if result.DisplayName == "" {
		return nil, apperrors.NewNotFoundError("no address at coordinates")
	}

	addr, err := toGeocodedAddress(result)
	if err != nil {
		return nil, err
	}

	p.cacheAddress(ctx, cacheKey, addr)
	return addr, nil
}

// LocateIP resolves an IP address to an approximate position.
func (p *NominatimProvider) LocateIP(ctx context.Context, ip string) (*providers.IPLocation, error) {
	trimmed := strings.TrimSpace(ip)

	cacheKey := "geo:ip:" + hashKey(trimmed)
	if p.cache != nil {
		var loc providers.IPLocation
		if err := cache.GetJSON(ctx, p.cache, cacheKey, &loc); err == nil {
			return &loc, nil
		}
	}

	// ip-api locates the caller's own IP when the path segment is empty.
	endpoint := p.ipLookupURL + "/" + url.PathEscape(trimmed)

	var result ipAPIResult
	if err := p.doGet(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	if result.Status != "success" {
		return nil, apperrors.NewExternalError(fmt.Sprintf("ip lookup failed: %s", result.Message), nil)
	}

	loc := &providers.IPLocation{
		Coordinates: geo.Point{Latitude: result.Lat, Longitude: result.Lon},
		City:        result.City,
		Region:      result.RegionName,
		Country:     result.Country,
		Timezone:    result.Timezone,
	}

	if p.cache != nil {
		_ = cache.SetJSON(ctx, p.cache, cacheKey, loc, defaultIPCacheTTL)
	}

	return loc, nil
}

func (p *NominatimProvider) doGet(ctx context.Context, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to build geolocation request", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return apperrors.NewExternalError("geolocation request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewExternalError(fmt.Sprintf("geolocation service returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewExternalError("failed to read geolocation response", err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return apperrors.NewExternalError("failed to decode geolocation response", err)
	}

	return nil
}

func (p *NominatimProvider) cachedAddress(ctx context.Context, key string) *providers.GeocodedAddress {
	if p.cache == nil {
		return nil
	}
	var addr providers.GeocodedAddress
	if err := cache.GetJSON(ctx, p.cache, key, &addr); err != nil {
		return nil
	}
	if !geo.Validate(addr.Coordinates.Latitude, addr.Coordinates.Longitude) {
		return nil
	}
	return &addr
}

func (p *NominatimProvider) cacheAddress(ctx context.Context, key string, addr *providers.GeocodedAddress) {
	if p.cache == nil {
		return
	}
	_ = cache.SetJSON(ctx, p.cache, key, addr, defaultGeocodeCacheTTL)
}

func toGeocodedAddress(result nominatimResult) (*providers.GeocodedAddress, error) {
	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return nil, apperrors.NewExternalError("invalid latitude in geocode response", err)
	}
	lon, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return nil, apperrors.NewExternalError("invalid longitude in geocode response", err)
	}

	city := result.Address.City
	if city == "" {
		city = result.Address.Town
	}
	if city == "" {
		city = result.Address.Village
	}

	return &providers.GeocodedAddress{
		FormattedAddress: result.DisplayName,
		Street:           result.Address.Road,
		City:             city,
		Region:           result.Address.State,
		Country:          result.Address.Country,
		Coordinates:      geo.Point{Latitude: lat, Longitude: lon},
	}, nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
