package entities

import (
	"math"

	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

// SearchFilters is the closed set of supported search refinements. Anything
// not representable here is rejected at the API boundary rather than passed
// through to storage.
type SearchFilters struct {
	Category    string   `json:"category,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
	InStockOnly bool     `json:"in_stock_only,omitempty"`
}

// SearchQuery describes one drug availability search.
type SearchQuery struct {
	Term     string        `json:"term"`
	Center   *geo.Point    `json:"center,omitempty"`
	RadiusKm *float64      `json:"radius_km,omitempty"`
	Filters  SearchFilters `json:"filters"`
}

// CandidateOffer is one (pharmacy, offer) row as returned by the candidate
// supplier, before grouping.
type CandidateOffer struct {
	Pharmacy *Pharmacy
	Offer    DrugOffer
}

// PharmacyGroup is the aggregation unit of a search result: one pharmacy and
// the matching offers it holds. DistanceKm is nil when the search had no
// center coordinate.
type PharmacyGroup struct {
	Pharmacy   *Pharmacy   `json:"pharmacy"`
	Offers     []DrugOffer `json:"offers"`
	DistanceKm *float64    `json:"distance_km,omitempty"`
}

// BestStockRank returns the best availability rank among the group's offers.
func (g *PharmacyGroup) BestStockRank() int {
	best := StockStatusOutOfStock.Rank()
	for i := range g.Offers {
		if r := g.Offers[i].StockStatus().Rank(); r < best {
			best = r
		}
	}
	return best
}

// MinPrice returns the cheapest matching offer price, or +Inf for a group
// with no offers so that it sorts last.
func (g *PharmacyGroup) MinPrice() float64 {
	min := math.Inf(1)
	for i := range g.Offers {
		if g.Offers[i].Price < min {
			min = g.Offers[i].Price
		}
	}
	return min
}

// TotalQuantity sums the stock across the group's offers.
func (g *PharmacyGroup) TotalQuantity() int {
	total := 0
	for i := range g.Offers {
		total += g.Offers[i].Quantity
	}
	return total
}

// Rating returns the pharmacy rating, or zero when metadata is missing.
func (g *PharmacyGroup) Rating() float64 {
	if g.Pharmacy == nil {
		return 0
	}
	return g.Pharmacy.Rating
}
