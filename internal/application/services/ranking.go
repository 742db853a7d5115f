package services

import (
	"sort"

	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
)

// The two result orderings are deliberately different and deliberately named.
// Drug searches put availability and price before proximity; pharmacy listing
// puts proximity first. Both are stable, so ties keep insertion order and
// repeated runs over the same input produce identical output.

// DrugSearchOrder sorts groups for a drug availability search: best stock
// status first, then cheapest matching offer, then highest pharmacy rating.
// Distance is intentionally not a key here.
func DrugSearchOrder(groups []entities.PharmacyGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := &groups[i], &groups[j]

		if ar, br := a.BestStockRank(), b.BestStockRank(); ar != br {
			return ar < br
		}
		if ap, bp := a.MinPrice(), b.MinPrice(); ap != bp {
			return ap < bp
		}
		return a.Rating() > b.Rating()
	})
}

// PharmacyProximityOrder sorts groups for a nearby-pharmacies listing:
// closest first (groups without a distance sort last), then largest stock,
// then highest rating.
func PharmacyProximityOrder(groups []entities.PharmacyGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := &groups[i], &groups[j]

		switch {
		case a.DistanceKm != nil && b.DistanceKm == nil:
			return true
		case a.DistanceKm == nil && b.DistanceKm != nil:
			return false
		case a.DistanceKm != nil && b.DistanceKm != nil && *a.DistanceKm != *b.DistanceKm:
			return *a.DistanceKm < *b.DistanceKm
		}

		if aq, bq := a.TotalQuantity(), b.TotalQuantity(); aq != bq {
			return aq > bq
		}
		return a.Rating() > b.Rating()
	})
}
