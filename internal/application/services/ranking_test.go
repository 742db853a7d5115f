package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
)

func group(id string, rating float64, distanceKm *float64, offers ...entities.DrugOffer) entities.PharmacyGroup {
	return entities.PharmacyGroup{
		Pharmacy: &entities.Pharmacy{
			ID:     id,
			Name:   "Pharmacy " + id,
			Status: entities.StatusApproved,
			Rating: rating,
		},
		Offers:     offers,
		DistanceKm: distanceKm,
	}
}

func km(d float64) *float64 { return &d }

func ids(groups []entities.PharmacyGroup) []string {
	out := make([]string, len(groups))
	for i := range groups {
		out[i] = groups[i].Pharmacy.ID
	}
	return out
}

func TestDrugSearchOrder_StockFirstThenPriceThenRating(t *testing.T) {
	groups := []entities.PharmacyGroup{
		group("out", 5.0, nil, entities.DrugOffer{Quantity: 0, Price: 100}),
		group("low-cheap", 3.0, nil, entities.DrugOffer{Quantity: 5, Price: 150}),
		group("in-expensive", 4.0, nil, entities.DrugOffer{Quantity: 50, Price: 300}),
		group("in-cheap", 2.0, nil, entities.DrugOffer{Quantity: 40, Price: 200}),
	}

	DrugSearchOrder(groups)

	assert.Equal(t, []string{"in-cheap", "in-expensive", "low-cheap", "out"}, ids(groups))
}

func TestDrugSearchOrder_IgnoresDistance(t *testing.T) {
	// The far pharmacy has stock, the near one does not: availability wins.
	groups := []entities.PharmacyGroup{
		group("near-out", 4.0, km(0.5), entities.DrugOffer{Quantity: 0, Price: 100}),
		group("far-in", 4.0, km(9.5), entities.DrugOffer{Quantity: 30, Price: 100}),
	}

	DrugSearchOrder(groups)

	assert.Equal(t, []string{"far-in", "near-out"}, ids(groups))
}

func TestDrugSearchOrder_RatingBreaksPriceTies(t *testing.T) {
	groups := []entities.PharmacyGroup{
		group("low-rated", 2.5, nil, entities.DrugOffer{Quantity: 30, Price: 200}),
		group("high-rated", 4.8, nil, entities.DrugOffer{Quantity: 30, Price: 200}),
	}

	DrugSearchOrder(groups)

	assert.Equal(t, []string{"high-rated", "low-rated"}, ids(groups))
}

func TestPharmacyProximityOrder_DistanceFirst(t *testing.T) {
	groups := []entities.PharmacyGroup{
		group("far", 5.0, km(8.2), entities.DrugOffer{Quantity: 100}),
		group("near", 1.0, km(0.4), entities.DrugOffer{Quantity: 1}),
		group("mid", 3.0, km(3.1), entities.DrugOffer{Quantity: 50}),
	}

	PharmacyProximityOrder(groups)

	assert.Equal(t, []string{"near", "mid", "far"}, ids(groups))
}

func TestPharmacyProximityOrder_MissingDistanceSortsLast(t *testing.T) {
	groups := []entities.PharmacyGroup{
		group("unlocated", 5.0, nil),
		group("located", 1.0, km(7.5)),
	}

	PharmacyProximityOrder(groups)

	assert.Equal(t, []string{"located", "unlocated"}, ids(groups))
}

func TestPharmacyProximityOrder_QuantityThenRatingBreakTies(t *testing.T) {
	groups := []entities.PharmacyGroup{
		group("small-stock", 4.9, km(2.0), entities.DrugOffer{Quantity: 5}),
		group("big-stock", 1.0, km(2.0), entities.DrugOffer{Quantity: 80}),
		group("same-stock-better-rated", 4.5, km(2.0), entities.DrugOffer{Quantity: 5}),
	}

	PharmacyProximityOrder(groups)

	assert.Equal(t, []string{"big-stock", "same-stock-better-rated", "small-stock"}, ids(groups))
}

func TestOrderings_StableAndDeterministic(t *testing.T) {
	build := func() []entities.PharmacyGroup {
		return []entities.PharmacyGroup{
			group("a", 3.0, km(1.0), entities.DrugOffer{Quantity: 30, Price: 200}),
			group("b", 3.0, km(1.0), entities.DrugOffer{Quantity: 30, Price: 200}),
			group("c", 3.0, km(1.0), entities.DrugOffer{Quantity: 30, Price: 200}),
		}
	}

	for _, policy := range []func([]entities.PharmacyGroup){DrugSearchOrder, PharmacyProximityOrder} {
		first := build()
		policy(first)

		// All keys tie: insertion order must survive, run after run.
		require.Equal(t, []string{"a", "b", "c"}, ids(first))

		second := build()
		policy(second)
		assert.Equal(t, ids(first), ids(second))
	}
}
