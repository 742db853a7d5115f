package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStockStatus_Thresholds(t *testing.T) {
	assert.Equal(t, StockStatusOutOfStock, (&DrugOffer{Quantity: 0}).StockStatus())
	assert.Equal(t, StockStatusLowStock, (&DrugOffer{Quantity: 1}).StockStatus())
	assert.Equal(t, StockStatusLowStock, (&DrugOffer{Quantity: 19}).StockStatus())
	assert.Equal(t, StockStatusInStock, (&DrugOffer{Quantity: 20}).StockStatus())
	assert.Equal(t, StockStatusInStock, (&DrugOffer{Quantity: 500}).StockStatus())
}

func TestStockLabel(t *testing.T) {
	assert.Equal(t, "Out of Stock", (&DrugOffer{Quantity: 0}).StockLabel())
	assert.Equal(t, "Low Stock (5 left)", (&DrugOffer{Quantity: 5}).StockLabel())
	assert.Equal(t, "In Stock", (&DrugOffer{Quantity: 40}).StockLabel())
}

func TestStockStatus_Rank(t *testing.T) {
	assert.Less(t, StockStatusInStock.Rank(), StockStatusLowStock.Rank())
	assert.Less(t, StockStatusLowStock.Rank(), StockStatusOutOfStock.Rank())
}

func TestExpiringSoon(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	in10 := now.AddDate(0, 0, 10)
	in45 := now.AddDate(0, 0, 45)
	past := now.AddDate(0, 0, -1)

	assert.True(t, (&DrugOffer{ExpiryDate: &in10}).ExpiringSoon(now))
	assert.False(t, (&DrugOffer{ExpiryDate: &in45}).ExpiringSoon(now))
	assert.False(t, (&DrugOffer{ExpiryDate: &past}).ExpiringSoon(now), "already expired is not expiring soon")
	assert.False(t, (&DrugOffer{}).ExpiringSoon(now))
}

func TestPharmacyGroup_Derivations(t *testing.T) {
	g := &PharmacyGroup{
		Pharmacy: &Pharmacy{ID: "p1", Rating: 4.2},
		Offers: []DrugOffer{
			{Price: 300, Quantity: 0},
			{Price: 150, Quantity: 8},
		},
	}

	assert.Equal(t, StockStatusLowStock.Rank(), g.BestStockRank())
	assert.Equal(t, 150.0, g.MinPrice())
	assert.Equal(t, 8, g.TotalQuantity())
	assert.Equal(t, 4.2, g.Rating())
}
