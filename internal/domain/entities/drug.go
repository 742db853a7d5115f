package entities

import (
	"fmt"
	"time"
)

// Policy constants shared by stock classification and expiry reporting.
// The values come from marketplace policy, not from any storage constraint.
const (
	// LowStockThreshold is the quantity below which an in-stock offer is
	// reported as low stock.
	LowStockThreshold = 20

	// ExpiringSoonDays is the window within which an offer's expiry date is
	// flagged to pharmacists.
	ExpiringSoonDays = 30
)

// StockStatus classifies an offer's remaining quantity.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "In Stock"
	StockStatusLowStock   StockStatus = "Low Stock"
	StockStatusOutOfStock StockStatus = "Out of Stock"
)

// Rank returns the sort rank of the status; better availability sorts first.
func (s StockStatus) Rank() int {
	switch s {
	case StockStatusInStock:
		return 0
	case StockStatusLowStock:
		return 1
	default:
		return 2
	}
}

// DrugOffer is one pharmacy's listing of a drug: the unit the search
// aggregates and ranks.
type DrugOffer struct {
	ID                   string     `json:"id" db:"id"`
	PharmacyID           string     `json:"pharmacy_id" db:"pharmacy_id"`
	Name                 string     `json:"name" db:"name"`
	GenericName          string     `json:"generic_name" db:"generic_name"`
	Category             string     `json:"category" db:"category"`
	DosageForm           string     `json:"dosage_form,omitempty" db:"dosage_form"`
	Strength             string     `json:"strength,omitempty" db:"strength"`
	Price                float64    `json:"price" db:"price"`
	Quantity             int        `json:"quantity" db:"quantity"`
	ExpiryDate           *time.Time `json:"expiry_date,omitempty" db:"expiry_date"`
	RequiresPrescription bool       `json:"requires_prescription" db:"requires_prescription"`
}

// StockStatus derives the availability classification from the quantity.
func (o *DrugOffer) StockStatus() StockStatus {
	switch {
	case o.Quantity == 0:
		return StockStatusOutOfStock
	case o.Quantity < LowStockThreshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// StockLabel returns the client-facing availability string.
func (o *DrugOffer) StockLabel() string {
	if o.StockStatus() == StockStatusLowStock {
		return fmt.Sprintf("Low Stock (%d left)", o.Quantity)
	}
	return string(o.StockStatus())
}

// ExpiringSoon reports whether the offer expires within ExpiringSoonDays of
// now. Offers without an expiry date never expire soon.
func (o *DrugOffer) ExpiringSoon(now time.Time) bool {
	if o.ExpiryDate == nil {
		return false
	}
	days := o.ExpiryDate.Sub(now).Hours() / 24
	return days >= 0 && days <= ExpiringSoonDays
}
