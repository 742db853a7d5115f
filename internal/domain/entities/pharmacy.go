package entities

import (
	"time"

	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

// Pharmacy represents a registered pharmacy in the marketplace.
type Pharmacy struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Address     Address    `json:"address" db:"-"`
	Location    *geo.Point `json:"location,omitempty" db:"-"`
	PhoneNumber string     `json:"phone_number" db:"phone_number"`
	Email       string     `json:"email" db:"email"`
	Rating      float64    `json:"rating" db:"rating"`
	ReviewCount int        `json:"review_count" db:"review_count"`
	Status      string     `json:"status" db:"status"`
	IsVerified  bool       `json:"is_verified" db:"is_verified"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Address represents a physical address
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	Region  string `json:"region" db:"region"`
	Country string `json:"country" db:"country"`
}

// StatusApproved is the only pharmacy status visible to client searches.
const StatusApproved = "approved"

// HasLocation reports whether the pharmacy has been geocoded. Pharmacies
// without a location cannot take part in distance filtering or ranking.
func (p *Pharmacy) HasLocation() bool {
	return p.Location != nil
}
