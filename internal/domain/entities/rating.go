package entities

import "time"

// Rating is a client's review of a pharmacy. The rolling average is denormalized
// onto Pharmacy.Rating, which ranking policies consume.
type Rating struct {
	ID         string    `json:"id" db:"id"`
	PharmacyID string    `json:"pharmacy_id" db:"pharmacy_id"`
	ClientID   string    `json:"client_id" db:"client_id"`
	Score      int       `json:"score" db:"score"`
	Comment    string    `json:"comment,omitempty" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
