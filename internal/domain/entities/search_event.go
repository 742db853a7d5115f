package entities

import "time"

// SearchEvent is one logged drug search, persisted for analytics.
type SearchEvent struct {
	ID          string    `json:"id" db:"id"`
	Term        string    `json:"term" db:"term"`
	Latitude    *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64  `json:"longitude,omitempty" db:"longitude"`
	RadiusKm    float64   `json:"radius_km" db:"radius_km"`
	ResultCount int       `json:"result_count" db:"result_count"`
	LatencyMs   int64     `json:"latency_ms" db:"latency_ms"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
