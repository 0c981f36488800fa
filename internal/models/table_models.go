package models

import "time"

// Table represents a physical dining table
type Table struct {
	ID          int64     `json:"id" db:"id"`
	Number      string    `json:"number" db:"number"`
	Capacity    int       `json:"capacity" db:"capacity"`
	IsAvailable bool      `json:"isAvailable" db:"is_available"`
	Location    *string   `json:"location,omitempty" db:"location"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// TableSummary is the subset of a table embedded in orders and reservations.
type TableSummary struct {
	ID       int64  `json:"id"`
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
}

// TableFilters defines the filters accepted when listing tables.
type TableFilters struct {
	Available *bool `form:"available"`
}
