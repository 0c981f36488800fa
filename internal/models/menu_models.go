package models

import "time"

// Category groups menu items
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// MenuItem is a dish or drink that can be ordered.
type MenuItem struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Price       float64   `json:"price" db:"price"`
	CategoryID  int64     `json:"categoryId" db:"category_id"`
	IsAvailable bool      `json:"isAvailable" db:"is_available"`
	Image       *string   `json:"image,omitempty" db:"image"` // relative upload path, expanded on read
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
	Category    *Category `json:"category,omitempty"`
}

// MenuItemSummary is the subset of a menu item embedded in order lines.
type MenuItemSummary struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image *string `json:"image,omitempty"`
}

// MenuItemFilters defines the filters accepted when listing menu items.
type MenuItemFilters struct {
	CategoryID *int64 `form:"category"`
}
