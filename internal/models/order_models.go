package models

import "time"

// OrderType distinguishes orders served at a table from orders taken away.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine-in"
	OrderTypeTakeaway OrderType = "takeaway"
)

// IsValid reports whether t is a known order type.
func (t OrderType) IsValid() bool {
	return t == OrderTypeDineIn || t == OrderTypeTakeaway
}

// Order is a customer's request for menu items.
// TotalAmount is computed once at creation from the PriceAtOrder snapshots and never recomputed.
type Order struct {
	ID          int64         `json:"id" db:"id"`
	UserID      int64         `json:"userId" db:"user_id"`
	Items       []OrderItem   `json:"items"`
	TotalAmount float64       `json:"totalAmount" db:"total_amount"`
	OrderType   OrderType     `json:"orderType" db:"order_type"`
	TableID     *int64        `json:"tableId,omitempty" db:"table_id"`
	Status      OrderStatus   `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`
	User        *UserSummary  `json:"user,omitempty"`
	Table       *TableSummary `json:"table,omitempty"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID                  int64            `json:"id" db:"id"`
	OrderID             int64            `json:"-" db:"order_id"`
	MenuItemID          int64            `json:"menuItemId" db:"menu_item_id"`
	Quantity            int              `json:"quantity" db:"quantity"`
	SpecialInstructions string           `json:"specialInstructions,omitempty" db:"special_instructions"`
	PriceAtOrder        float64          `json:"priceAtOrder" db:"price_at_order"`
	MenuItem            *MenuItemSummary `json:"menuItem,omitempty"`
}

// OrderFilters defines the available filters for querying orders.
// This struct is used by both the service and repository layers.
type OrderFilters struct {
	UserID *int64       `form:"-"`
	Status *OrderStatus `form:"status"`
	Limit  int          `form:"-"`
}
