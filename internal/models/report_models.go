package models

// PopularItem is a menu item ranked by how many order lines reference it.
type PopularItem struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Image  *string `json:"image,omitempty"`
	Orders int64   `json:"orders"`
}

// DashboardStats holds key metrics for the admin dashboard.
type DashboardStats struct {
	TotalOrders  int64         `json:"totalOrders"`
	TotalRevenue float64       `json:"totalRevenue"` // non-cancelled orders only
	ActiveUsers  int64         `json:"activeUsers"`  // distinct users ordering in the trailing window
	MenuItems    int64         `json:"menuItems"`
	RecentOrders []Order       `json:"recentOrders"`
	PopularItems []PopularItem `json:"popularItems"`
}
