package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"restaurant_backend/internal/models"
)

// ReportRepository provides the read-only aggregates behind the admin dashboard.
type ReportRepository interface {
	CountOrders(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
	CountActiveUsers(ctx context.Context, since time.Time) (int64, error)
	CountMenuItems(ctx context.Context) (int64, error)
	PopularItems(ctx context.Context, limit int) ([]models.PopularItem, error)
}

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting orders: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// TotalRevenue sums totals of every order that was not cancelled.
func (r *reportRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status <> 'cancelled'`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("%w: summing revenue: %v", ErrDatabaseError, err)
	}
	return total, nil
}

// CountActiveUsers counts distinct users with at least one order created at or after since.
func (r *reportRepository) CountActiveUsers(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT user_id) FROM orders WHERE created_at >= $1`, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: counting active users: %v", ErrDatabaseError, err)
	}
	return n, nil
}

func (r *reportRepository) CountMenuItems(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting menu items: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// PopularItems ranks menu items by the number of order lines referencing them, ties broken by id.
// Items never ordered are included with a zero count.
func (r *reportRepository) PopularItems(ctx context.Context, limit int) ([]models.PopularItem, error) {
	query := `SELECT mi.id, mi.name, mi.price, mi.image, COUNT(oi.id) AS orders
	          FROM menu_items mi
	          LEFT JOIN order_items oi ON oi.menu_item_id = mi.id
	          GROUP BY mi.id, mi.name, mi.price, mi.image
	          ORDER BY orders DESC, mi.id ASC
	          LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: ranking popular items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	items := []models.PopularItem{}
	for rows.Next() {
		var p models.PopularItem
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.Orders); err != nil {
			return nil, fmt.Errorf("%w: scanning popular item: %v", ErrDatabaseError, err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating popular items: %v", ErrDatabaseError, err)
	}
	return items, nil
}
