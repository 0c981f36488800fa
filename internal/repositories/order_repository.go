package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_backend/internal/models"

	"github.com/lib/pq"
)

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	// Order methods
	CreateOrder(ctx context.Context, executor SQLExecutor, order *models.Order) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error) // joins user, table and lines
	GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error)
	LockOrder(ctx context.Context, executor SQLExecutor, id int64) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, executor SQLExecutor, id int64, status models.OrderStatus) (time.Time, error)

	// OrderItem methods
	CreateOrderItem(ctx context.Context, executor SQLExecutor, item *models.OrderItem) error
	GetOrderItemsByOrderIDs(ctx context.Context, ids []int64) (map[int64][]models.OrderItem, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderSelect = `
	SELECT o.id, o.user_id, o.total_amount, o.order_type, o.table_id, o.status, o.created_at, o.updated_at,
	       u.id, u.name, u.email,
	       t.id, t.number, t.capacity
	FROM orders o
	JOIN users u ON u.id = o.user_id
	LEFT JOIN dining_tables t ON t.id = o.table_id`

func scanOrder(row scanner) (*models.Order, error) {
	var o models.Order
	var user models.UserSummary
	var tableID sql.NullInt64
	var joinedTableID sql.NullInt64
	var tableNumber sql.NullString
	var tableCapacity sql.NullInt64

	err := row.Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.OrderType, &tableID, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		&user.ID, &user.Name, &user.Email,
		&joinedTableID, &tableNumber, &tableCapacity,
	)
	if err != nil {
		return nil, err
	}

	o.User = &user
	if tableID.Valid {
		o.TableID = &tableID.Int64
	}
	if joinedTableID.Valid {
		o.Table = &models.TableSummary{ID: joinedTableID.Int64, Number: tableNumber.String, Capacity: int(tableCapacity.Int64)}
	}
	o.Items = []models.OrderItem{}
	return &o, nil
}

// --- Order Methods ---

func (r *orderRepository) CreateOrder(ctx context.Context, executor SQLExecutor, order *models.Order) error {
	query := `INSERT INTO orders (user_id, total_amount, order_type, table_id, status)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at, updated_at`
	err := pick(r.db, executor).QueryRowContext(ctx, query,
		order.UserID, order.TotalAmount, order.OrderType, order.TableID, order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	return mapWriteError(err, "creating order")
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("getting order %d", id))
	}

	items, err := r.GetOrderItemsByOrderIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if lines, ok := items[id]; ok {
		order.Items = lines
	}
	return order, nil
}

// GetOrders lists orders newest first, with their lines attached.
func (r *orderRepository) GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error) {
	var conditions []string
	var args []interface{}
	if filters.UserID != nil {
		args = append(args, *filters.UserID)
		conditions = append(conditions, fmt.Sprintf("o.user_id = $%d", len(args)))
	}
	if filters.Status != nil {
		args = append(args, *filters.Status)
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", len(args)))
	}

	query := orderSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY o.created_at DESC, o.id DESC"
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	ids := []int64{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating orders: %v", ErrDatabaseError, err)
	}

	items, err := r.GetOrderItemsByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if lines, ok := items[orders[i].ID]; ok {
			orders[i].Items = lines
		}
	}
	return orders, nil
}

// LockOrder reads the order row with FOR UPDATE so concurrent status changes serialize.
// Only the order's own columns are populated.
func (r *orderRepository) LockOrder(ctx context.Context, executor SQLExecutor, id int64) (*models.Order, error) {
	query := `SELECT id, user_id, total_amount, order_type, table_id, status, created_at, updated_at
	          FROM orders WHERE id = $1 FOR UPDATE`
	var o models.Order
	var tableID sql.NullInt64
	err := pick(r.db, executor).QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.OrderType, &tableID, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("locking order %d", id))
	}
	if tableID.Valid {
		o.TableID = &tableID.Int64
	}
	return &o, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, executor SQLExecutor, id int64, status models.OrderStatus) (time.Time, error) {
	var updatedAt time.Time
	err := pick(r.db, executor).QueryRowContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`, status, id,
	).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, mapWriteError(err, fmt.Sprintf("updating status of order %d", id))
	}
	return updatedAt, nil
}

// --- OrderItem Methods ---

func (r *orderRepository) CreateOrderItem(ctx context.Context, executor SQLExecutor, item *models.OrderItem) error {
	query := `INSERT INTO order_items (order_id, menu_item_id, quantity, special_instructions, price_at_order)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := pick(r.db, executor).QueryRowContext(ctx, query,
		item.OrderID, item.MenuItemID, item.Quantity, item.SpecialInstructions, item.PriceAtOrder,
	).Scan(&item.ID)
	return mapWriteError(err, fmt.Sprintf("creating line for order %d", item.OrderID))
}

// GetOrderItemsByOrderIDs loads the lines of several orders in one query, keyed by order id.
func (r *orderRepository) GetOrderItemsByOrderIDs(ctx context.Context, ids []int64) (map[int64][]models.OrderItem, error) {
	result := make(map[int64][]models.OrderItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.special_instructions, oi.price_at_order,
	                 mi.name, mi.price, mi.image
	          FROM order_items oi
	          JOIN menu_items mi ON mi.id = oi.menu_item_id
	          WHERE oi.order_id = ANY($1)
	          ORDER BY oi.order_id, oi.id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("%w: loading order lines: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		var summary models.MenuItemSummary
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.SpecialInstructions, &item.PriceAtOrder,
			&summary.Name, &summary.Price, &summary.Image,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning order line: %v", ErrDatabaseError, err)
		}
		summary.ID = item.MenuItemID
		item.MenuItem = &summary
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order lines: %v", ErrDatabaseError, err)
	}
	return result, nil
}
