package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"restaurant_backend/internal/models"
)

// TableRepository defines the interface for dining table database operations.
// The availability writes are meant to be driven by a single owner in the service layer.
type TableRepository interface {
	CreateTable(ctx context.Context, executor SQLExecutor, table *models.Table) error
	GetTableByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Table, error)
	GetTables(ctx context.Context, filters models.TableFilters) ([]models.Table, error)
	UpdateTable(ctx context.Context, executor SQLExecutor, table *models.Table) error
	DeleteTable(ctx context.Context, executor SQLExecutor, id int64) error
	NumberTaken(ctx context.Context, number string, excludeID *int64) (bool, error)
	HasActiveOrders(ctx context.Context, executor SQLExecutor, id int64) (bool, error)

	// ClaimIfAvailable flips is_available from true to false; false means the table was not available (or does not exist).
	ClaimIfAvailable(ctx context.Context, executor SQLExecutor, id int64) (bool, error)
	SetAvailability(ctx context.Context, executor SQLExecutor, id int64, available bool) error
	// ReleaseIfIdle sets is_available only when no active order or reservation holds the table.
	ReleaseIfIdle(ctx context.Context, executor SQLExecutor, id int64) (bool, error)
}

type tableRepository struct {
	db *sql.DB
}

// NewTableRepository creates a new instance of TableRepository.
func NewTableRepository(db *sql.DB) TableRepository {
	return &tableRepository{db: db}
}

const tableColumns = `id, number, capacity, is_available, location, created_at, updated_at`

func scanTable(row scanner) (*models.Table, error) {
	var t models.Table
	if err := row.Scan(&t.ID, &t.Number, &t.Capacity, &t.IsAvailable, &t.Location, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tableRepository) CreateTable(ctx context.Context, executor SQLExecutor, table *models.Table) error {
	query := `INSERT INTO dining_tables (number, capacity, is_available, location)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`
	err := pick(r.db, executor).QueryRowContext(ctx, query, table.Number, table.Capacity, table.IsAvailable, table.Location).
		Scan(&table.ID, &table.CreatedAt, &table.UpdatedAt)
	return mapWriteError(err, fmt.Sprintf("creating table '%s'", table.Number))
}

func (r *tableRepository) GetTableByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Table, error) {
	t, err := scanTable(pick(r.db, executor).QueryRowContext(ctx, `SELECT `+tableColumns+` FROM dining_tables WHERE id = $1`, id))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("getting table %d", id))
	}
	return t, nil
}

func (r *tableRepository) GetTables(ctx context.Context, filters models.TableFilters) ([]models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM dining_tables`
	var args []interface{}
	if filters.Available != nil {
		args = append(args, *filters.Available)
		query += ` WHERE is_available = $1`
	}
	query += ` ORDER BY number ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing tables: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	tables := []models.Table{}
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning table: %v", ErrDatabaseError, err)
		}
		tables = append(tables, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating tables: %v", ErrDatabaseError, err)
	}
	return tables, nil
}

// UpdateTable persists number, capacity and location. Availability is written separately.
func (r *tableRepository) UpdateTable(ctx context.Context, executor SQLExecutor, table *models.Table) error {
	query := `UPDATE dining_tables SET number = $1, capacity = $2, location = $3, updated_at = NOW()
	          WHERE id = $4
	          RETURNING is_available, updated_at`
	err := pick(r.db, executor).QueryRowContext(ctx, query, table.Number, table.Capacity, table.Location, table.ID).
		Scan(&table.IsAvailable, &table.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return mapWriteError(err, fmt.Sprintf("updating table %d", table.ID))
}

// DeleteTable removes a table. Its reservations cascade and finished orders keep their history with table_id set to NULL.
func (r *tableRepository) DeleteTable(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := pick(r.db, executor).ExecContext(ctx, `DELETE FROM dining_tables WHERE id = $1`, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting table %d", id))
	}
	return requireAffected(res, "deleting table")
}

func (r *tableRepository) NumberTaken(ctx context.Context, number string, excludeID *int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM dining_tables WHERE number = $1 AND ($2::BIGINT IS NULL OR id <> $2))`
	var taken bool
	if err := r.db.QueryRowContext(ctx, query, number, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("%w: checking table number: %v", ErrDatabaseError, err)
	}
	return taken, nil
}

func (r *tableRepository) HasActiveOrders(ctx context.Context, executor SQLExecutor, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM orders WHERE table_id = $1 AND status IN ('pending', 'confirmed', 'preparing', 'ready'))`
	var active bool
	if err := pick(r.db, executor).QueryRowContext(ctx, query, id).Scan(&active); err != nil {
		return false, fmt.Errorf("%w: checking active orders for table %d: %v", ErrDatabaseError, id, err)
	}
	return active, nil
}

func (r *tableRepository) ClaimIfAvailable(ctx context.Context, executor SQLExecutor, id int64) (bool, error) {
	res, err := pick(r.db, executor).ExecContext(ctx,
		`UPDATE dining_tables SET is_available = FALSE, updated_at = NOW() WHERE id = $1 AND is_available = TRUE`, id)
	if err != nil {
		return false, mapWriteError(err, fmt.Sprintf("claiming table %d", id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: claiming table %d rows affected: %v", ErrDatabaseError, id, err)
	}
	return n == 1, nil
}

func (r *tableRepository) SetAvailability(ctx context.Context, executor SQLExecutor, id int64, available bool) error {
	res, err := pick(r.db, executor).ExecContext(ctx,
		`UPDATE dining_tables SET is_available = $1, updated_at = NOW() WHERE id = $2`, available, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("setting availability of table %d", id))
	}
	return requireAffected(res, "setting table availability")
}

func (r *tableRepository) ReleaseIfIdle(ctx context.Context, executor SQLExecutor, id int64) (bool, error) {
	query := `UPDATE dining_tables SET is_available = TRUE, updated_at = NOW()
	          WHERE id = $1
	            AND NOT EXISTS (SELECT 1 FROM orders o
	                            WHERE o.table_id = $1 AND o.status IN ('pending', 'confirmed', 'preparing', 'ready'))
	            AND NOT EXISTS (SELECT 1 FROM reservations rv
	                            WHERE rv.table_id = $1 AND rv.status IN ('pending', 'confirmed'))`
	res, err := pick(r.db, executor).ExecContext(ctx, query, id)
	if err != nil {
		return false, mapWriteError(err, fmt.Sprintf("releasing table %d", id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: releasing table %d rows affected: %v", ErrDatabaseError, id, err)
	}
	return n == 1, nil
}
