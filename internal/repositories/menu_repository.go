package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"restaurant_backend/internal/models"

	"github.com/lib/pq"
)

// MenuRepository defines the interface for category and menu item database operations.
type MenuRepository interface {
	// Category methods
	CreateCategory(ctx context.Context, executor SQLExecutor, category *models.Category) error
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, executor SQLExecutor, category *models.Category) error
	DeleteCategory(ctx context.Context, executor SQLExecutor, id int64) error

	// MenuItem methods
	CreateItem(ctx context.Context, executor SQLExecutor, item *models.MenuItem) error
	GetItemByID(ctx context.Context, id int64) (*models.MenuItem, error) // joins category
	GetItems(ctx context.Context, filters models.MenuItemFilters) ([]models.MenuItem, error)
	GetItemsByIDs(ctx context.Context, executor SQLExecutor, ids []int64) (map[int64]models.MenuItem, error)
	UpdateItem(ctx context.Context, executor SQLExecutor, item *models.MenuItem) error
	DeleteItem(ctx context.Context, executor SQLExecutor, id int64) error
}

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository creates a new instance of MenuRepository.
func NewMenuRepository(db *sql.DB) MenuRepository {
	return &menuRepository{db: db}
}

// --- Category Methods ---

func (r *menuRepository) CreateCategory(ctx context.Context, executor SQLExecutor, category *models.Category) error {
	query := `INSERT INTO categories (name, description)
	          VALUES ($1, $2)
	          RETURNING id, created_at, updated_at`
	err := pick(r.db, executor).QueryRowContext(ctx, query, category.Name, category.Description).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	return mapWriteError(err, fmt.Sprintf("creating category '%s'", category.Name))
}

func (r *menuRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	query := `SELECT id, name, description, created_at, updated_at FROM categories WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("getting category %d", id))
	}
	return &c, nil
}

func (r *menuRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing categories: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning category: %v", ErrDatabaseError, err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating categories: %v", ErrDatabaseError, err)
	}
	return categories, nil
}

func (r *menuRepository) UpdateCategory(ctx context.Context, executor SQLExecutor, category *models.Category) error {
	query := `UPDATE categories SET name = $1, description = $2, updated_at = NOW()
	          WHERE id = $3
	          RETURNING updated_at`
	err := pick(r.db, executor).QueryRowContext(ctx, query, category.Name, category.Description, category.ID).
		Scan(&category.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return mapWriteError(err, fmt.Sprintf("updating category %d", category.ID))
}

// DeleteCategory fails with ErrForeignKey while menu items still reference the category.
func (r *menuRepository) DeleteCategory(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := pick(r.db, executor).ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting category %d", id))
	}
	return requireAffected(res, "deleting category")
}

// --- MenuItem Methods ---

const menuItemSelect = `
	SELECT mi.id, mi.name, mi.description, mi.price, mi.category_id, mi.is_available, mi.image,
	       mi.created_at, mi.updated_at,
	       c.id, c.name, c.description, c.created_at, c.updated_at
	FROM menu_items mi
	JOIN categories c ON c.id = mi.category_id`

func scanMenuItem(row scanner) (*models.MenuItem, error) {
	var item models.MenuItem
	var cat models.Category
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Price, &item.CategoryID, &item.IsAvailable, &item.Image,
		&item.CreatedAt, &item.UpdatedAt,
		&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt, &cat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Category = &cat
	return &item, nil
}

func (r *menuRepository) CreateItem(ctx context.Context, executor SQLExecutor, item *models.MenuItem) error {
	query := `INSERT INTO menu_items (name, description, price, category_id, is_available, image)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`
	err := pick(r.db, executor).QueryRowContext(ctx, query,
		item.Name, item.Description, item.Price, item.CategoryID, item.IsAvailable, item.Image,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	return mapWriteError(err, fmt.Sprintf("creating menu item '%s'", item.Name))
}

func (r *menuRepository) GetItemByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	item, err := scanMenuItem(r.db.QueryRowContext(ctx, menuItemSelect+` WHERE mi.id = $1`, id))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("getting menu item %d", id))
	}
	return item, nil
}

func (r *menuRepository) GetItems(ctx context.Context, filters models.MenuItemFilters) ([]models.MenuItem, error) {
	var conditions []string
	var args []interface{}
	if filters.CategoryID != nil {
		args = append(args, *filters.CategoryID)
		conditions = append(conditions, fmt.Sprintf("mi.category_id = $%d", len(args)))
	}

	query := menuItemSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY c.name ASC, mi.name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing menu items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning menu item: %v", ErrDatabaseError, err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating menu items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

// GetItemsByIDs loads the requested items keyed by id. Missing ids are simply absent from the map.
func (r *menuRepository) GetItemsByIDs(ctx context.Context, executor SQLExecutor, ids []int64) (map[int64]models.MenuItem, error) {
	result := make(map[int64]models.MenuItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT id, name, price, is_available FROM menu_items WHERE id = ANY($1)`
	rows, err := pick(r.db, executor).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("%w: loading menu items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.IsAvailable); err != nil {
			return nil, fmt.Errorf("%w: scanning menu item: %v", ErrDatabaseError, err)
		}
		result[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating menu items: %v", ErrDatabaseError, err)
	}
	return result, nil
}

func (r *menuRepository) UpdateItem(ctx context.Context, executor SQLExecutor, item *models.MenuItem) error {
	query := `UPDATE menu_items
	          SET name = $1, description = $2, price = $3, category_id = $4, is_available = $5, image = $6, updated_at = NOW()
	          WHERE id = $7
	          RETURNING updated_at`
	err := pick(r.db, executor).QueryRowContext(ctx, query,
		item.Name, item.Description, item.Price, item.CategoryID, item.IsAvailable, item.Image, item.ID,
	).Scan(&item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return mapWriteError(err, fmt.Sprintf("updating menu item %d", item.ID))
}

// DeleteItem fails with ErrForeignKey while order lines still reference the item.
func (r *menuRepository) DeleteItem(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := pick(r.db, executor).ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting menu item %d", id))
	}
	return requireAffected(res, "deleting menu item")
}
