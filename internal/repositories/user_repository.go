package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_backend/internal/models"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, executor SQLExecutor, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, executor SQLExecutor, user *models.User) error
	DeleteUser(ctx context.Context, executor SQLExecutor, id int64) error
	TouchLastOrder(ctx context.Context, executor SQLExecutor, id int64, at time.Time) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, last_order_at, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	var lastOrderAt sql.NullTime
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &lastOrderAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if lastOrderAt.Valid {
		u.LastOrderAt = &lastOrderAt.Time
	}
	return &u, nil
}

// CreateUser inserts a new user and fills its generated fields.
func (r *userRepository) CreateUser(ctx context.Context, executor SQLExecutor, user *models.User) error {
	query := `INSERT INTO users (name, email, password_hash, role)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`

	err := pick(r.db, executor).QueryRowContext(ctx, query, user.Name, user.Email, user.PasswordHash, user.Role).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return mapWriteError(err, "creating user")
}

// GetUserByID retrieves a user by their ID.
func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("getting user %d", id))
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, compared case-insensitively.
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		return nil, mapReadError(err, "getting user by email")
	}
	return u, nil
}

// ListUsers returns every user, newest first.
func (r *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing users: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating users: %v", ErrDatabaseError, err)
	}
	return users, nil
}

// UpdateUser persists name, email, password hash and role.
func (r *userRepository) UpdateUser(ctx context.Context, executor SQLExecutor, user *models.User) error {
	query := `UPDATE users SET name = $1, email = $2, password_hash = $3, role = $4, updated_at = NOW()
	          WHERE id = $5
	          RETURNING updated_at`

	err := pick(r.db, executor).QueryRowContext(ctx, query, user.Name, user.Email, user.PasswordHash, user.Role, user.ID).
		Scan(&user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return mapWriteError(err, fmt.Sprintf("updating user %d", user.ID))
}

// DeleteUser removes a user. Users still referenced by orders yield ErrForeignKey.
func (r *userRepository) DeleteUser(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := pick(r.db, executor).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting user %d", id))
	}
	return requireAffected(res, "deleting user")
}

// TouchLastOrder stamps the moment the user last placed an order.
func (r *userRepository) TouchLastOrder(ctx context.Context, executor SQLExecutor, id int64, at time.Time) error {
	res, err := pick(r.db, executor).ExecContext(ctx, `UPDATE users SET last_order_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return mapWriteError(err, "stamping last order")
	}
	return requireAffected(res, "stamping last order")
}
