package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"restaurant_backend/internal/models"
)

// ReservationRepository defines the interface for reservation-related database operations.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, executor SQLExecutor, reservation *models.Reservation) error
	GetReservationByID(ctx context.Context, id int64) (*models.Reservation, error) // joins user and table
	GetReservations(ctx context.Context, filters models.ReservationFilters) ([]models.Reservation, error)
	UpdateReservation(ctx context.Context, executor SQLExecutor, reservation *models.Reservation) error
	DeleteReservation(ctx context.Context, executor SQLExecutor, id int64) error
	// SlotTaken is true when a pending or confirmed reservation already holds (table, date, time).
	SlotTaken(ctx context.Context, executor SQLExecutor, tableID int64, date, time string, excludeID *int64) (bool, error)
}

type reservationRepository struct {
	db *sql.DB
}

// NewReservationRepository creates a new instance of ReservationRepository.
func NewReservationRepository(db *sql.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationSelect = `
	SELECT r.id, r.user_id, r.table_id, r.date, r.time, r.guests, r.status, r.created_at, r.updated_at,
	       u.id, u.name, u.email,
	       t.id, t.number, t.capacity
	FROM reservations r
	JOIN users u ON u.id = r.user_id
	JOIN dining_tables t ON t.id = r.table_id`

func scanReservation(row scanner) (*models.Reservation, error) {
	var res models.Reservation
	var user models.UserSummary
	var table models.TableSummary
	err := row.Scan(
		&res.ID, &res.UserID, &res.TableID, &res.Date, &res.Time, &res.Guests, &res.Status, &res.CreatedAt, &res.UpdatedAt,
		&user.ID, &user.Name, &user.Email,
		&table.ID, &table.Number, &table.Capacity,
	)
	if err != nil {
		return nil, err
	}
	res.User = &user
	res.Table = &table
	return &res, nil
}

// CreateReservation inserts the reservation. A concurrent booking of the same active slot yields ErrDuplicateKey.
func (r *reservationRepository) CreateReservation(ctx context.Context, executor SQLExecutor, reservation *models.Reservation) error {
	query := `INSERT INTO reservations (user_id, table_id, date, time, guests, status)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`
	err := pick(r.db, executor).QueryRowContext(ctx, query,
		reservation.UserID, reservation.TableID, reservation.Date, reservation.Time, reservation.Guests, reservation.Status,
	).Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt)
	return mapWriteError(err, "creating reservation")
}

func (r *reservationRepository) GetReservationByID(ctx context.Context, id int64) (*models.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx, reservationSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("getting reservation %d", id))
	}
	return res, nil
}

// GetReservations lists reservations ordered by date and time.
func (r *reservationRepository) GetReservations(ctx context.Context, filters models.ReservationFilters) ([]models.Reservation, error) {
	var conditions []string
	var args []interface{}
	if filters.UserID != nil {
		args = append(args, *filters.UserID)
		conditions = append(conditions, fmt.Sprintf("r.user_id = $%d", len(args)))
	}
	if filters.Date != nil {
		args = append(args, *filters.Date)
		conditions = append(conditions, fmt.Sprintf("r.date = $%d", len(args)))
	}

	query := reservationSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY r.date ASC, r.time ASC, r.id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing reservations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	reservations := []models.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning reservation: %v", ErrDatabaseError, err)
		}
		reservations = append(reservations, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating reservations: %v", ErrDatabaseError, err)
	}
	return reservations, nil
}

func (r *reservationRepository) UpdateReservation(ctx context.Context, executor SQLExecutor, reservation *models.Reservation) error {
	query := `UPDATE reservations SET date = $1, time = $2, guests = $3, status = $4, updated_at = NOW()
	          WHERE id = $5
	          RETURNING updated_at`
	err := pick(r.db, executor).QueryRowContext(ctx, query,
		reservation.Date, reservation.Time, reservation.Guests, reservation.Status, reservation.ID,
	).Scan(&reservation.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return mapWriteError(err, fmt.Sprintf("updating reservation %d", reservation.ID))
}

func (r *reservationRepository) DeleteReservation(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := pick(r.db, executor).ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting reservation %d", id))
	}
	return requireAffected(res, "deleting reservation")
}

func (r *reservationRepository) SlotTaken(ctx context.Context, executor SQLExecutor, tableID int64, date, time string, excludeID *int64) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM reservations
	            WHERE table_id = $1 AND date = $2 AND time = $3
	              AND status IN ('pending', 'confirmed')
	              AND ($4::BIGINT IS NULL OR id <> $4))`
	var taken bool
	if err := pick(r.db, executor).QueryRowContext(ctx, query, tableID, date, time, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("%w: checking reservation slot: %v", ErrDatabaseError, err)
	}
	return taken, nil
}
