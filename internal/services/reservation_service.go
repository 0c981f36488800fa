package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_backend/internal/access"
	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
	"restaurant_backend/pkg/utils"
)

// ReservationMetrics records reservation activity.
type ReservationMetrics interface {
	ObserveReservation(status models.ReservationStatus)
}

// --- Reservation DTOs ---
type CreateReservationRequest struct {
	TableID int64  `json:"tableId" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Time    string `json:"time" binding:"required"`
	Guests  int    `json:"guests" binding:"required"`
}

type UpdateReservationRequest struct {
	Date   *string `json:"date"`
	Time   *string `json:"time"`
	Guests *int    `json:"guests"`
}

type UpdateReservationStatusRequest struct {
	Status models.ReservationStatus `json:"status" binding:"required"`
}

// --- ReservationService Interface ---
type ReservationService interface {
	CreateReservation(ctx context.Context, actor Actor, req CreateReservationRequest) (*models.Reservation, error)
	ListReservations(ctx context.Context, actor Actor, filters models.ReservationFilters) ([]models.Reservation, error)
	GetReservation(ctx context.Context, actor Actor, id int64) (*models.Reservation, error)
	UpdateReservation(ctx context.Context, actor Actor, id int64, req UpdateReservationRequest) (*models.Reservation, error)
	UpdateReservationStatus(ctx context.Context, actor Actor, id int64, status models.ReservationStatus) (*models.Reservation, error)
	DeleteReservation(ctx context.Context, actor Actor, id int64) error
}

type reservationService struct {
	reservations repositories.ReservationRepository
	tables       repositories.TableRepository
	availability TableAvailability
	tx           repositories.TxManager
	metrics      ReservationMetrics
}

// NewReservationService creates a new instance of ReservationService. metrics may be nil.
func NewReservationService(
	reservations repositories.ReservationRepository,
	tables repositories.TableRepository,
	availability TableAvailability,
	tx repositories.TxManager,
	metrics ReservationMetrics,
) ReservationService {
	if metrics == nil {
		metrics = noopReservationMetrics{}
	}
	return &reservationService{
		reservations: reservations,
		tables:       tables,
		availability: availability,
		tx:           tx,
		metrics:      metrics,
	}
}

// parseSlot normalizes and validates a reservation date (YYYY-MM-DD) and time (HH:MM).
func parseSlot(date, clock string) (string, string, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if _, err := time.Parse(models.ReservationDateLayout, date); err != nil {
		return "", "", validationErrorf("date must be in YYYY-MM-DD format")
	}
	t, err := time.Parse(models.ReservationTimeLayout, clock)
	if err != nil {
		return "", "", validationErrorf("time must be in HH:MM format")
	}
	return date, t.Format(models.ReservationTimeLayout), nil
}

func (s *reservationService) CreateReservation(ctx context.Context, actor Actor, req CreateReservationRequest) (*models.Reservation, error) {
	date, clock, err := parseSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if req.Guests < 1 {
		return nil, validationErrorf("guests must be at least 1")
	}

	reservation := &models.Reservation{
		UserID:  actor.UserID,
		TableID: req.TableID,
		Date:    date,
		Time:    clock,
		Guests:  req.Guests,
		Status:  models.ReservationStatusPending,
	}

	err = s.tx.WithinTx(ctx, func(tx repositories.SQLExecutor) error {
		table, err := s.tables.GetTableByID(ctx, tx, req.TableID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrTableNotFound
			}
			return err
		}
		if req.Guests > table.Capacity {
			return validationErrorf("table %s seats at most %d guests", table.Number, table.Capacity)
		}

		taken, err := s.reservations.SlotTaken(ctx, tx, req.TableID, date, clock, nil)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotConflict
		}

		if err := s.reservations.CreateReservation(ctx, tx, reservation); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return ErrSlotConflict
			}
			return err
		}
		reservation.Table = &models.TableSummary{ID: table.ID, Number: table.Number, Capacity: table.Capacity}

		return s.availability.Hold(ctx, tx, req.TableID)
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("creating reservation: %w", err)
	}

	utils.LogInfo("Reservation created", map[string]interface{}{
		"reservation_id": reservation.ID, "table_id": reservation.TableID, "date": date, "time": clock,
	})
	s.metrics.ObserveReservation(reservation.Status)
	return reservation, nil
}

// ListReservations returns reservations ordered by date and time; customers only see their own.
func (s *reservationService) ListReservations(ctx context.Context, actor Actor, filters models.ReservationFilters) ([]models.Reservation, error) {
	if filters.Date != nil {
		if _, err := time.Parse(models.ReservationDateLayout, *filters.Date); err != nil {
			return nil, validationErrorf("date must be in YYYY-MM-DD format")
		}
	}
	if !actor.SeesAll() {
		userID := actor.UserID
		filters.UserID = &userID
	}
	reservations, err := s.reservations.GetReservations(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	return reservations, nil
}

func (s *reservationService) GetReservation(ctx context.Context, actor Actor, id int64) (*models.Reservation, error) {
	reservation, err := s.reservations.GetReservationByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("getting reservation %d: %w", id, err)
	}
	if !actor.owns(reservation.UserID) {
		return nil, ErrNotOwner
	}
	return reservation, nil
}

// loadForChange fetches a reservation the actor is about to mutate.
func (s *reservationService) loadForChange(ctx context.Context, actor Actor, id int64) (*models.Reservation, error) {
	reservation, err := s.reservations.GetReservationByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("getting reservation %d: %w", id, err)
	}
	if !actor.mayModifyReservation(reservation.UserID) {
		return nil, ErrNotOwner
	}
	return reservation, nil
}

// UpdateReservation edits the slot or party size of a live reservation, re-checking the slot against others.
func (s *reservationService) UpdateReservation(ctx context.Context, actor Actor, id int64, req UpdateReservationRequest) (*models.Reservation, error) {
	reservation, err := s.loadForChange(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status == models.ReservationStatusCancelled {
		return nil, ErrReservationCancelled
	}

	// Blank values keep the current slot.
	date, clock := reservation.Date, reservation.Time
	if req.Date != nil && !utils.IsEmpty(*req.Date) {
		date = *req.Date
	}
	if req.Time != nil && !utils.IsEmpty(*req.Time) {
		clock = *req.Time
	}
	date, clock, err = parseSlot(date, clock)
	if err != nil {
		return nil, err
	}
	if req.Guests != nil {
		if *req.Guests < 1 {
			return nil, validationErrorf("guests must be at least 1")
		}
		if reservation.Table != nil && *req.Guests > reservation.Table.Capacity {
			return nil, validationErrorf("table %s seats at most %d guests", reservation.Table.Number, reservation.Table.Capacity)
		}
		reservation.Guests = *req.Guests
	}
	slotChanged := date != reservation.Date || clock != reservation.Time
	reservation.Date, reservation.Time = date, clock

	err = s.tx.WithinTx(ctx, func(tx repositories.SQLExecutor) error {
		if slotChanged {
			taken, err := s.reservations.SlotTaken(ctx, tx, reservation.TableID, date, clock, &id)
			if err != nil {
				return err
			}
			if taken {
				return ErrSlotConflict
			}
		}
		return s.reservations.UpdateReservation(ctx, tx, reservation)
	})
	if err != nil {
		switch {
		case isDomainError(err):
			return nil, err
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, ErrSlotConflict
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("updating reservation %d: %w", id, err)
	}
	return reservation, nil
}

// UpdateReservationStatus confirms or cancels a reservation. Owners may only cancel their own;
// confirming, or touching someone else's, needs ManageAnyReservation.
// Cancelling frees the table once nothing else holds it.
func (s *reservationService) UpdateReservationStatus(ctx context.Context, actor Actor, id int64, status models.ReservationStatus) (*models.Reservation, error) {
	reservation, err := s.loadForChange(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !status.IsValid() || !reservation.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reservation.Status, status)
	}
	if status != models.ReservationStatusCancelled && !access.Can(actor.Role, access.ManageAnyReservation) {
		return nil, ErrNotOwner
	}

	reservation.Status = status
	err = s.tx.WithinTx(ctx, func(tx repositories.SQLExecutor) error {
		if err := s.reservations.UpdateReservation(ctx, tx, reservation); err != nil {
			return err
		}
		if status != models.ReservationStatusCancelled {
			return nil
		}
		_, err := s.availability.ReleaseIfIdle(ctx, tx, reservation.TableID)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("updating reservation %d status: %w", id, err)
	}

	utils.LogInfo("Reservation status updated", map[string]interface{}{"reservation_id": id, "status": status})
	s.metrics.ObserveReservation(status)
	return reservation, nil
}

// DeleteReservation removes the reservation and frees its table when nothing else holds it.
func (s *reservationService) DeleteReservation(ctx context.Context, actor Actor, id int64) error {
	reservation, err := s.loadForChange(ctx, actor, id)
	if err != nil {
		return err
	}

	err = s.tx.WithinTx(ctx, func(tx repositories.SQLExecutor) error {
		if err := s.reservations.DeleteReservation(ctx, tx, id); err != nil {
			return err
		}
		_, err := s.availability.ReleaseIfIdle(ctx, tx, reservation.TableID)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReservationNotFound
		}
		return fmt.Errorf("deleting reservation %d: %w", id, err)
	}
	utils.LogInfo("Reservation deleted", map[string]interface{}{"reservation_id": id, "table_id": reservation.TableID})
	return nil
}

type noopReservationMetrics struct{}

func (noopReservationMetrics) ObserveReservation(models.ReservationStatus) {}
