package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
	"restaurant_backend/pkg/utils"
)

// TableAvailability is the only writer of a table's isAvailable flag.
type TableAvailability interface {
	// Reserve atomically flips an available table to unavailable.
	Reserve(ctx context.Context, exec repositories.SQLExecutor, tableID int64) error
	// Hold marks the table unavailable regardless of its current state.
	Hold(ctx context.Context, exec repositories.SQLExecutor, tableID int64) error
	// Release marks the table available.
	Release(ctx context.Context, exec repositories.SQLExecutor, tableID int64) error
	// ReleaseIfIdle marks the table available unless an active order or reservation still holds it.
	ReleaseIfIdle(ctx context.Context, exec repositories.SQLExecutor, tableID int64) (bool, error)
}

type tableAvailability struct {
	tables repositories.TableRepository
}

// NewTableAvailability creates the availability owner over the table store.
func NewTableAvailability(tables repositories.TableRepository) TableAvailability {
	return &tableAvailability{tables: tables}
}

func (a *tableAvailability) Reserve(ctx context.Context, exec repositories.SQLExecutor, tableID int64) error {
	claimed, err := a.tables.ClaimIfAvailable(ctx, exec, tableID)
	if err != nil {
		return fmt.Errorf("reserving table %d: %w", tableID, err)
	}
	if claimed {
		return nil
	}
	if _, err := a.tables.GetTableByID(ctx, exec, tableID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTableNotFound
		}
		return fmt.Errorf("reserving table %d: %w", tableID, err)
	}
	return ErrTableUnavailable
}

func (a *tableAvailability) Hold(ctx context.Context, exec repositories.SQLExecutor, tableID int64) error {
	return a.set(ctx, exec, tableID, false)
}

func (a *tableAvailability) Release(ctx context.Context, exec repositories.SQLExecutor, tableID int64) error {
	return a.set(ctx, exec, tableID, true)
}

func (a *tableAvailability) set(ctx context.Context, exec repositories.SQLExecutor, tableID int64, available bool) error {
	if err := a.tables.SetAvailability(ctx, exec, tableID, available); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTableNotFound
		}
		return fmt.Errorf("setting availability of table %d: %w", tableID, err)
	}
	return nil
}

func (a *tableAvailability) ReleaseIfIdle(ctx context.Context, exec repositories.SQLExecutor, tableID int64) (bool, error) {
	released, err := a.tables.ReleaseIfIdle(ctx, exec, tableID)
	if err != nil {
		return false, fmt.Errorf("releasing table %d: %w", tableID, err)
	}
	return released, nil
}

// --- Table DTOs ---

type CreateTableRequest struct {
	Number      string  `json:"number" binding:"required"`
	Capacity    int     `json:"capacity" binding:"required"`
	Location    *string `json:"location"`
	IsAvailable *bool   `json:"isAvailable"`
}

type UpdateTableRequest struct {
	Number      *string `json:"number"`
	Capacity    *int    `json:"capacity"`
	Location    *string `json:"location"`
	IsAvailable *bool   `json:"isAvailable"`
}

// --- TableService Interface ---
type TableService interface {
	ListTables(ctx context.Context, filters models.TableFilters) ([]models.Table, error)
	GetTable(ctx context.Context, id int64) (*models.Table, error)
	CreateTable(ctx context.Context, req CreateTableRequest) (*models.Table, error)
	UpdateTable(ctx context.Context, id int64, req UpdateTableRequest) (*models.Table, error)
	DeleteTable(ctx context.Context, id int64) error
}

type tableService struct {
	tables       repositories.TableRepository
	availability TableAvailability
	tx           repositories.TxManager
}

// NewTableService creates a new instance of TableService.
func NewTableService(tables repositories.TableRepository, availability TableAvailability, tx repositories.TxManager) TableService {
	return &tableService{tables: tables, availability: availability, tx: tx}
}

func (s *tableService) ListTables(ctx context.Context, filters models.TableFilters) ([]models.Table, error) {
	tables, err := s.tables.GetTables(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	return tables, nil
}

func (s *tableService) GetTable(ctx context.Context, id int64) (*models.Table, error) {
	table, err := s.tables.GetTableByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("getting table %d: %w", id, err)
	}
	return table, nil
}

func (s *tableService) CreateTable(ctx context.Context, req CreateTableRequest) (*models.Table, error) {
	if utils.IsEmpty(req.Number) {
		return nil, validationErrorf("table number is required")
	}
	number := strings.TrimSpace(req.Number)
	if req.Capacity < 1 {
		return nil, validationErrorf("capacity must be at least 1")
	}

	taken, err := s.tables.NumberTaken(ctx, number, nil)
	if err != nil {
		return nil, fmt.Errorf("creating table: %w", err)
	}
	if taken {
		return nil, ErrDuplicateTableNumber
	}

	table := &models.Table{
		Number:      number,
		Capacity:    req.Capacity,
		Location:    normalizeOptional(req.Location),
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
	}
	if err := s.tables.CreateTable(ctx, nil, table); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateTableNumber
		}
		return nil, fmt.Errorf("creating table: %w", err)
	}
	utils.LogInfo("Table created", map[string]interface{}{"table_id": table.ID, "number": table.Number})
	return table, nil
}

func (s *tableService) UpdateTable(ctx context.Context, id int64, req UpdateTableRequest) (*models.Table, error) {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Number != nil {
		if utils.IsEmpty(*req.Number) {
			return nil, validationErrorf("table number cannot be empty")
		}
		number := strings.TrimSpace(*req.Number)
		if number != table.Number {
			taken, err := s.tables.NumberTaken(ctx, number, &id)
			if err != nil {
				return nil, fmt.Errorf("updating table %d: %w", id, err)
			}
			if taken {
				return nil, ErrDuplicateTableNumber
			}
		}
		table.Number = number
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, validationErrorf("capacity must be at least 1")
		}
		table.Capacity = *req.Capacity
	}
	if req.Location != nil {
		table.Location = normalizeOptional(req.Location)
	}

	err = s.tx.WithinTx(ctx, func(tx repositories.SQLExecutor) error {
		if err := s.tables.UpdateTable(ctx, tx, table); err != nil {
			return err
		}
		if req.IsAvailable == nil || *req.IsAvailable == table.IsAvailable {
			return nil
		}
		var flagErr error
		if *req.IsAvailable {
			flagErr = s.availability.Release(ctx, tx, id)
		} else {
			flagErr = s.availability.Hold(ctx, tx, id)
		}
		if flagErr != nil {
			return flagErr
		}
		table.IsAvailable = *req.IsAvailable
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, ErrDuplicateTableNumber
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrTableNotFound
		case errors.Is(err, ErrNotFound):
			return nil, err
		}
		return nil, fmt.Errorf("updating table %d: %w", id, err)
	}
	return table, nil
}

// DeleteTable refuses while an order in pending..ready references the table.
func (s *tableService) DeleteTable(ctx context.Context, id int64) error {
	err := s.tx.WithinTx(ctx, func(tx repositories.SQLExecutor) error {
		active, err := s.tables.HasActiveOrders(ctx, tx, id)
		if err != nil {
			return err
		}
		if active {
			return ErrTableInUse
		}
		return s.tables.DeleteTable(ctx, tx, id)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrTableInUse):
			return err
		case errors.Is(err, repositories.ErrNotFound):
			return ErrTableNotFound
		}
		return fmt.Errorf("deleting table %d: %w", id, err)
	}
	utils.LogInfo("Table deleted", map[string]interface{}{"table_id": id})
	return nil
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	return utils.NewNullString(strings.TrimSpace(*s))
}
