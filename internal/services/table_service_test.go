package services

import (
	"context"
	"testing"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTableFixture() (*mockTableRepo, TableService) {
	tables := new(mockTableRepo)
	return tables, NewTableService(tables, NewTableAvailability(tables), &fakeTx{})
}

func TestCreateTable(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate number", func(t *testing.T) {
		tables, svc := newTableFixture()
		tables.On("NumberTaken", ctx, "T1", (*int64)(nil)).Return(true, nil).Once()

		_, err := svc.CreateTable(ctx, CreateTableRequest{Number: " T1 ", Capacity: 4})
		assert.ErrorIs(t, err, ErrDuplicateTableNumber)
		tables.AssertNotCalled(t, "CreateTable", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate number caught by index", func(t *testing.T) {
		tables, svc := newTableFixture()
		tables.On("NumberTaken", ctx, "T1", (*int64)(nil)).Return(false, nil)
		tables.On("CreateTable", ctx, mock.Anything, mock.Anything).Return(repositories.ErrDuplicateKey)

		_, err := svc.CreateTable(ctx, CreateTableRequest{Number: "T1", Capacity: 4})
		assert.ErrorIs(t, err, ErrDuplicateTableNumber)
	})

	t.Run("defaults to available", func(t *testing.T) {
		tables, svc := newTableFixture()
		location := "Terrace"
		tables.On("NumberTaken", ctx, "T2", (*int64)(nil)).Return(false, nil)
		tables.On("CreateTable", ctx, mock.Anything, mock.MatchedBy(func(tbl *models.Table) bool {
			return tbl.IsAvailable && tbl.Capacity == 6 && tbl.Location != nil && *tbl.Location == "Terrace"
		})).Return(nil).Once()

		table, err := svc.CreateTable(ctx, CreateTableRequest{Number: "T2", Capacity: 6, Location: &location})
		require.NoError(t, err)
		assert.True(t, table.IsAvailable)
		tables.AssertExpectations(t)
	})

	t.Run("invalid capacity", func(t *testing.T) {
		_, svc := newTableFixture()
		_, err := svc.CreateTable(ctx, CreateTableRequest{Number: "T3", Capacity: 0})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("blank number", func(t *testing.T) {
		tables, svc := newTableFixture()
		_, err := svc.CreateTable(ctx, CreateTableRequest{Number: "   ", Capacity: 2})
		assert.ErrorIs(t, err, ErrValidation)
		tables.AssertNotCalled(t, "NumberTaken", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateTable(t *testing.T) {
	ctx := context.Background()

	t.Run("renaming onto another table conflicts", func(t *testing.T) {
		tables, svc := newTableFixture()
		number := "T9"
		tables.On("GetTableByID", ctx, mock.Anything, int64(1)).Return(&models.Table{ID: 1, Number: "T1", Capacity: 2}, nil)
		tables.On("NumberTaken", ctx, "T9", mock.AnythingOfType("*int64")).Return(true, nil)

		_, err := svc.UpdateTable(ctx, 1, UpdateTableRequest{Number: &number})
		assert.ErrorIs(t, err, ErrDuplicateTableNumber)
	})

	t.Run("availability goes through the owner", func(t *testing.T) {
		tables, svc := newTableFixture()
		available := false
		tables.On("GetTableByID", ctx, mock.Anything, int64(1)).
			Return(&models.Table{ID: 1, Number: "T1", Capacity: 2, IsAvailable: true}, nil)
		tables.On("UpdateTable", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		tables.On("SetAvailability", ctx, mock.Anything, int64(1), false).Return(nil).Once()

		table, err := svc.UpdateTable(ctx, 1, UpdateTableRequest{IsAvailable: &available})
		require.NoError(t, err)
		assert.False(t, table.IsAvailable)
		tables.AssertExpectations(t)
	})

	t.Run("unknown table", func(t *testing.T) {
		tables, svc := newTableFixture()
		tables.On("GetTableByID", ctx, mock.Anything, int64(8)).Return(nil, repositories.ErrNotFound)
		_, err := svc.UpdateTable(ctx, 8, UpdateTableRequest{})
		assert.ErrorIs(t, err, ErrTableNotFound)
	})

	t.Run("blank number", func(t *testing.T) {
		tables, svc := newTableFixture()
		number := " "
		tables.On("GetTableByID", ctx, mock.Anything, int64(1)).Return(&models.Table{ID: 1, Number: "T1", Capacity: 2}, nil)

		_, err := svc.UpdateTable(ctx, 1, UpdateTableRequest{Number: &number})
		assert.ErrorIs(t, err, ErrValidation)
		tables.AssertNotCalled(t, "UpdateTable", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteTable(t *testing.T) {
	ctx := context.Background()

	t.Run("active order blocks deletion", func(t *testing.T) {
		tables, svc := newTableFixture()
		tables.On("HasActiveOrders", ctx, mock.Anything, int64(1)).Return(true, nil).Once()

		err := svc.DeleteTable(ctx, 1)
		assert.ErrorIs(t, err, ErrTableInUse)
		tables.AssertNotCalled(t, "DeleteTable", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("idle table is removed", func(t *testing.T) {
		tables, svc := newTableFixture()
		tables.On("HasActiveOrders", ctx, mock.Anything, int64(1)).Return(false, nil)
		tables.On("DeleteTable", ctx, mock.Anything, int64(1)).Return(nil).Once()

		require.NoError(t, svc.DeleteTable(ctx, 1))
		tables.AssertExpectations(t)
	})

	t.Run("missing table", func(t *testing.T) {
		tables, svc := newTableFixture()
		tables.On("HasActiveOrders", ctx, mock.Anything, int64(2)).Return(false, nil)
		tables.On("DeleteTable", ctx, mock.Anything, int64(2)).Return(repositories.ErrNotFound)

		assert.ErrorIs(t, svc.DeleteTable(ctx, 2), ErrTableNotFound)
	})
}

func TestTableAvailability_Reserve(t *testing.T) {
	ctx := context.Background()

	tables := new(mockTableRepo)
	availability := NewTableAvailability(tables)
	tables.On("ClaimIfAvailable", ctx, mock.Anything, int64(1)).Return(true, nil).Once()
	tables.On("ClaimIfAvailable", ctx, mock.Anything, int64(1)).Return(false, nil).Once()
	tables.On("GetTableByID", ctx, mock.Anything, int64(1)).Return(&models.Table{ID: 1}, nil).Once()

	require.NoError(t, availability.Reserve(ctx, nil, 1))
	assert.ErrorIs(t, availability.Reserve(ctx, nil, 1), ErrTableUnavailable)
}
