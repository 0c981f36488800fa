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

type reservationFixture struct {
	reservations *mockReservationRepo
	tables       *mockTableRepo
	svc          ReservationService
}

func newReservationFixture() *reservationFixture {
	f := &reservationFixture{reservations: new(mockReservationRepo), tables: new(mockTableRepo)}
	f.svc = NewReservationService(f.reservations, f.tables, NewTableAvailability(f.tables), &fakeTx{}, nil)
	return f
}

var (
	admin = Actor{UserID: 1, Role: models.RoleAdmin}
	staff = Actor{UserID: 50, Role: models.RoleStaff}
)

func TestCreateReservation_Success(t *testing.T) {
	f := newReservationFixture()
	ctx := context.Background()

	f.tables.On("GetTableByID", ctx, mock.Anything, int64(3)).
		Return(&models.Table{ID: 3, Number: "T3", Capacity: 4, IsAvailable: true}, nil).Once()
	f.reservations.On("SlotTaken", ctx, mock.Anything, int64(3), "2024-01-01", "19:00", (*int64)(nil)).
		Return(false, nil).Once()
	f.reservations.On("CreateReservation", ctx, mock.Anything, mock.AnythingOfType("*models.Reservation")).
		Run(func(args mock.Arguments) { args.Get(2).(*models.Reservation).ID = 11 }).
		Return(nil).Once()
	f.tables.On("SetAvailability", ctx, mock.Anything, int64(3), false).Return(nil).Once()

	res, err := f.svc.CreateReservation(ctx, customer, CreateReservationRequest{
		TableID: 3, Date: "2024-01-01", Time: "19:00", Guests: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), res.ID)
	assert.Equal(t, models.ReservationStatusPending, res.Status)
	assert.Equal(t, customer.UserID, res.UserID)
	require.NotNil(t, res.Table)
	assert.Equal(t, "T3", res.Table.Number)
	f.tables.AssertExpectations(t)
	f.reservations.AssertExpectations(t)
}

func TestCreateReservation_SecondBookingOfSlotConflicts(t *testing.T) {
	ctx := context.Background()
	req := CreateReservationRequest{TableID: 3, Date: "2024-01-01", Time: "19:00", Guests: 2}
	table := &models.Table{ID: 3, Number: "T3", Capacity: 4}

	t.Run("detected by lookup", func(t *testing.T) {
		f := newReservationFixture()
		f.tables.On("GetTableByID", ctx, mock.Anything, int64(3)).Return(table, nil)
		f.reservations.On("SlotTaken", ctx, mock.Anything, int64(3), "2024-01-01", "19:00", (*int64)(nil)).
			Return(true, nil)

		_, err := f.svc.CreateReservation(ctx, customer, req)
		assert.ErrorIs(t, err, ErrSlotConflict)
		assert.ErrorIs(t, err, ErrConflict)
		f.reservations.AssertNotCalled(t, "CreateReservation", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("detected by unique index", func(t *testing.T) {
		f := newReservationFixture()
		f.tables.On("GetTableByID", ctx, mock.Anything, int64(3)).Return(table, nil)
		f.reservations.On("SlotTaken", ctx, mock.Anything, int64(3), "2024-01-01", "19:00", (*int64)(nil)).
			Return(false, nil)
		f.reservations.On("CreateReservation", ctx, mock.Anything, mock.Anything).Return(repositories.ErrDuplicateKey)

		_, err := f.svc.CreateReservation(ctx, customer, req)
		assert.ErrorIs(t, err, ErrSlotConflict)
	})
}

func TestCreateReservation_Validation(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		req  CreateReservationRequest
	}{
		{"bad date", CreateReservationRequest{TableID: 3, Date: "01/01/2024", Time: "19:00", Guests: 2}},
		{"bad time", CreateReservationRequest{TableID: 3, Date: "2024-01-01", Time: "7pm", Guests: 2}},
		{"no guests", CreateReservationRequest{TableID: 3, Date: "2024-01-01", Time: "19:00", Guests: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReservationFixture()
			_, err := f.svc.CreateReservation(ctx, customer, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	t.Run("party larger than table", func(t *testing.T) {
		f := newReservationFixture()
		f.tables.On("GetTableByID", ctx, mock.Anything, int64(3)).Return(&models.Table{ID: 3, Capacity: 2}, nil)
		_, err := f.svc.CreateReservation(ctx, customer,
			CreateReservationRequest{TableID: 3, Date: "2024-01-01", Time: "19:00", Guests: 6})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown table", func(t *testing.T) {
		f := newReservationFixture()
		f.tables.On("GetTableByID", ctx, mock.Anything, int64(3)).Return(nil, repositories.ErrNotFound)
		_, err := f.svc.CreateReservation(ctx, customer,
			CreateReservationRequest{TableID: 3, Date: "2024-01-01", Time: "19:00", Guests: 2})
		assert.ErrorIs(t, err, ErrTableNotFound)
	})
}

func TestUpdateReservationStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel releases idle table", func(t *testing.T) {
		f := newReservationFixture()
		f.reservations.On("GetReservationByID", ctx, int64(5)).
			Return(&models.Reservation{ID: 5, TableID: 3, Status: models.ReservationStatusConfirmed}, nil)
		f.reservations.On("UpdateReservation", ctx, mock.Anything, mock.MatchedBy(func(r *models.Reservation) bool {
			return r.Status == models.ReservationStatusCancelled
		})).Return(nil).Once()
		f.tables.On("ReleaseIfIdle", ctx, mock.Anything, int64(3)).Return(true, nil).Once()

		res, err := f.svc.UpdateReservationStatus(ctx, admin, 5, models.ReservationStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.ReservationStatusCancelled, res.Status)
		f.tables.AssertExpectations(t)
	})

	t.Run("confirm keeps table held", func(t *testing.T) {
		f := newReservationFixture()
		f.reservations.On("GetReservationByID", ctx, int64(5)).
			Return(&models.Reservation{ID: 5, TableID: 3, Status: models.ReservationStatusPending}, nil)
		f.reservations.On("UpdateReservation", ctx, mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.UpdateReservationStatus(ctx, admin, 5, models.ReservationStatusConfirmed)
		require.NoError(t, err)
		f.tables.AssertNotCalled(t, "ReleaseIfIdle", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cancelled is final", func(t *testing.T) {
		f := newReservationFixture()
		f.reservations.On("GetReservationByID", ctx, int64(5)).
			Return(&models.Reservation{ID: 5, TableID: 3, Status: models.ReservationStatusCancelled}, nil)

		_, err := f.svc.UpdateReservationStatus(ctx, admin, 5, models.ReservationStatusConfirmed)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newReservationFixture()
		f.reservations.On("GetReservationByID", ctx, int64(5)).
			Return(&models.Reservation{ID: 5, Status: models.ReservationStatusPending}, nil)

		_, err := f.svc.UpdateReservationStatus(ctx, admin, 5, "seated")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestUpdateReservation(t *testing.T) {
	ctx := context.Background()
	existing := func() *models.Reservation {
		return &models.Reservation{
			ID: 5, UserID: customer.UserID, TableID: 3, Date: "2024-01-01", Time: "19:00", Guests: 2,
			Status: models.ReservationStatusPending,
			Table:  &models.TableSummary{ID: 3, Number: "T3", Capacity: 4},
		}
	}

	t.Run("moving to a taken slot conflicts", func(t *testing.T) {
		f := newReservationFixture()
		newTime := "20:00"
		f.reservations.On("GetReservationByID", ctx, int64(5)).Return(existing(), nil)
		f.reservations.On("SlotTaken", ctx, mock.Anything, int64(3), "2024-01-01", "20:00", mock.AnythingOfType("*int64")).
			Return(true, nil)

		_, err := f.svc.UpdateReservation(ctx, customer, 5, UpdateReservationRequest{Time: &newTime})
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("guest change skips slot check", func(t *testing.T) {
		f := newReservationFixture()
		guests := 4
		f.reservations.On("GetReservationByID", ctx, int64(5)).Return(existing(), nil)
		f.reservations.On("UpdateReservation", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		res, err := f.svc.UpdateReservation(ctx, customer, 5, UpdateReservationRequest{Guests: &guests})
		require.NoError(t, err)
		assert.Equal(t, 4, res.Guests)
		f.reservations.AssertNotCalled(t, "SlotTaken", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("other customer is forbidden", func(t *testing.T) {
		f := newReservationFixture()
		f.reservations.On("GetReservationByID", ctx, int64(5)).Return(existing(), nil)
		guests := 3
		_, err := f.svc.UpdateReservation(ctx, Actor{UserID: 99, Role: models.RoleCustomer}, 5,
			UpdateReservationRequest{Guests: &guests})
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("staff cannot edit a foreign reservation", func(t *testing.T) {
		f := newReservationFixture()
		f.reservations.On("GetReservationByID", ctx, int64(5)).Return(existing(), nil)
		guests := 3
		_, err := f.svc.UpdateReservation(ctx, staff, 5, UpdateReservationRequest{Guests: &guests})
		assert.ErrorIs(t, err, ErrNotOwner)
		f.reservations.AssertNotCalled(t, "UpdateReservation", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin edits any reservation", func(t *testing.T) {
		f := newReservationFixture()
		f.reservations.On("GetReservationByID", ctx, int64(5)).Return(existing(), nil)
		f.reservations.On("UpdateReservation", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		guests := 3
		_, err := f.svc.UpdateReservation(ctx, admin, 5, UpdateReservationRequest{Guests: &guests})
		require.NoError(t, err)
	})

	t.Run("blank date and time keep the current slot", func(t *testing.T) {
		f := newReservationFixture()
		blank, spaces := "", "  "
		f.reservations.On("GetReservationByID", ctx, int64(5)).Return(existing(), nil)
		f.reservations.On("UpdateReservation", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		res, err := f.svc.UpdateReservation(ctx, customer, 5, UpdateReservationRequest{Date: &blank, Time: &spaces})
		require.NoError(t, err)
		assert.Equal(t, "2024-01-01", res.Date)
		assert.Equal(t, "19:00", res.Time)
		f.reservations.AssertNotCalled(t, "SlotTaken", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cancelled reservation is frozen", func(t *testing.T) {
		f := newReservationFixture()
		cancelled := existing()
		cancelled.Status = models.ReservationStatusCancelled
		f.reservations.On("GetReservationByID", ctx, int64(5)).Return(cancelled, nil)
		guests := 3
		_, err := f.svc.UpdateReservation(ctx, customer, 5, UpdateReservationRequest{Guests: &guests})
		assert.ErrorIs(t, err, ErrReservationCancelled)
	})
}

func TestDeleteReservation_ReleasesIdleTable(t *testing.T) {
	f := newReservationFixture()
	ctx := context.Background()

	f.reservations.On("GetReservationByID", ctx, int64(5)).
		Return(&models.Reservation{ID: 5, UserID: customer.UserID, TableID: 3}, nil)
	f.reservations.On("DeleteReservation", ctx, mock.Anything, int64(5)).Return(nil).Once()
	f.tables.On("ReleaseIfIdle", ctx, mock.Anything, int64(3)).Return(false, nil).Once()

	require.NoError(t, f.svc.DeleteReservation(ctx, customer, 5))
	f.reservations.AssertExpectations(t)
	f.tables.AssertExpectations(t)
}

func TestDeleteReservation_StaffCannotDeleteForeign(t *testing.T) {
	f := newReservationFixture()
	ctx := context.Background()

	f.reservations.On("GetReservationByID", ctx, int64(9)).
		Return(&models.Reservation{ID: 9, UserID: customer.UserID, TableID: 3}, nil)

	assert.ErrorIs(t, f.svc.DeleteReservation(ctx, staff, 9), ErrNotOwner)
	f.reservations.AssertNotCalled(t, "DeleteReservation", mock.Anything, mock.Anything, mock.Anything)
	f.tables.AssertNotCalled(t, "ReleaseIfIdle", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateReservationStatus_Ownership(t *testing.T) {
	ctx := context.Background()
	owned := func() *models.Reservation {
		return &models.Reservation{ID: 5, UserID: customer.UserID, TableID: 3, Status: models.ReservationStatusPending}
	}

	t.Run("owner cancels own reservation", func(t *testing.T) {
		f := newReservationFixture()
		f.reservations.On("GetReservationByID", ctx, int64(5)).Return(owned(), nil)
		f.reservations.On("UpdateReservation", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		f.tables.On("ReleaseIfIdle", ctx, mock.Anything, int64(3)).Return(true, nil).Once()

		res, err := f.svc.UpdateReservationStatus(ctx, customer, 5, models.ReservationStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.ReservationStatusCancelled, res.Status)
	})

	t.Run("owner cannot confirm", func(t *testing.T) {
		f := newReservationFixture()
		f.reservations.On("GetReservationByID", ctx, int64(5)).Return(owned(), nil)

		_, err := f.svc.UpdateReservationStatus(ctx, customer, 5, models.ReservationStatusConfirmed)
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("other customer cannot cancel", func(t *testing.T) {
		f := newReservationFixture()
		f.reservations.On("GetReservationByID", ctx, int64(5)).Return(owned(), nil)

		_, err := f.svc.UpdateReservationStatus(ctx, Actor{UserID: 99, Role: models.RoleCustomer}, 5, models.ReservationStatusCancelled)
		assert.ErrorIs(t, err, ErrNotOwner)
		f.reservations.AssertNotCalled(t, "UpdateReservation", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("staff cannot change a foreign reservation", func(t *testing.T) {
		f := newReservationFixture()
		f.reservations.On("GetReservationByID", ctx, int64(5)).Return(owned(), nil)

		_, err := f.svc.UpdateReservationStatus(ctx, staff, 5, models.ReservationStatusCancelled)
		assert.ErrorIs(t, err, ErrNotOwner)
	})
}

func TestListReservations_CustomerScopedToSelf(t *testing.T) {
	f := newReservationFixture()
	ctx := context.Background()
	date := "2024-01-01"

	f.reservations.On("GetReservations", ctx, mock.MatchedBy(func(filters models.ReservationFilters) bool {
		return filters.UserID != nil && *filters.UserID == customer.UserID && filters.Date != nil
	})).Return([]models.Reservation{{ID: 1}}, nil).Once()

	list, err := f.svc.ListReservations(ctx, customer, models.ReservationFilters{Date: &date})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	bad := "tomorrow"
	_, err = f.svc.ListReservations(ctx, customer, models.ReservationFilters{Date: &bad})
	assert.ErrorIs(t, err, ErrValidation)
}
