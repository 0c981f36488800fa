package services

import (
	"context"
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// fakeTx runs the callback without a real transaction.
type fakeTx struct{ calls int }

func (f *fakeTx) WithinTx(_ context.Context, fn func(tx repositories.SQLExecutor) error) error {
	f.calls++
	return fn(nil)
}

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) CreateOrder(ctx context.Context, exec repositories.SQLExecutor, order *models.Order) error {
	return m.Called(ctx, exec, order).Error(0)
}

func (m *mockOrderRepo) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error) {
	args := m.Called(ctx, filters)
	if o := args.Get(0); o != nil {
		return o.([]models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) LockOrder(ctx context.Context, exec repositories.SQLExecutor, id int64) (*models.Order, error) {
	args := m.Called(ctx, exec, id)
	if o := args.Get(0); o != nil {
		return o.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) UpdateOrderStatus(ctx context.Context, exec repositories.SQLExecutor, id int64, status models.OrderStatus) (time.Time, error) {
	args := m.Called(ctx, exec, id, status)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *mockOrderRepo) CreateOrderItem(ctx context.Context, exec repositories.SQLExecutor, item *models.OrderItem) error {
	return m.Called(ctx, exec, item).Error(0)
}

func (m *mockOrderRepo) GetOrderItemsByOrderIDs(ctx context.Context, ids []int64) (map[int64][]models.OrderItem, error) {
	args := m.Called(ctx, ids)
	if o := args.Get(0); o != nil {
		return o.(map[int64][]models.OrderItem), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMenuRepo struct{ mock.Mock }

func (m *mockMenuRepo) CreateCategory(ctx context.Context, exec repositories.SQLExecutor, c *models.Category) error {
	return m.Called(ctx, exec, c).Error(0)
}

func (m *mockMenuRepo) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMenuRepo) GetCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if c := args.Get(0); c != nil {
		return c.([]models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMenuRepo) UpdateCategory(ctx context.Context, exec repositories.SQLExecutor, c *models.Category) error {
	return m.Called(ctx, exec, c).Error(0)
}

func (m *mockMenuRepo) DeleteCategory(ctx context.Context, exec repositories.SQLExecutor, id int64) error {
	return m.Called(ctx, exec, id).Error(0)
}

func (m *mockMenuRepo) CreateItem(ctx context.Context, exec repositories.SQLExecutor, item *models.MenuItem) error {
	return m.Called(ctx, exec, item).Error(0)
}

func (m *mockMenuRepo) GetItemByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	args := m.Called(ctx, id)
	if i := args.Get(0); i != nil {
		return i.(*models.MenuItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMenuRepo) GetItems(ctx context.Context, filters models.MenuItemFilters) ([]models.MenuItem, error) {
	args := m.Called(ctx, filters)
	if i := args.Get(0); i != nil {
		return i.([]models.MenuItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMenuRepo) GetItemsByIDs(ctx context.Context, exec repositories.SQLExecutor, ids []int64) (map[int64]models.MenuItem, error) {
	args := m.Called(ctx, exec, ids)
	if i := args.Get(0); i != nil {
		return i.(map[int64]models.MenuItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMenuRepo) UpdateItem(ctx context.Context, exec repositories.SQLExecutor, item *models.MenuItem) error {
	return m.Called(ctx, exec, item).Error(0)
}

func (m *mockMenuRepo) DeleteItem(ctx context.Context, exec repositories.SQLExecutor, id int64) error {
	return m.Called(ctx, exec, id).Error(0)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, exec repositories.SQLExecutor, user *models.User) error {
	return m.Called(ctx, exec, user).Error(0)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UpdateUser(ctx context.Context, exec repositories.SQLExecutor, user *models.User) error {
	return m.Called(ctx, exec, user).Error(0)
}

func (m *mockUserRepo) DeleteUser(ctx context.Context, exec repositories.SQLExecutor, id int64) error {
	return m.Called(ctx, exec, id).Error(0)
}

func (m *mockUserRepo) TouchLastOrder(ctx context.Context, exec repositories.SQLExecutor, id int64, at time.Time) error {
	return m.Called(ctx, exec, id, at).Error(0)
}

type mockTableRepo struct{ mock.Mock }

func (m *mockTableRepo) CreateTable(ctx context.Context, exec repositories.SQLExecutor, table *models.Table) error {
	return m.Called(ctx, exec, table).Error(0)
}

func (m *mockTableRepo) GetTableByID(ctx context.Context, exec repositories.SQLExecutor, id int64) (*models.Table, error) {
	args := m.Called(ctx, exec, id)
	if t := args.Get(0); t != nil {
		return t.(*models.Table), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTableRepo) GetTables(ctx context.Context, filters models.TableFilters) ([]models.Table, error) {
	args := m.Called(ctx, filters)
	if t := args.Get(0); t != nil {
		return t.([]models.Table), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTableRepo) UpdateTable(ctx context.Context, exec repositories.SQLExecutor, table *models.Table) error {
	return m.Called(ctx, exec, table).Error(0)
}

func (m *mockTableRepo) DeleteTable(ctx context.Context, exec repositories.SQLExecutor, id int64) error {
	return m.Called(ctx, exec, id).Error(0)
}

func (m *mockTableRepo) NumberTaken(ctx context.Context, number string, excludeID *int64) (bool, error) {
	args := m.Called(ctx, number, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTableRepo) HasActiveOrders(ctx context.Context, exec repositories.SQLExecutor, id int64) (bool, error) {
	args := m.Called(ctx, exec, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockTableRepo) ClaimIfAvailable(ctx context.Context, exec repositories.SQLExecutor, id int64) (bool, error) {
	args := m.Called(ctx, exec, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockTableRepo) SetAvailability(ctx context.Context, exec repositories.SQLExecutor, id int64, available bool) error {
	return m.Called(ctx, exec, id, available).Error(0)
}

func (m *mockTableRepo) ReleaseIfIdle(ctx context.Context, exec repositories.SQLExecutor, id int64) (bool, error) {
	args := m.Called(ctx, exec, id)
	return args.Bool(0), args.Error(1)
}

type mockReservationRepo struct{ mock.Mock }

func (m *mockReservationRepo) CreateReservation(ctx context.Context, exec repositories.SQLExecutor, r *models.Reservation) error {
	return m.Called(ctx, exec, r).Error(0)
}

func (m *mockReservationRepo) GetReservationByID(ctx context.Context, id int64) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*models.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepo) GetReservations(ctx context.Context, filters models.ReservationFilters) ([]models.Reservation, error) {
	args := m.Called(ctx, filters)
	if r := args.Get(0); r != nil {
		return r.([]models.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepo) UpdateReservation(ctx context.Context, exec repositories.SQLExecutor, r *models.Reservation) error {
	return m.Called(ctx, exec, r).Error(0)
}

func (m *mockReservationRepo) DeleteReservation(ctx context.Context, exec repositories.SQLExecutor, id int64) error {
	return m.Called(ctx, exec, id).Error(0)
}

func (m *mockReservationRepo) SlotTaken(ctx context.Context, exec repositories.SQLExecutor, tableID int64, date, clock string, excludeID *int64) (bool, error) {
	args := m.Called(ctx, exec, tableID, date, clock, excludeID)
	return args.Bool(0), args.Error(1)
}

type mockReportRepo struct{ mock.Mock }

func (m *mockReportRepo) CountOrders(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReportRepo) TotalRevenue(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockReportRepo) CountActiveUsers(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReportRepo) CountMenuItems(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReportRepo) PopularItems(ctx context.Context, limit int) ([]models.PopularItem, error) {
	args := m.Called(ctx, limit)
	if p := args.Get(0); p != nil {
		return p.([]models.PopularItem), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMenuCache struct{ mock.Mock }

func (m *mockMenuCache) GetMenuItems(ctx context.Context, key string) ([]models.MenuItem, bool, error) {
	args := m.Called(ctx, key)
	var items []models.MenuItem
	if i := args.Get(0); i != nil {
		items = i.([]models.MenuItem)
	}
	return items, args.Bool(1), args.Error(2)
}

func (m *mockMenuCache) SetMenuItems(ctx context.Context, key string, items []models.MenuItem) error {
	return m.Called(ctx, key, items).Error(0)
}

func (m *mockMenuCache) InvalidateMenu(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockOrderEvents struct{ mock.Mock }

func (m *mockOrderEvents) OrderCreated(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrderEvents) OrderStatusChanged(ctx context.Context, order *models.Order, from models.OrderStatus) error {
	return m.Called(ctx, order, from).Error(0)
}

type stubTokens struct{}

func (stubTokens) GenerateToken(userID int64, role string) (string, error) {
	return "token-" + role, nil
}
