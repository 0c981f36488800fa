package handlers

import (
	"context"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/services"

	"github.com/stretchr/testify/mock"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req models.RegistrationPayload) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req models.Credentials) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type mockOrderService struct{ mock.Mock }

func (m *mockOrderService) CreateOrder(ctx context.Context, actor services.Actor, req services.CreateOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, actor, req)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *mockOrderService) ListOrders(ctx context.Context, actor services.Actor, filters models.OrderFilters) ([]models.Order, error) {
	args := m.Called(ctx, actor, filters)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}

func (m *mockOrderService) GetOrder(ctx context.Context, actor services.Actor, id int64) (*models.Order, error) {
	args := m.Called(ctx, actor, id)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *mockOrderService) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, id, status)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *mockOrderService) OrderQRCode(ctx context.Context, actor services.Actor, id int64) ([]byte, error) {
	args := m.Called(ctx, actor, id)
	png, _ := args.Get(0).([]byte)
	return png, args.Error(1)
}

type mockMenuService struct{ mock.Mock }

func (m *mockMenuService) ListMenuItems(ctx context.Context, filters models.MenuItemFilters) ([]models.MenuItem, error) {
	args := m.Called(ctx, filters)
	items, _ := args.Get(0).([]models.MenuItem)
	return items, args.Error(1)
}

func (m *mockMenuService) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*models.MenuItem)
	return item, args.Error(1)
}

func (m *mockMenuService) CreateMenuItem(ctx context.Context, req services.CreateMenuItemRequest) (*models.MenuItem, error) {
	args := m.Called(ctx, req)
	item, _ := args.Get(0).(*models.MenuItem)
	return item, args.Error(1)
}

func (m *mockMenuService) UpdateMenuItem(ctx context.Context, id int64, req services.UpdateMenuItemRequest) (*models.MenuItem, error) {
	args := m.Called(ctx, id, req)
	item, _ := args.Get(0).(*models.MenuItem)
	return item, args.Error(1)
}

func (m *mockMenuService) DeleteMenuItem(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockMenuService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]models.Category)
	return categories, args.Error(1)
}

func (m *mockMenuService) CreateCategory(ctx context.Context, req services.CreateCategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, req)
	category, _ := args.Get(0).(*models.Category)
	return category, args.Error(1)
}

func (m *mockMenuService) UpdateCategory(ctx context.Context, id int64, req services.UpdateCategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, id, req)
	category, _ := args.Get(0).(*models.Category)
	return category, args.Error(1)
}

func (m *mockMenuService) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockReservationService struct{ mock.Mock }

func (m *mockReservationService) CreateReservation(ctx context.Context, actor services.Actor, req services.CreateReservationRequest) (*models.Reservation, error) {
	args := m.Called(ctx, actor, req)
	r, _ := args.Get(0).(*models.Reservation)
	return r, args.Error(1)
}

func (m *mockReservationService) ListReservations(ctx context.Context, actor services.Actor, filters models.ReservationFilters) ([]models.Reservation, error) {
	args := m.Called(ctx, actor, filters)
	rs, _ := args.Get(0).([]models.Reservation)
	return rs, args.Error(1)
}

func (m *mockReservationService) GetReservation(ctx context.Context, actor services.Actor, id int64) (*models.Reservation, error) {
	args := m.Called(ctx, actor, id)
	r, _ := args.Get(0).(*models.Reservation)
	return r, args.Error(1)
}

func (m *mockReservationService) UpdateReservation(ctx context.Context, actor services.Actor, id int64, req services.UpdateReservationRequest) (*models.Reservation, error) {
	args := m.Called(ctx, actor, id, req)
	r, _ := args.Get(0).(*models.Reservation)
	return r, args.Error(1)
}

func (m *mockReservationService) UpdateReservationStatus(ctx context.Context, actor services.Actor, id int64, status models.ReservationStatus) (*models.Reservation, error) {
	args := m.Called(ctx, actor, id, status)
	r, _ := args.Get(0).(*models.Reservation)
	return r, args.Error(1)
}

func (m *mockReservationService) DeleteReservation(ctx context.Context, actor services.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}
