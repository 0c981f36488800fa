package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
	"restaurant_backend/pkg/utils"
)

// OrderEvents receives order lifecycle notifications after they are committed.
type OrderEvents interface {
	OrderCreated(ctx context.Context, order *models.Order) error
	OrderStatusChanged(ctx context.Context, order *models.Order, from models.OrderStatus) error
}

// OrderMetrics records order activity.
type OrderMetrics interface {
	ObserveOrderCreated(orderType models.OrderType, total float64)
	ObserveOrderTransition(from, to models.OrderStatus)
}

// --- Data Transfer Objects (DTOs) ---

// CreateOrderItemRequest is one requested order line.
type CreateOrderItemRequest struct {
	MenuItemID          int64  `json:"menuItem" binding:"required"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"specialInstructions"`
}

// CreateOrderRequest is used for creating a new order.
type CreateOrderRequest struct {
	Items     []CreateOrderItemRequest `json:"items"`
	OrderType models.OrderType         `json:"orderType"`
	TableID   *int64                   `json:"tableId"`
}

// UpdateOrderStatusRequest is the body of a status change.
type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// --- OrderService Interface ---
type OrderService interface {
	CreateOrder(ctx context.Context, actor Actor, req CreateOrderRequest) (*models.Order, error)
	ListOrders(ctx context.Context, actor Actor, filters models.OrderFilters) ([]models.Order, error)
	GetOrder(ctx context.Context, actor Actor, id int64) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error)
	OrderQRCode(ctx context.Context, actor Actor, id int64) ([]byte, error)
}

type orderService struct {
	orders       repositories.OrderRepository
	menu         repositories.MenuRepository
	users        repositories.UserRepository
	availability TableAvailability
	tx           repositories.TxManager
	events       OrderEvents
	metrics      OrderMetrics
	qr           QRGenerator
	now          func() time.Time
}

// OrderServiceDeps groups the collaborators of the order service. Events, Metrics and QR are optional.
type OrderServiceDeps struct {
	Orders       repositories.OrderRepository
	Menu         repositories.MenuRepository
	Users        repositories.UserRepository
	Availability TableAvailability
	Tx           repositories.TxManager
	Events       OrderEvents
	Metrics      OrderMetrics
	QR           QRGenerator
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(deps OrderServiceDeps) OrderService {
	s := &orderService{
		orders:       deps.Orders,
		menu:         deps.Menu,
		users:        deps.Users,
		availability: deps.Availability,
		tx:           deps.Tx,
		events:       deps.Events,
		metrics:      deps.Metrics,
		qr:           deps.QR,
		now:          time.Now,
	}
	if s.events == nil {
		s.events = noopOrderEvents{}
	}
	if s.metrics == nil {
		s.metrics = noopOrderMetrics{}
	}
	return s
}

func validateCreateOrder(req CreateOrderRequest) error {
	if len(req.Items) == 0 {
		return validationErrorf("order must contain at least one item")
	}
	for i, item := range req.Items {
		if item.MenuItemID <= 0 {
			return validationErrorf("item %d: menu item is required", i+1)
		}
		if item.Quantity < 1 {
			return validationErrorf("item %d: quantity must be at least 1", i+1)
		}
	}
	if !req.OrderType.IsValid() {
		return validationErrorf("orderType must be one of %q or %q", models.OrderTypeDineIn, models.OrderTypeTakeaway)
	}
	if req.OrderType == models.OrderTypeDineIn && req.TableID == nil {
		return validationErrorf("tableId is required for dine-in orders")
	}
	return nil
}

// CreateOrder snapshots current prices, claims the table for dine-in orders and persists everything in one transaction.
func (s *orderService) CreateOrder(ctx context.Context, actor Actor, req CreateOrderRequest) (*models.Order, error) {
	if err := validateCreateOrder(req); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(req.Items))
	seen := make(map[int64]bool, len(req.Items))
	for _, item := range req.Items {
		if !seen[item.MenuItemID] {
			seen[item.MenuItemID] = true
			ids = append(ids, item.MenuItemID)
		}
	}

	order := &models.Order{
		UserID:    actor.UserID,
		OrderType: req.OrderType,
		Status:    models.OrderStatusPending,
	}
	if req.OrderType == models.OrderTypeDineIn {
		tableID := *req.TableID
		order.TableID = &tableID
	}

	err := s.tx.WithinTx(ctx, func(tx repositories.SQLExecutor) error {
		menuItems, err := s.menu.GetItemsByIDs(ctx, tx, ids)
		if err != nil {
			return err
		}

		lines := make([]models.OrderItem, 0, len(req.Items))
		var total float64
		for _, reqItem := range req.Items {
			mi, ok := menuItems[reqItem.MenuItemID]
			if !ok || !mi.IsAvailable {
				return fmt.Errorf("%w (id %d)", ErrItemUnavailable, reqItem.MenuItemID)
			}
			lines = append(lines, models.OrderItem{
				MenuItemID:          mi.ID,
				Quantity:            reqItem.Quantity,
				SpecialInstructions: reqItem.SpecialInstructions,
				PriceAtOrder:        mi.Price,
				MenuItem:            &models.MenuItemSummary{ID: mi.ID, Name: mi.Name, Price: mi.Price},
			})
			total += mi.Price * float64(reqItem.Quantity)
		}
		order.TotalAmount = utils.RoundToCents(total)

		if order.TableID != nil {
			if err := s.availability.Reserve(ctx, tx, *order.TableID); err != nil {
				if errors.Is(err, ErrTableNotFound) {
					return ErrTableUnavailable
				}
				return err
			}
		}

		if err := s.orders.CreateOrder(ctx, tx, order); err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
			if err := s.orders.CreateOrderItem(ctx, tx, &lines[i]); err != nil {
				return err
			}
		}
		order.Items = lines

		return s.users.TouchLastOrder(ctx, tx, actor.UserID, s.now())
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("creating order: %w", err)
	}

	utils.LogInfo("Order created", map[string]interface{}{
		"order_id": order.ID, "user_id": order.UserID, "order_type": order.OrderType, "total": order.TotalAmount,
	})
	s.metrics.ObserveOrderCreated(order.OrderType, order.TotalAmount)
	if err := s.events.OrderCreated(ctx, order); err != nil {
		utils.LogError(err, "Failed to publish order created event", map[string]interface{}{"order_id": order.ID})
	}
	return order, nil
}

// ListOrders returns orders newest first; customers only see their own.
func (s *orderService) ListOrders(ctx context.Context, actor Actor, filters models.OrderFilters) ([]models.Order, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, validationErrorf("unknown order status %q", *filters.Status)
	}
	if !actor.SeesAll() {
		userID := actor.UserID
		filters.UserID = &userID
	}
	orders, err := s.orders.GetOrders(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, actor Actor, id int64) (*models.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	if !actor.owns(order.UserID) {
		return nil, ErrNotOwner
	}
	return order, nil
}

// UpdateOrderStatus applies one lifecycle transition. Reaching a terminal status frees the order's table.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	var order *models.Order
	var from models.OrderStatus

	err := s.tx.WithinTx(ctx, func(tx repositories.SQLExecutor) error {
		current, err := s.orders.LockOrder(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		next, err := models.TransitionOrderStatus(current.Status, status)
		if err != nil {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
		}

		updatedAt, err := s.orders.UpdateOrderStatus(ctx, tx, id, next)
		if err != nil {
			return err
		}
		from = current.Status
		current.Status = next
		current.UpdatedAt = updatedAt
		order = current
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("updating order %d status: %w", id, err)
	}

	if order.Status.ReleasesTable() && order.TableID != nil {
		if err := s.availability.Release(ctx, nil, *order.TableID); err != nil {
			utils.LogError(err, "Failed to release table after order completion", map[string]interface{}{
				"order_id": order.ID, "table_id": *order.TableID,
			})
		}
	}

	utils.LogInfo("Order status updated", map[string]interface{}{"order_id": order.ID, "from": from, "to": order.Status})
	s.metrics.ObserveOrderTransition(from, order.Status)
	if err := s.events.OrderStatusChanged(ctx, order, from); err != nil {
		utils.LogError(err, "Failed to publish order status event", map[string]interface{}{"order_id": order.ID})
	}
	return order, nil
}

func (s *orderService) OrderQRCode(ctx context.Context, actor Actor, id int64) ([]byte, error) {
	order, err := s.GetOrder(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if s.qr == nil {
		return nil, errors.New("qr code generation is not configured")
	}
	png, err := s.qr.Generate(order.ID)
	if err != nil {
		return nil, fmt.Errorf("generating qr code for order %d: %w", order.ID, err)
	}
	return png, nil
}

// isDomainError reports whether err already carries a client-facing kind.
func isDomainError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrAuth)
}

type noopOrderEvents struct{}

func (noopOrderEvents) OrderCreated(context.Context, *models.Order) error { return nil }
func (noopOrderEvents) OrderStatusChanged(context.Context, *models.Order, models.OrderStatus) error {
	return nil
}

type noopOrderMetrics struct{}

func (noopOrderMetrics) ObserveOrderCreated(models.OrderType, float64) {}
func (noopOrderMetrics) ObserveOrderTransition(models.OrderStatus, models.OrderStatus) {}
