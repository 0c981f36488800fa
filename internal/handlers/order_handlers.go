package handlers

import (
	"net/http"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// OrderHandler holds the order service.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

// CreateOrder places an order for the authenticated user.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondServiceError(c, err, "CreateOrder")
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrders lists orders, optionally filtered by ?status=.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filters models.OrderFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondBindError(c, err)
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), actorFrom(c), filters)
	if err != nil {
		respondServiceError(c, err, "GetOrders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondServiceError(c, err, "GetOrderByID")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus moves an order along its lifecycle.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondServiceError(c, err, "UpdateOrderStatus")
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetOrderQRCode renders a PNG QR code linking to the order receipt.
func (h *OrderHandler) GetOrderQRCode(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	png, err := h.orderService.OrderQRCode(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondServiceError(c, err, "GetOrderQRCode")
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "image/png", png)
}
