package client

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"restaurant_backend/internal/models"
	"restaurant_backend/pkg/utils"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrTableRequired = errors.New("select a table for dine-in orders")
)

// CartItem is one line of the cart.
type CartItem struct {
	MenuItem            models.MenuItem
	Quantity            int
	SpecialInstructions string
}

// Cart collects items before they are submitted as an order.
type Cart struct {
	session *Session

	mu        sync.Mutex
	items     []CartItem
	orderType models.OrderType
	tableID   *int64
}

func NewCart(session *Session) *Cart {
	return &Cart{session: session, orderType: models.OrderTypeDineIn}
}

// AddItem adds quantity of item, merging with an existing line for the same menu item.
func (c *Cart) AddItem(item models.MenuItem, quantity int, instructions string) {
	if quantity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].MenuItem.ID == item.ID {
			c.items[i].Quantity += quantity
			if instructions != "" {
				c.items[i].SpecialInstructions = instructions
			}
			return
		}
	}
	c.items = append(c.items, CartItem{MenuItem: item, Quantity: quantity, SpecialInstructions: instructions})
}

func (c *Cart) RemoveItem(menuItemID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].MenuItem.ID == menuItemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (c *Cart) UpdateQuantity(menuItemID int64, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(menuItemID)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].MenuItem.ID == menuItemID {
			c.items[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CartItem(nil), c.items...)
}

// Total is the cart value at current menu prices, rounded to cents.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, line := range c.items {
		total += line.MenuItem.Price * float64(line.Quantity)
	}
	return utils.RoundToCents(total)
}

// SetOrderType switches between dine-in and takeaway. Takeaway clears the selected table.
func (c *Cart) SetOrderType(t models.OrderType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orderType = t
	if t == models.OrderTypeTakeaway {
		c.tableID = nil
	}
}

func (c *Cart) SelectTable(tableID int64) {
	c.mu.Lock()
	c.tableID = &tableID
	c.mu.Unlock()
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.tableID = nil
	c.orderType = models.OrderTypeDineIn
	c.mu.Unlock()
}

type orderLine struct {
	MenuItem            int64  `json:"menuItem"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

type orderPayload struct {
	Items     []orderLine      `json:"items"`
	OrderType models.OrderType `json:"orderType"`
	TableID   *int64           `json:"tableId,omitempty"`
}

// SubmitOrder places the cart as an order and clears it on success.
// Server rejections come back as *utils.APIError carrying the server's message.
func (c *Cart) SubmitOrder(ctx context.Context) (*models.Order, error) {
	if !c.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	c.mu.Lock()
	if len(c.items) == 0 {
		c.mu.Unlock()
		return nil, ErrEmptyCart
	}
	if c.orderType == models.OrderTypeDineIn && c.tableID == nil {
		c.mu.Unlock()
		return nil, ErrTableRequired
	}
	payload := orderPayload{OrderType: c.orderType, TableID: c.tableID}
	for _, line := range c.items {
		payload.Items = append(payload.Items, orderLine{
			MenuItem:            line.MenuItem.ID,
			Quantity:            line.Quantity,
			SpecialInstructions: line.SpecialInstructions,
		})
	}
	c.mu.Unlock()

	var order models.Order
	if err := c.session.do(ctx, http.MethodPost, "/api/orders", payload, &order); err != nil {
		return nil, err
	}
	c.Clear()
	return &order, nil
}
