package models

import (
	"errors"
	"fmt"
)

// OrderStatus is a state of the order lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ErrInvalidOrderTransition is returned when a requested status is not reachable from the current one.
var ErrInvalidOrderTransition = errors.New("invalid order status transition")

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// ActiveOrderStatuses are the statuses in which an order still occupies its table.
var ActiveOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
}

// IsValid reports whether s is a known order status.
func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// ReleasesTable reports whether entering s frees the order's table.
func (s OrderStatus) ReleasesTable() bool {
	return s.IsTerminal()
}

// AllowedTransitions returns the statuses reachable from s in one step.
func (s OrderStatus) AllowedTransitions() []OrderStatus {
	next := orderTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether next is directly reachable from s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionOrderStatus validates moving an order from current to requested.
// Same-state moves, moves out of a terminal state and unknown statuses all fail.
func TransitionOrderStatus(current, requested OrderStatus) (OrderStatus, error) {
	if !requested.IsValid() {
		return current, fmt.Errorf("%w: unknown status %q", ErrInvalidOrderTransition, requested)
	}
	if !current.CanTransitionTo(requested) {
		return current, fmt.Errorf("%w: %s -> %s", ErrInvalidOrderTransition, current, requested)
	}
	return requested, nil
}
