package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every service error wraps exactly one of these so handlers can classify it with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrAuth       = errors.New("authentication failed")
)

// domainError carries a client-facing message and the kind it belongs to.
type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &domainError{kind: kind, msg: msg}
}

// validationErrorf builds a one-off validation error.
func validationErrorf(format string, args ...interface{}) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

// --- Specific errors ---
var (
	ErrItemUnavailable      = newError(ErrConflict, "menu item is not available")
	ErrTableUnavailable     = newError(ErrConflict, "table is not available")
	ErrSlotConflict         = newError(ErrConflict, "table is already reserved for this date and time")
	ErrTableInUse           = newError(ErrConflict, "table has active orders")
	ErrInvalidTransition    = newError(ErrConflict, "invalid status transition")
	ErrDuplicateTableNumber = newError(ErrConflict, "table number already exists")
	ErrDuplicateEmail       = newError(ErrConflict, "user already exists")
	ErrDuplicateCategory    = newError(ErrConflict, "category already exists")
	ErrCategoryInUse        = newError(ErrConflict, "category still has menu items")
	ErrMenuItemInUse        = newError(ErrConflict, "menu item is referenced by orders")
	ErrUserHasOrders        = newError(ErrConflict, "user has orders and cannot be deleted")
	ErrReservationCancelled = newError(ErrConflict, "cancelled reservations cannot be modified")

	ErrOrderNotFound       = newError(ErrNotFound, "order not found")
	ErrTableNotFound       = newError(ErrNotFound, "table not found")
	ErrReservationNotFound = newError(ErrNotFound, "reservation not found")
	ErrMenuItemNotFound    = newError(ErrNotFound, "menu item not found")
	ErrCategoryNotFound    = newError(ErrNotFound, "category not found")
	ErrUserNotFound        = newError(ErrNotFound, "user not found")

	ErrNotOwner = newError(ErrForbidden, "not authorized to access this resource")

	ErrInvalidCredentials = newError(ErrAuth, "invalid credentials")
)
