package models

import "time"

// ReservationStatus defines the type for reservation statuses
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Date and time layouts used for reservation slots.
const (
	ReservationDateLayout = "2006-01-02"
	ReservationTimeLayout = "15:04"
)

// ActiveReservationStatuses are the statuses that block a slot.
var ActiveReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
}

// IsValid checks if the status is a known ReservationStatus.
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a reservation in s may move to next.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case ReservationStatusPending:
		return next == ReservationStatusConfirmed || next == ReservationStatusCancelled
	case ReservationStatusConfirmed:
		return next == ReservationStatusCancelled
	default:
		return false
	}
}

// Reservation is a claim on a table for a date and time slot.
type Reservation struct {
	ID        int64             `json:"id" db:"id"`
	UserID    int64             `json:"userId" db:"user_id"`
	TableID   int64             `json:"tableId" db:"table_id"`
	Date      string            `json:"date" db:"date"` // YYYY-MM-DD
	Time      string            `json:"time" db:"time"` // HH:MM
	Guests    int               `json:"guests" db:"guests"`
	Status    ReservationStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time         `json:"updatedAt" db:"updated_at"`
	User      *UserSummary      `json:"user,omitempty"`
	Table     *TableSummary     `json:"table,omitempty"`
}

// ReservationFilters defines the filters accepted when listing reservations.
type ReservationFilters struct {
	UserID *int64  `form:"-"`
	Date   *string `form:"date"`
}
