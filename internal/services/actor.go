package services

import (
	"restaurant_backend/internal/access"
	"restaurant_backend/internal/models"
)

// Actor is the authenticated caller on whose behalf a service operation runs.
type Actor struct {
	UserID int64
	Role   models.Role
}

// SeesAll reports whether the actor may read records owned by other users.
func (a Actor) SeesAll() bool {
	return access.SeesAll(a.Role)
}

// owns reports whether the actor may read a record owned by ownerID.
func (a Actor) owns(ownerID int64) bool {
	return a.SeesAll() || a.UserID == ownerID
}

// mayModifyReservation reports whether the actor may edit, cancel or delete a reservation owned by ownerID.
// Staff can read every reservation but only change their own.
func (a Actor) mayModifyReservation(ownerID int64) bool {
	return a.UserID == ownerID || access.Can(a.Role, access.ManageAnyReservation)
}
