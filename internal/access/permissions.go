// Package access maps roles to the capabilities they grant.
package access

import "restaurant_backend/internal/models"

// Permission is a capability checked before a request reaches domain logic.
type Permission int

const (
	PlaceOrder Permission = iota + 1
	ViewOwnOrders
	MakeReservation
	ViewOwnReservations
	EditOwnProfile

	ViewAllOrders
	UpdateOrderStatus
	ViewAllReservations

	// ManageAnyReservation covers editing, deleting and status changes on
	// reservations owned by other users. Owners manage their own without it.
	ManageAnyReservation

	ManageMenu
	ManageTables
	ManageUsers
	ViewDashboard
)

var permissionNames = map[Permission]string{
	PlaceOrder:              "place_order",
	ViewOwnOrders:           "view_own_orders",
	MakeReservation:         "make_reservation",
	ViewOwnReservations:     "view_own_reservations",
	EditOwnProfile:          "edit_own_profile",
	ViewAllOrders:           "view_all_orders",
	UpdateOrderStatus:       "update_order_status",
	ViewAllReservations:     "view_all_reservations",
	ManageAnyReservation:    "manage_any_reservation",
	ManageMenu:              "manage_menu",
	ManageTables:            "manage_tables",
	ManageUsers:             "manage_users",
	ViewDashboard:           "view_dashboard",
}

func (p Permission) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}
	return "unknown"
}

var customerPermissions = []Permission{
	PlaceOrder,
	ViewOwnOrders,
	MakeReservation,
	ViewOwnReservations,
	EditOwnProfile,
}

var staffPermissions = append(append([]Permission{}, customerPermissions...),
	ViewAllOrders,
	UpdateOrderStatus,
	ViewAllReservations,
)

var adminPermissions = append(append([]Permission{}, staffPermissions...),
	ManageAnyReservation,
	ManageMenu,
	ManageTables,
	ManageUsers,
	ViewDashboard,
)

var grants = map[models.Role]map[Permission]struct{}{
	models.RoleCustomer: toSet(customerPermissions),
	models.RoleStaff:    toSet(staffPermissions),
	models.RoleAdmin:    toSet(adminPermissions),
}

func toSet(perms []Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Can reports whether role holds perm. Unknown roles hold nothing.
func Can(role models.Role, perm Permission) bool {
	_, ok := grants[role][perm]
	return ok
}

// SeesAll reports whether role may read every order and reservation rather than only its own.
func SeesAll(role models.Role) bool {
	return Can(role, ViewAllOrders)
}
