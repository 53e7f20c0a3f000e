package services

import "lapak/internal/models"

// CanPlaceOrderFor decides whether requester may place an order (or mutate a
// cart) on behalf of target. assigned reports whether an employee-customer
// assignment exists between the two; it is ignored for every other role
// combination.
//
// The rules form a closed table: anyone may act for themselves; managers may
// act for any customer; employees only for customers assigned to them;
// customers never for anyone else; non-customer targets are always denied.
func CanPlaceOrderFor(requester, target *models.User, assigned bool) bool {
	if requester == nil {
		return false
	}
	if target == nil || requester.ID == target.ID {
		return true
	}
	if target.Role != models.RoleCustomer {
		return false
	}
	switch requester.Role {
	case models.RoleManager:
		return true
	case models.RoleEmployee:
		return assigned
	default:
		return false
	}
}
