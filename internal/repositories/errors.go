package repositories

import "fmt"

// ProductNotFoundError is returned when an ordered product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with ID %s does not exist", e.ProductID)
}

// ProductInactiveError is returned when an ordered product has been retired
// from the catalog.
type ProductInactiveError struct {
	ProductID string
	Name      string
}

func (e *ProductInactiveError) Error() string {
	return fmt.Sprintf("product %s is not active", e.Name)
}

// OrderNotFoundError is returned when an order lookup misses. The order
// service also returns it for orders the requester may not see, so callers
// cannot distinguish foreign orders from missing ones.
type OrderNotFoundError struct {
	OrderID string
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order with ID %s not found", e.OrderID)
}

// UserNotFoundError is returned when a user ID lookup misses.
type UserNotFoundError struct {
	UserID string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user with ID %s not found", e.UserID)
}

// AssignmentNotFoundError is returned when no assignment links the employee
// and customer.
type AssignmentNotFoundError struct {
	EmployeeID string
	CustomerID string
}

func (e *AssignmentNotFoundError) Error() string {
	return fmt.Sprintf("assignment between employee %s and customer %s not found", e.EmployeeID, e.CustomerID)
}

// InsufficientStockError is returned when a requested quantity exceeds the
// product's remaining stock. It carries the available stock observed under
// the row lock so callers can report it.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested: %d, available: %d)", e.Name, e.Requested, e.Available)
}
