package repositories

import (
	"time"

	"lapak/internal/models"
)

// OrderFilter narrows GetAll results. Zero values mean "any".
type OrderFilter struct {
	UserID    string // restrict to one buyer; empty means all users
	Status    models.OrderStatus
	StartDate *time.Time
	EndDate   *time.Time
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll(filter OrderFilter) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	// Place atomically persists the order and its items. The caller provides
	// items carrying only product ID and quantity; Place locks each product
	// row, re-checks stock, snapshots the current catalog price onto the
	// item, decrements stock and computes the order total. Either every
	// write commits or none do.
	Place(order *models.Order) error
	UpdateStatus(id string, status models.OrderStatus) error
}
