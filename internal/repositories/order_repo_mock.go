package repositories

import (
	"sync"
	"time"

	"lapak/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// Place takes a single mutex for its whole body, which stands in for the
// database row locks: concurrent placements serialize exactly as they would
// on FOR UPDATE locks.
type MockOrderRepository struct {
	orders   map[string]models.Order
	products *MockProductRepository
	mu       sync.Mutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository backed
// by the given product store.
func NewMockOrderRepository(products *MockProductRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[string]models.Order),
		products: products,
	}
}

// GetAll returns orders matching the filter.
func (r *MockOrderRepository) GetAll(filter OrderFilter) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if filter.UserID != "" && order.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.StartDate != nil && order.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && order.CreatedAt.After(*filter.EndDate) {
			continue
		}
		orderList = append(orderList, order)
	}
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, &OrderNotFoundError{OrderID: id}
	}
	return &order, nil
}

// Place validates every line against the product store, then applies the
// stock decrements and records the order. Validation and application happen
// under one mutex hold, so the operation is all-or-nothing with respect to
// concurrent placements.
func (r *MockOrderRepository) Place(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Validation pass: every line must be satisfiable before anything is
	// mutated.
	for i := range order.Items {
		item := &order.Items[i]
		product, err := r.products.GetByID(item.ProductID)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return &ProductInactiveError{ProductID: product.ID, Name: product.Name}
		}
		if product.Stock < item.Quantity {
			return &InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Requested: item.Quantity,
				Available: product.Stock,
			}
		}
	}

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.Status = models.OrderStatusPending

	for i := range order.Items {
		item := &order.Items[i]
		product, err := r.products.AdjustStock(item.ProductID, -item.Quantity)
		if err != nil {
			return err
		}
		item.ID = uuid.New().String()
		item.OrderID = order.ID
		item.Price = product.Price
		item.Product = product // mirrors the preloaded read-back
	}

	order.TotalAmount = models.ComputeTotal(order.Items)
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return &OrderNotFoundError{OrderID: id}
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}
