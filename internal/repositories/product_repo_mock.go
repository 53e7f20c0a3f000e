package repositories

import (
	"sort"
	"sync"

	"lapak/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products, filtered to active ones unless asked otherwise.
func (r *MockProductRepository) GetAll(includeInactive bool) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if !includeInactive && !p.IsActive {
			continue
		}
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, &ProductNotFoundError{ProductID: id}
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return &ProductNotFoundError{ProductID: product.ID}
	}
	r.products[product.ID] = *product
	return nil
}

// Deactivate marks a product inactive.
func (r *MockProductRepository) Deactivate(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return &ProductNotFoundError{ProductID: id}
	}
	product.IsActive = false
	r.products[id] = product
	return nil
}

// AdjustStock applies a stock delta, refusing to let stock go negative.
func (r *MockProductRepository) AdjustStock(id string, delta int) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, &ProductNotFoundError{ProductID: id}
	}
	if product.Stock+delta < 0 {
		return nil, &InsufficientStockError{
			ProductID: product.ID,
			Name:      product.Name,
			Requested: -delta,
			Available: product.Stock,
		}
	}
	product.Stock += delta
	r.products[id] = product
	return &product, nil
}

// LowStock lists active products below the threshold, lowest stock first.
func (r *MockProductRepository) LowStock(threshold int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var productList []models.Product
	for _, p := range r.products {
		if p.IsActive && p.Stock < threshold {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].Stock < productList[j].Stock
	})
	return productList, nil
}

// Stats counts the active catalog by stock level.
func (r *MockProductRepository) Stats(lowStockThreshold int) (*ProductStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &ProductStats{}
	for _, p := range r.products {
		if !p.IsActive {
			continue
		}
		stats.TotalProducts++
		if p.Stock < lowStockThreshold {
			stats.LowStock++
		}
		if p.Stock == 0 {
			stats.OutOfStock++
		}
	}
	return stats, nil
}
