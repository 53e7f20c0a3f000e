package repositories

import (
	"lapak/internal/models"
)

// ProductStats summarizes stock levels across the active catalog.
type ProductStats struct {
	TotalProducts int64 `json:"total_products"`
	LowStock      int64 `json:"low_stock"`
	OutOfStock    int64 `json:"out_of_stock"`
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(includeInactive bool) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	// Deactivate retires a product from the catalog. Products are never hard
	// deleted so existing order items keep a valid reference.
	Deactivate(id string) error
	// AdjustStock atomically applies a stock delta under a row lock and
	// returns the updated product. The resulting stock must not go negative.
	AdjustStock(id string, delta int) (*models.Product, error)
	// LowStock lists active products whose stock is below the threshold,
	// lowest stock first.
	LowStock(threshold int) ([]models.Product, error)
	// Stats counts active products along with how many sit below the low
	// stock threshold and how many are out of stock entirely.
	Stats(lowStockThreshold int) (*ProductStats, error)
}
