package services

import (
	"lapak/internal/models"
	"lapak/internal/repositories"
)

// lowStockThreshold is the stock level below which a product shows up on the
// restock dashboard.
const lowStockThreshold = 10

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves the catalog. Staff see retired products too.
func (s *ProductService) GetAllProducts(includeInactive bool) ([]models.Product, error) {
	return s.repo.GetAll(includeInactive)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if product.Price.IsNegative() {
		return &ValidationError{Field: "price", Message: "price must not be negative"}
	}
	if product.Stock < 0 {
		return &ValidationError{Field: "stock", Message: "stock must not be negative"}
	}
	product.IsActive = true
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if product.Price.IsNegative() {
		return &ValidationError{Field: "price", Message: "price must not be negative"}
	}
	if product.Stock < 0 {
		return &ValidationError{Field: "stock", Message: "stock must not be negative"}
	}
	return s.repo.Update(product)
}

// DeactivateProduct retires a product from the catalog. Products are never
// hard deleted.
func (s *ProductService) DeactivateProduct(id string) error {
	return s.repo.Deactivate(id)
}

// AdjustStock applies a stock delta under the product row lock.
func (s *ProductService) AdjustStock(id string, delta int) (*models.Product, error) {
	if delta == 0 {
		return nil, &ValidationError{Field: "delta", Message: "delta must not be zero"}
	}
	return s.repo.AdjustStock(id, delta)
}

// LowStockProducts lists active products that need restocking.
func (s *ProductService) LowStockProducts() ([]models.Product, error) {
	return s.repo.LowStock(lowStockThreshold)
}

// Stats summarizes stock levels across the active catalog.
func (s *ProductService) Stats() (*repositories.ProductStats, error) {
	return s.repo.Stats(lowStockThreshold)
}
