package repositories

import (
	"errors"
	"fmt"
	"lapak/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves products from the database, newest first. Inactive
// products are included only when requested (staff catalog views).
func (r *GORMProductRepository) GetAll(includeInactive bool) ([]models.Product, error) {
	var products []models.Product
	query := r.db.Order("created_at DESC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductNotFoundError{ProductID: id}
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// GORM's Save doesn't return ErrRecordNotFound if no rows affected
		// for an update, so we check RowsAffected.
		return &ProductNotFoundError{ProductID: product.ID}
	}
	return nil
}

// Deactivate marks a product inactive instead of deleting it.
func (r *GORMProductRepository) Deactivate(id string) error {
	res := r.db.Model(&models.Product{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return &ProductNotFoundError{ProductID: id}
	}
	return nil
}

// AdjustStock applies a stock delta under a FOR UPDATE row lock so that
// concurrent adjustments and order placements serialize on the same row.
func (r *GORMProductRepository) AdjustStock(id string, delta int) (*models.Product, error) {
	var product models.Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ProductNotFoundError{ProductID: id}
			}
			return fmt.Errorf("failed to lock product %s: %w", id, err)
		}
		if product.Stock+delta < 0 {
			return &InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Requested: -delta,
				Available: product.Stock,
			}
		}
		product.Stock += delta
		if err := tx.Save(&product).Error; err != nil {
			return fmt.Errorf("failed to adjust stock for product %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// LowStock lists active products running short, lowest stock first.
func (r *GORMProductRepository) LowStock(threshold int) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("is_active = ? AND stock < ?", true, threshold).
		Order("stock ASC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get low stock products: %w", err)
	}
	return products, nil
}

// Stats counts the active catalog by stock level.
func (r *GORMProductRepository) Stats(lowStockThreshold int) (*ProductStats, error) {
	var stats ProductStats
	active := func() *gorm.DB {
		return r.db.Model(&models.Product{}).Where("is_active = ?", true)
	}
	if err := active().Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := active().Where("stock < ?", lowStockThreshold).
		Count(&stats.LowStock).Error; err != nil {
		return nil, fmt.Errorf("failed to count low stock products: %w", err)
	}
	if err := active().Where("stock = ?", 0).
		Count(&stats.OutOfStock).Error; err != nil {
		return nil, fmt.Errorf("failed to count out of stock products: %w", err)
	}
	return &stats, nil
}
