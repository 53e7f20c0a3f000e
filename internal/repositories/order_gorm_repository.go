package repositories

import (
	"errors"
	"fmt"
	"sort"

	"lapak/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves orders matching the filter, newest first, with items,
// product details and the buyer preloaded.
func (r *GORMOrderRepository) GetAll(filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.Preload("Items.Product").Preload("User").Order("created_at DESC")
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order with items and buyer preloaded.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items.Product").Preload("User").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &OrderNotFoundError{OrderID: id}
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Place persists the order, its items and the stock decrements as a single
// database transaction.
//
// Each product row is locked FOR UPDATE before its stock is re-checked, so a
// concurrent placement for the same product either blocks until this
// transaction commits or observes the decremented stock. Without the lock
// two checkouts could both read stale stock and oversell.
func (r *GORMOrderRepository) Place(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.Status = models.OrderStatusPending
	order.TotalAmount = decimal.Zero

	// Lock products in a stable order so two multi-line placements cannot
	// deadlock against each other.
	sort.Slice(order.Items, func(i, j int) bool {
		return order.Items[i].ProductID < order.Items[j].ProductID
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range order.Items {
			item := &order.Items[i]

			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ProductNotFoundError{ProductID: item.ProductID}
				}
				return fmt.Errorf("failed to lock product %s: %w", item.ProductID, err)
			}
			if !product.IsActive {
				return &ProductInactiveError{ProductID: product.ID, Name: product.Name}
			}
			// Re-check under the lock; pre-transaction validation may have
			// seen stock that a concurrent order has since consumed.
			if product.Stock < item.Quantity {
				return &InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Requested: item.Quantity,
					Available: product.Stock,
				}
			}

			product.Stock -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return fmt.Errorf("failed to decrement stock for product %s: %w", product.ID, err)
			}

			item.ID = uuid.New().String()
			item.OrderID = order.ID
			item.Price = product.Price // snapshot the current catalog price
			item.Product = nil
			if err := tx.Create(item).Error; err != nil {
				return fmt.Errorf("failed to create order item for product %s: %w", product.ID, err)
			}
		}

		order.TotalAmount = models.ComputeTotal(order.Items)
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("total_amount", order.TotalAmount).Error; err != nil {
			return fmt.Errorf("failed to set order total: %w", err)
		}
		return nil
	})
}

// UpdateStatus updates the status of an order.
func (r *GORMOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return &OrderNotFoundError{OrderID: id}
	}
	return nil
}
