package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart is a user's shopping cart. Exactly one cart exists per user; it is
// created lazily on first access and cleared, not deleted, when an order is
// placed from it.
type Cart struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string     `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	Items      []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	gorm.Model            // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Total sums the carried products' current catalog prices. This is a display
// figure only; the authoritative total is computed by the order placement
// transaction from snapshot prices.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		if item.Product != nil {
			total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}
	return total
}

// CartItem references a product with a quantity. A product appears at most
// once per cart.
type CartItem struct {
	ID         string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID     string   `json:"cart_id" gorm:"uniqueIndex:idx_cart_product;type:varchar(36)"`
	ProductID  string   `json:"product_id" gorm:"uniqueIndex:idx_cart_product;type:varchar(36)"`
	Product    *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity   int      `json:"quantity" validate:"gte=1"`
	gorm.Model
}
