package repositories

import "lapak/internal/models"

// CartRepository defines the interface for cart data access. Cart mutations
// are intentionally unlocked (last-write-wins); the authoritative stock check
// happens inside the order placement transaction.
type CartRepository interface {
	// GetOrCreateByUserID returns the user's cart, creating it on first access.
	GetOrCreateByUserID(userID string) (*models.Cart, error)
	// AddItem adds a product to the cart, merging quantities if the product
	// is already present.
	AddItem(cartID, productID string, quantity int) error
	UpdateItemQuantity(cartID, productID string, quantity int) error
	RemoveItem(cartID, productID string) error
	// Clear deletes all items from the user's cart. The cart row itself is
	// kept.
	Clear(userID string) error
}
