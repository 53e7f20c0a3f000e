package repositories

import (
	"fmt"
	"sync"

	"lapak/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts map[string]models.Cart // keyed by user ID
	mu    sync.Mutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]models.Cart),
	}
}

// GetOrCreateByUserID returns the user's cart, creating it on first access.
func (r *MockCartRepository) GetOrCreateByUserID(userID string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		cart = models.Cart{ID: uuid.New().String(), UserID: userID}
		r.carts[userID] = cart
	}
	return &cart, nil
}

// AddItem adds a product to the cart, merging quantities when present.
func (r *MockCartRepository) AddItem(cartID, productID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, cart := range r.carts {
		if cart.ID != cartID {
			continue
		}
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Quantity += quantity
				r.carts[userID] = cart
				return nil
			}
		}
		cart.Items = append(cart.Items, models.CartItem{
			ID:        uuid.New().String(),
			CartID:    cartID,
			ProductID: productID,
			Quantity:  quantity,
		})
		r.carts[userID] = cart
		return nil
	}
	return fmt.Errorf("cart with ID %s not found", cartID)
}

// UpdateItemQuantity replaces the quantity of a cart line.
func (r *MockCartRepository) UpdateItemQuantity(cartID, productID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, cart := range r.carts {
		if cart.ID != cartID {
			continue
		}
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Quantity = quantity
				r.carts[userID] = cart
				return nil
			}
		}
		return fmt.Errorf("product %s not found in cart", productID)
	}
	return fmt.Errorf("cart with ID %s not found", cartID)
}

// RemoveItem deletes a product line from the cart.
func (r *MockCartRepository) RemoveItem(cartID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, cart := range r.carts {
		if cart.ID != cartID {
			continue
		}
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				r.carts[userID] = cart
				return nil
			}
		}
		return fmt.Errorf("product %s not found in cart", productID)
	}
	return fmt.Errorf("cart with ID %s not found", cartID)
}

// Clear deletes all items in the user's cart, keeping the cart itself.
func (r *MockCartRepository) Clear(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil // nothing to clear
	}
	cart.Items = nil
	r.carts[userID] = cart
	return nil
}
