package services

import (
	"fmt"

	"lapak/internal/models"
	"lapak/internal/repositories"
)

// CartService handles business logic related to shopping carts.
type CartService struct {
	cartRepo       repositories.CartRepository
	productRepo    repositories.ProductRepository
	userRepo       repositories.UserRepository
	assignmentRepo repositories.AssignmentRepository
}

// NewCartService creates a new CartService.
func NewCartService(
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	assignmentRepo repositories.AssignmentRepository,
) *CartService {
	return &CartService{
		cartRepo:       cartRepo,
		productRepo:    productRepo,
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
	}
}

// resolveCartUser returns the user whose cart is addressed. Staff may address
// a customer's cart under the same rules as order placement.
func (s *CartService) resolveCartUser(requesterID, targetUserID string) (*models.User, error) {
	requester, err := s.userRepo.GetByID(requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve requester: %w", err)
	}
	if targetUserID == "" || targetUserID == requester.ID {
		return requester, nil
	}
	if !requester.IsStaff() {
		return nil, &PermissionError{Message: "you do not have permission to access this cart"}
	}

	target, err := s.userRepo.GetByID(targetUserID)
	if err != nil {
		return nil, &ValidationError{Field: "user_id", Message: "specified user does not exist"}
	}
	if target.Role != models.RoleCustomer {
		return nil, &ValidationError{Field: "user_id", Message: "can only access carts of customers"}
	}

	assigned := false
	if requester.Role == models.RoleEmployee {
		assigned, err = s.assignmentRepo.Exists(requester.ID, target.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check assignment: %w", err)
		}
	}
	if !CanPlaceOrderFor(requester, target, assigned) {
		return nil, &PermissionError{Message: fmt.Sprintf("customer %s is not assigned to you", target.Username)}
	}
	return target, nil
}

// GetCart returns the addressed user's cart, creating it on first access.
func (s *CartService) GetCart(requesterID, targetUserID string) (*models.Cart, error) {
	user, err := s.resolveCartUser(requesterID, targetUserID)
	if err != nil {
		return nil, err
	}
	return s.cartRepo.GetOrCreateByUserID(user.ID)
}

// AddItem puts a product in the cart, merging quantities if it is already
// there. The stock check here is advisory only; the authoritative check
// happens under row locks when the order is placed.
func (s *CartService) AddItem(requesterID, targetUserID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, &ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	}
	user, err := s.resolveCartUser(requesterID, targetUserID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, &ValidationError{Field: "product_id", Message: "specified product does not exist"}
	}
	if !product.IsActive {
		return nil, &ValidationError{Field: "product_id", Message: fmt.Sprintf("product %s is not active", product.Name)}
	}

	cart, err := s.cartRepo.GetOrCreateByUserID(user.ID)
	if err != nil {
		return nil, err
	}

	requested := quantity
	for _, item := range cart.Items {
		if item.ProductID == productID {
			requested += item.Quantity
		}
	}
	if requested > product.Stock {
		return nil, &ValidationError{
			Field:   "quantity",
			Message: fmt.Sprintf("not enough stock for %s. Available: %d", product.Name, product.Stock),
		}
	}

	if err := s.cartRepo.AddItem(cart.ID, productID, quantity); err != nil {
		return nil, err
	}
	return s.cartRepo.GetOrCreateByUserID(user.ID)
}

// UpdateItemQuantity replaces the quantity of a product already in the cart.
func (s *CartService) UpdateItemQuantity(requesterID, targetUserID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, &ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	}
	user, err := s.resolveCartUser(requesterID, targetUserID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, &ValidationError{Field: "product_id", Message: "specified product does not exist"}
	}
	if quantity > product.Stock {
		return nil, &ValidationError{
			Field:   "quantity",
			Message: fmt.Sprintf("not enough stock for %s. Available: %d", product.Name, product.Stock),
		}
	}

	cart, err := s.cartRepo.GetOrCreateByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.UpdateItemQuantity(cart.ID, productID, quantity); err != nil {
		return nil, &ValidationError{Field: "product_id", Message: err.Error()}
	}
	return s.cartRepo.GetOrCreateByUserID(user.ID)
}

// RemoveItem deletes a product line from the cart.
func (s *CartService) RemoveItem(requesterID, targetUserID, productID string) (*models.Cart, error) {
	user, err := s.resolveCartUser(requesterID, targetUserID)
	if err != nil {
		return nil, err
	}
	cart, err := s.cartRepo.GetOrCreateByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.RemoveItem(cart.ID, productID); err != nil {
		return nil, &ValidationError{Field: "product_id", Message: err.Error()}
	}
	return s.cartRepo.GetOrCreateByUserID(user.ID)
}

// ClearCart deletes every item from the addressed user's cart.
func (s *CartService) ClearCart(requesterID, targetUserID string) error {
	user, err := s.resolveCartUser(requesterID, targetUserID)
	if err != nil {
		return err
	}
	return s.cartRepo.Clear(user.ID)
}
