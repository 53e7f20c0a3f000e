package services

import (
	"fmt"
	"log"

	"lapak/internal/models"
	"lapak/internal/repositories"

	"github.com/shopspring/decimal"
)

const (
	defaultPaymentDeadline = 7
	maxPaymentDeadline     = 30
)

// OrderEventPublisher publishes order lifecycle events. Satisfied by
// *rabbitmq.Client; nil disables publishing.
type OrderEventPublisher interface {
	PublishOrderEvent(eventType string, payload interface{}) error
}

// OrderService handles business logic related to orders, most importantly
// the order placement transaction.
type OrderService struct {
	orderRepo      repositories.OrderRepository
	productRepo    repositories.ProductRepository
	userRepo       repositories.UserRepository
	assignmentRepo repositories.AssignmentRepository
	cartRepo       repositories.CartRepository
	publisher      OrderEventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	assignmentRepo repositories.AssignmentRepository,
	cartRepo repositories.CartRepository,
	publisher OrderEventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
		cartRepo:       cartRepo,
		publisher:      publisher,
	}
}

// OrderLineInput is one requested product/quantity pair.
type OrderLineInput struct {
	ProductID string
	Quantity  int
}

// PlaceOrderInput carries everything needed to place an order.
type PlaceOrderInput struct {
	// TargetUserID names a customer to place the order for. Empty means the
	// requester buys for themselves; staff roles may set it after passing
	// the assignment check.
	TargetUserID    string
	ShippingAddress string
	PaymentDeadline int // days, 1-30; 0 picks the default
	Items           []OrderLineInput

	// Location fields, required when the requester is staff.
	LocationState       string
	LocationDisplayName string
	LocationLatitude    *decimal.Decimal
	LocationLongitude   *decimal.Decimal
}

// PlaceOrder validates the request, resolves the buyer, then runs the atomic
// placement transaction: lock product rows, re-check stock, snapshot prices,
// decrement stock, persist order and items, compute the total. On success
// the buyer's cart is cleared best-effort and an order.created event is
// published best-effort; neither failure rolls the order back.
func (s *OrderService) PlaceOrder(requesterID string, in PlaceOrderInput) (*models.Order, error) {
	requester, err := s.userRepo.GetByID(requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve requester: %w", err)
	}

	if len(in.Items) == 0 {
		return nil, &ValidationError{Field: "items", Message: "at least one item is required"}
	}
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return nil, &ValidationError{Field: "items", Message: "quantity must be at least 1"}
		}
	}
	if in.ShippingAddress == "" {
		return nil, &ValidationError{Field: "shipping_address", Message: "shipping address is required"}
	}

	deadline := in.PaymentDeadline
	if deadline == 0 {
		deadline = defaultPaymentDeadline
	}
	if deadline < 1 || deadline > maxPaymentDeadline {
		return nil, &ValidationError{
			Field:   "payment_deadline",
			Message: fmt.Sprintf("payment deadline must be between 1 and %d days", maxPaymentDeadline),
		}
	}

	if requester.IsStaff() {
		if in.LocationState == "" || in.LocationDisplayName == "" ||
			in.LocationLatitude == nil || in.LocationLongitude == nil {
			return nil, &ValidationError{
				Field:   "location",
				Message: "location fields are required for employees and managers",
			}
		}
	}

	buyer, err := s.resolveBuyer(requester, in.TargetUserID)
	if err != nil {
		return nil, err
	}

	// Pre-transaction product validation. The placement transaction
	// re-checks everything under row locks; this pass only rejects requests
	// that cannot possibly succeed.
	for _, line := range in.Items {
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, &ValidationError{
				Field:   "items",
				Message: fmt.Sprintf("product with id %s does not exist", line.ProductID),
			}
		}
		if !product.IsActive {
			return nil, &ValidationError{
				Field:   "items",
				Message: fmt.Sprintf("product %s is not active", product.Name),
			}
		}
	}

	order := &models.Order{
		UserID:              buyer.ID,
		ShippingAddress:     in.ShippingAddress,
		PaymentDeadline:     deadline,
		CreatedByRole:       requester.Role,
		LocationState:       in.LocationState,
		LocationDisplayName: in.LocationDisplayName,
		LocationLatitude:    in.LocationLatitude,
		LocationLongitude:   in.LocationLongitude,
	}
	for _, line := range in.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	if err := s.orderRepo.Place(order); err != nil {
		return nil, err
	}

	// Reload so the response carries items with product detail and the buyer,
	// not just the bare rows the transaction wrote. The order stands either
	// way; a failed reload only degrades the response.
	if placed, err := s.orderRepo.GetByID(order.ID); err != nil {
		log.Printf("Warning: failed to reload order %s after placement: %v", order.ID, err)
	} else {
		order = placed
	}

	// Best-effort cleanup: a failed cart clear must not undo a placed order.
	if err := s.cartRepo.Clear(buyer.ID); err != nil {
		log.Printf("Warning: failed to clear cart for user %s after order %s: %v", buyer.ID, order.ID, err)
	}

	s.publishEvent("order.created", order)

	return order, nil
}

// resolveBuyer returns the user the order is placed for, enforcing the
// target-user authorization rules.
func (s *OrderService) resolveBuyer(requester *models.User, targetUserID string) (*models.User, error) {
	if targetUserID == "" || targetUserID == requester.ID {
		return requester, nil
	}
	if !requester.IsStaff() {
		return nil, &PermissionError{Message: "only managers and employees can create orders for other users"}
	}

	target, err := s.userRepo.GetByID(targetUserID)
	if err != nil {
		return nil, &ValidationError{Field: "user_id", Message: "specified user does not exist"}
	}
	if target.Role != models.RoleCustomer {
		return nil, &ValidationError{Field: "user_id", Message: "can only create orders for customers"}
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

// ListOrders retrieves orders visible to the requester. Managers see every
// order; everyone else only their own.
func (s *OrderService) ListOrders(requesterID string, filter repositories.OrderFilter) ([]models.Order, error) {
	requester, err := s.userRepo.GetByID(requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve requester: %w", err)
	}
	if requester.Role != models.RoleManager {
		filter.UserID = requester.ID
	}
	return s.orderRepo.GetAll(filter)
}

// GetOrder retrieves a single order, scoped the same way as ListOrders.
func (s *OrderService) GetOrder(requesterID, orderID string) (*models.Order, error) {
	requester, err := s.userRepo.GetByID(requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve requester: %w", err)
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if requester.Role != models.RoleManager && order.UserID != requester.ID {
		// Do not reveal that the order exists.
		return nil, &repositories.OrderNotFoundError{OrderID: orderID}
	}
	return order, nil
}

// AcceptOrder moves a pending order to accepted. Manager only.
func (s *OrderService) AcceptOrder(requesterID, orderID string) (*models.Order, error) {
	return s.transition(requesterID, orderID, models.OrderStatusAccepted, "order.accepted")
}

// RejectOrder moves a pending order to rejected. Manager only.
func (s *OrderService) RejectOrder(requesterID, orderID string) (*models.Order, error) {
	return s.transition(requesterID, orderID, models.OrderStatusRejected, "order.rejected")
}

func (s *OrderService) transition(requesterID, orderID string, status models.OrderStatus, event string) (*models.Order, error) {
	requester, err := s.userRepo.GetByID(requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve requester: %w", err)
	}
	if requester.Role != models.RoleManager {
		return nil, &PermissionError{Message: "only managers can update order status"}
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("order is already %s", order.Status),
		}
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return nil, err
	}
	order.Status = status

	s.publishEvent(event, order)

	return order, nil
}

func (s *OrderService) publishEvent(eventType string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
		"total":    order.TotalAmount,
	}
	if err := s.publisher.PublishOrderEvent(eventType, payload); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", eventType, order.ID, err)
	}
}
