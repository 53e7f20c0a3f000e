package handlers

import (
	"log"
	"time"

	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Post("/:id/accept", h.HandleAcceptOrder)
	orderRoutes.Post("/:id/reject", h.HandleRejectOrder)
}

// OrderItemRequest is one requested product/quantity pair.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest is the request body for placing an order.
type CreateOrderRequest struct {
	ShippingAddress string             `json:"shipping_address" validate:"required"`
	PaymentDeadline int                `json:"payment_deadline" validate:"omitempty,min=1,max=30"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	// UserID lets staff place the order for a customer.
	UserID string `json:"user_id"`

	LocationState       string           `json:"location_state"`
	LocationDisplayName string           `json:"location_display_name"`
	LocationLatitude    *decimal.Decimal `json:"location_latitude"`
	LocationLongitude   *decimal.Decimal `json:"location_longitude"`
}

// orderResponse wraps an order with its derived payment countdown.
func orderResponse(order *models.Order) fiber.Map {
	return fiber.Map{
		"order":          order,
		"days_remaining": order.DaysRemaining(time.Now()),
	}
}

// HandleCreateOrder places a new order. The heavy lifting (row locks, stock
// re-check, price snapshots, total computation) happens in the placement
// transaction; this handler only parses and maps errors.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return renderValidationErrors(c, err)
	}

	in := services.PlaceOrderInput{
		TargetUserID:        req.UserID,
		ShippingAddress:     req.ShippingAddress,
		PaymentDeadline:     req.PaymentDeadline,
		LocationState:       req.LocationState,
		LocationDisplayName: req.LocationDisplayName,
		LocationLatitude:    req.LocationLatitude,
		LocationLongitude:   req.LocationLongitude,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, services.OrderLineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.service.PlaceOrder(requesterID(c), in)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(orderResponse(order))
}

// HandleGetOrders retrieves orders visible to the requester, optionally
// filtered by status and creation date range.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	filter := repositories.OrderFilter{
		Status: models.OrderStatus(c.Query("status")),
	}
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  map[string]string{"start_date": "must be an RFC3339 timestamp"},
			})
		}
		filter.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  map[string]string{"end_date": "must be an RFC3339 timestamp"},
			})
		}
		filter.EndDate = &t
	}

	orders, err := h.service.ListOrders(requesterID(c), filter)
	if err != nil {
		log.Printf("Error getting orders: %v", err)
		return renderError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(requesterID(c), c.Params("id"))
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", c.Params("id"), err)
		return renderError(c, err)
	}
	return c.JSON(orderResponse(order))
}

// HandleAcceptOrder moves a pending order to accepted. Manager only.
func (h *OrderHandler) HandleAcceptOrder(c *fiber.Ctx) error {
	order, err := h.service.AcceptOrder(requesterID(c), c.Params("id"))
	if err != nil {
		log.Printf("Error accepting order %s: %v", c.Params("id"), err)
		return renderError(c, err)
	}
	return c.JSON(orderResponse(order))
}

// HandleRejectOrder moves a pending order to rejected. Manager only.
func (h *OrderHandler) HandleRejectOrder(c *fiber.Ctx) error {
	order, err := h.service.RejectOrder(requesterID(c), c.Params("id"))
	if err != nil {
		log.Printf("Error rejecting order %s: %v", c.Params("id"), err)
		return renderError(c, err)
	}
	return c.JSON(orderResponse(order))
}
