package handlers

import (
	"log"

	"lapak/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for shopping carts.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app. A user_id
// query parameter lets staff address a customer's cart.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:productId", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)
	cartRoutes.Delete("/items", h.HandleClearCart)
}

// HandleGetCart returns the addressed cart, creating it on first access.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(requesterID(c), c.Query("user_id"))
	if err != nil {
		log.Printf("Error getting cart: %v", err)
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{
		"cart":  cart,
		"total": cart.Total(),
	})
}

// CartItemRequest is the request body for adding a product to a cart.
type CartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

// HandleAddItem puts a product in the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return renderValidationErrors(c, err)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.service.AddItem(requesterID(c), c.Query("user_id"), req.ProductID, req.Quantity)
	if err != nil {
		log.Printf("Error adding cart item: %v", err)
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{
		"cart":  cart,
		"total": cart.Total(),
	})
}

// CartQuantityRequest is the request body for changing a cart line quantity.
type CartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// HandleUpdateItem replaces the quantity of a cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req CartQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return renderValidationErrors(c, err)
	}

	cart, err := h.service.UpdateItemQuantity(requesterID(c), c.Query("user_id"), c.Params("productId"), req.Quantity)
	if err != nil {
		log.Printf("Error updating cart item: %v", err)
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{
		"cart":  cart,
		"total": cart.Total(),
	})
}

// HandleRemoveItem deletes a product line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, err := h.service.RemoveItem(requesterID(c), c.Query("user_id"), c.Params("productId"))
	if err != nil {
		log.Printf("Error removing cart item: %v", err)
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{
		"cart":  cart,
		"total": cart.Total(),
	})
}

// HandleClearCart deletes every item from the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(requesterID(c), c.Query("user_id")); err != nil {
		log.Printf("Error clearing cart: %v", err)
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared successfully",
	})
}
