package handlers

import (
	"log"

	"lapak/internal/middleware"
	"lapak/internal/models"
	"lapak/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	// Literal paths must come before the :id wildcard.
	productRoutes.Get("/low_stock", middleware.RoleRequired(models.RoleManager), h.HandleLowStockProducts)
	productRoutes.Get("/stats", middleware.RoleRequired(models.RoleManager, models.RoleEmployee), h.HandleProductStats)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", middleware.RoleRequired(models.RoleManager), h.HandleCreateProduct)
	productRoutes.Put("/:id", middleware.RoleRequired(models.RoleManager), h.HandleUpdateProduct)
	// Delete retires the product instead of removing the row.
	productRoutes.Delete("/:id", middleware.RoleRequired(models.RoleManager), h.HandleDeactivateProduct)
	productRoutes.Patch("/:id/stock", middleware.RoleRequired(models.RoleManager, models.RoleEmployee), h.HandleAdjustStock)
}

// ProductRequest is the request body for creating or updating a product.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required,min=3,max=200"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
	IsActive    *bool           `json:"is_active"`
}

// HandleGetProducts retrieves the catalog. Staff see inactive products too.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	role := models.Role(requesterRole(c))
	includeInactive := role == models.RoleManager || role == models.RoleEmployee

	products, err := h.service.GetAllProducts(includeInactive)
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return renderError(c, err)
	}
	return c.JSON(products)
}

// HandleLowStockProducts lists active products that need restocking.
func (h *ProductHandler) HandleLowStockProducts(c *fiber.Ctx) error {
	products, err := h.service.LowStockProducts()
	if err != nil {
		log.Printf("Error getting low stock products: %v", err)
		return renderError(c, err)
	}
	return c.JSON(products)
}

// HandleProductStats summarizes stock levels across the active catalog.
func (h *ProductHandler) HandleProductStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats()
	if err != nil {
		log.Printf("Error getting product stats: %v", err)
		return renderError(c, err)
	}
	return c.JSON(stats)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return renderValidationErrors(c, err)
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}
	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return renderValidationErrors(c, err)
	}

	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": err.Error(),
		})
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock
	product.ImageURL = req.ImageURL
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.service.UpdateProduct(product); err != nil {
		log.Printf("Error updating product %s: %v", product.ID, err)
		return renderError(c, err)
	}
	return c.JSON(product)
}

// HandleDeactivateProduct retires a product from the catalog.
func (h *ProductHandler) HandleDeactivateProduct(c *fiber.Ctx) error {
	if err := h.service.DeactivateProduct(c.Params("id")); err != nil {
		log.Printf("Error deactivating product %s: %v", c.Params("id"), err)
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deactivated successfully",
	})
}

// StockAdjustmentRequest is the request body for adjusting product stock.
type StockAdjustmentRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// HandleAdjustStock applies a stock delta to a product.
func (h *ProductHandler) HandleAdjustStock(c *fiber.Ctx) error {
	var req StockAdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return renderValidationErrors(c, err)
	}

	product, err := h.service.AdjustStock(c.Params("id"), req.Delta)
	if err != nil {
		log.Printf("Error adjusting stock for product %s: %v", c.Params("id"), err)
		return renderError(c, err)
	}
	return c.JSON(product)
}
