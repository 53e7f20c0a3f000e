package handlers

import (
	"log"

	"lapak/internal/middleware"
	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for the user directory and
// employee-customer assignments.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/me", h.HandleMe)
	userRoutes.Get("/stats", middleware.RoleRequired(models.RoleManager), h.HandleStats)
	userRoutes.Get("/", middleware.RoleRequired(models.RoleManager, models.RoleEmployee), h.HandleListUsers)
	userRoutes.Patch("/:id/status", middleware.RoleRequired(models.RoleManager), h.HandleUpdateStatus)
	userRoutes.Patch("/:id/role", middleware.RoleRequired(models.RoleManager), h.HandleUpdateRole)

	assignmentRoutes := router.Group("/assignments")
	assignmentRoutes.Get("/", middleware.RoleRequired(models.RoleManager, models.RoleEmployee), h.HandleListAssignments)
	assignmentRoutes.Post("/", middleware.RoleRequired(models.RoleManager), h.HandleAssignCustomer)
	assignmentRoutes.Delete("/", middleware.RoleRequired(models.RoleManager), h.HandleUnassignCustomer)
}

// HandleMe returns the authenticated user.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.service.GetUser(requesterID(c))
	if err != nil {
		log.Printf("Error getting current user: %v", err)
		return renderError(c, err)
	}
	return c.JSON(user)
}

// HandleListUsers lists users, optionally filtered by role and status.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	filter := repositories.UserFilter{
		Role:   models.Role(c.Query("role")),
		Status: models.UserStatus(c.Query("status")),
	}
	users, err := h.service.ListUsers(requesterID(c), filter)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return renderError(c, err)
	}
	return c.JSON(users)
}

// StatusUpdateRequest is the request body for changing an account status.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateStatus sets a user's account status.
func (h *UserHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return renderValidationErrors(c, err)
	}

	user, err := h.service.UpdateUserStatus(requesterID(c), c.Params("id"), models.UserStatus(req.Status))
	if err != nil {
		log.Printf("Error updating status for user %s: %v", c.Params("id"), err)
		return renderError(c, err)
	}
	return c.JSON(user)
}

// RoleUpdateRequest is the request body for changing a user's role.
type RoleUpdateRequest struct {
	Role string `json:"role" validate:"required"`
}

// HandleUpdateRole sets a user's role.
func (h *UserHandler) HandleUpdateRole(c *fiber.Ctx) error {
	var req RoleUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return renderValidationErrors(c, err)
	}

	user, err := h.service.UpdateUserRole(requesterID(c), c.Params("id"), models.Role(req.Role))
	if err != nil {
		log.Printf("Error updating role for user %s: %v", c.Params("id"), err)
		return renderError(c, err)
	}
	return c.JSON(user)
}

// HandleStats returns user directory statistics.
func (h *UserHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(requesterID(c))
	if err != nil {
		log.Printf("Error getting user stats: %v", err)
		return renderError(c, err)
	}
	return c.JSON(stats)
}

// AssignmentRequest is the request body for creating or deleting an
// employee-customer assignment.
type AssignmentRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	CustomerID string `json:"customer_id" validate:"required"`
}

// HandleAssignCustomer links a customer to an employee.
func (h *UserHandler) HandleAssignCustomer(c *fiber.Ctx) error {
	var req AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return renderValidationErrors(c, err)
	}

	assignment, err := h.service.AssignCustomer(requesterID(c), req.EmployeeID, req.CustomerID)
	if err != nil {
		log.Printf("Error assigning customer %s to employee %s: %v", req.CustomerID, req.EmployeeID, err)
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(assignment)
}

// HandleUnassignCustomer removes an employee-customer link.
func (h *UserHandler) HandleUnassignCustomer(c *fiber.Ctx) error {
	var req AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return renderValidationErrors(c, err)
	}

	if err := h.service.UnassignCustomer(requesterID(c), req.EmployeeID, req.CustomerID); err != nil {
		log.Printf("Error unassigning customer %s from employee %s: %v", req.CustomerID, req.EmployeeID, err)
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Assignment removed successfully",
	})
}

// HandleListAssignments lists assignments visible to the requester.
func (h *UserHandler) HandleListAssignments(c *fiber.Ctx) error {
	assignments, err := h.service.ListAssignments(requesterID(c), c.Query("employee_id"))
	if err != nil {
		log.Printf("Error listing assignments: %v", err)
		return renderError(c, err)
	}
	return c.JSON(assignments)
}
