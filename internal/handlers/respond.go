package handlers

import (
	"errors"
	"fmt"

	"lapak/internal/repositories"
	"lapak/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// renderError maps service and repository errors onto HTTP responses:
// validation problems become 400s with a field-keyed error map, permission
// problems 403s, missing records 404s, everything else a 500.
func renderError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  map[string]string{vErr.Field: vErr.Message},
		})
	}

	var pErr *services.PermissionError
	if errors.As(err, &pErr) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"detail": pErr.Message,
		})
	}

	var stockErr *repositories.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  map[string]string{"items": stockErr.Error()},
		})
	}

	var inactiveErr *repositories.ProductInactiveError
	if errors.As(err, &inactiveErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  map[string]string{"items": err.Error()},
		})
	}

	if isNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
		"error":   err.Error(),
	})
}

// isNotFound reports whether err is one of the repository not-found types.
func isNotFound(err error) bool {
	var productErr *repositories.ProductNotFoundError
	var orderErr *repositories.OrderNotFoundError
	var userErr *repositories.UserNotFoundError
	var assignmentErr *repositories.AssignmentNotFoundError
	return errors.As(err, &productErr) ||
		errors.As(err, &orderErr) ||
		errors.As(err, &userErr) ||
		errors.As(err, &assignmentErr)
}

// renderValidationErrors turns validator tag failures into the field-keyed
// 400 map the API uses everywhere.
func renderValidationErrors(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// requesterID returns the authenticated user's ID stored by the auth
// middleware.
func requesterID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// requesterRole returns the authenticated user's role claim.
func requesterRole(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}
