package handler

import (
	"errors"

	"go-retail-inventory/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// All endpoints answer with the same envelope: {success, data, error}.

func respondData(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func respondError(c *fiber.Ctx, err error) error {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		return c.Status(statusForCode(domainErr.Code)).JSON(fiber.Map{
			"success": false,
			"error":   domainErr,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   fiber.Map{"code": "INTERNAL_ERROR", "message": err.Error()},
	})
}

func respondBadRequest(c *fiber.Ctx, message string) error {
	return respondError(c, apperr.Validation("", message))
}

func statusForCode(code string) int {
	switch code {
	case apperr.CodeValidation, apperr.CodeNothingAccepted:
		return fiber.StatusBadRequest
	case apperr.CodeNotFound:
		return fiber.StatusNotFound
	case apperr.CodeInvalidState, apperr.CodeInsufficientStock:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// User info helpers reading the JWT context set by the auth middleware.

func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system" // Shouldn't happen on protected routes
	}
	return userID.(string)
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}
