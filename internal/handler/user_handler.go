package handler

import (
	"go-retail-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles user creation
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid JSON")
	}

	user, err := h.userService.CreateUser(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.StatusCreated, user.ToResponse())
}

// UpdateUserPrivileges handles privilege assignment
// PUT /api/v1/users/:id/privileges
func (h *UserHandler) UpdateUserPrivileges(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondBadRequest(c, "Invalid user ID")
	}

	var req struct {
		Privileges []string `json:"privileges"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid JSON")
	}

	user, err := h.userService.UpdateUserPrivileges(userID, req.Privileges, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.StatusOK, user.ToResponse())
}

// GetUsers returns all users
// GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, users)
}

// GetUser returns a single user by ID
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondBadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   fiber.Map{"code": "NOT_FOUND", "message": "User not found"},
		})
	}

	return respondData(c, fiber.StatusOK, user)
}

// UpdateUser handles user update
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondBadRequest(c, "Invalid user ID")
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid JSON")
	}

	user, err := h.userService.UpdateUser(userID, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.StatusOK, user.ToResponse())
}

// DeleteUser handles user deletion
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondBadRequest(c, "Invalid user ID")
	}

	if err := h.userService.DeleteUser(userID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
