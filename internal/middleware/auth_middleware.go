package middleware

import (
	"strings"

	"go-retail-inventory/internal/repository"
	"go-retail-inventory/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   fiber.Map{"code": "UNAUTHORIZED", "message": message},
	})
}

func forbidden(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"success": false,
		"error":   fiber.Map{"code": "FORBIDDEN", "message": message},
	})
}

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Missing authorization token")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return unauthorized(c, "Invalid authorization format. Use: Bearer <token>")
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		// Check strict session against DB
		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return unauthorized(c, "User not found")
		}

		if user.TokenVersion != claims.TokenVersion {
			return unauthorized(c, "Session expired (logged in on another device)")
		}

		// Set user info in context for downstream handlers
		c.Locals("user_id", claims.UserID.String())
		c.Locals("user_email", claims.Email)
		c.Locals("user_name", claims.Name)
		c.Locals("user_privileges", claims.Privileges)

		return c.Next()
	}
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return forbidden(c, "No privileges found")
		}

		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return forbidden(c, "Forbidden: requires '"+requiredPrivilege+"' privilege")
	}
}

// RequireAnyPrivilege checks if the user has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return forbidden(c, "No privileges found")
		}

		for _, userPriv := range privileges {
			for _, reqPriv := range requiredPrivileges {
				if userPriv == reqPriv {
					return c.Next()
				}
			}
		}

		return forbidden(c, "Forbidden: requires one of "+strings.Join(requiredPrivileges, ", ")+" privileges")
	}
}
