package middleware

import (
	"lingala/database"
	"lingala/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequireRole returns a middleware that loads the authenticated user and
// rejects the request unless their role matches. Runs after JWTMiddleware.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return ErrorResponse(c, fiber.StatusUnauthorized, CodeAuthRequired, "Unauthorized!")
		}

		var user models.User
		err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrorResponse(c, fiber.StatusUnauthorized, CodeAuthRequired, "User not found!")
			}
			return ErrorResponse(c, fiber.StatusInternalServerError, CodeUpstreamUnavailable, "Server error while checking role!")
		}

		if user.Role != role {
			return ErrorResponse(c, fiber.StatusForbidden, CodeForbidden, "You do not have permission to access this resource!")
		}

		c.Locals("userRole", user.Role)
		return c.Next()
	}
}
