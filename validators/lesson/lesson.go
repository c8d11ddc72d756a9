package lessonValidator

import (
	"strconv"
	"strings"

	"lingala/middleware"

	"github.com/gofiber/fiber/v2"
)

// LessonID validates the :id path parameter
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonIDStr := strings.TrimSpace(c.Params("id"))
		if lessonIDStr == "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "Lesson ID is required!")
		}

		lessonID, err := strconv.Atoi(lessonIDStr)
		if err != nil || lessonID <= 0 {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "Invalid Lesson ID!")
		}

		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}
