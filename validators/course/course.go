package courseValidator

import (
	"strconv"
	"strings"

	"lingala/middleware"

	"github.com/gofiber/fiber/v2"
)

// idParam validates a positive integer path parameter and stores it in locals
func idParam(param, localsKey, label string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params(param))
		if idStr == "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, label+" is required!")
		}

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "Invalid "+label+"!")
		}

		c.Locals(localsKey, id)
		return c.Next()
	}
}

func CourseID() fiber.Handler {
	return idParam("id", "courseID", "Course ID")
}

func ModuleID() fiber.Handler {
	return idParam("module_id", "moduleID", "Module ID")
}

func LessonID() fiber.Handler {
	return idParam("lesson_id", "lessonID", "Lesson ID")
}

// CourseList validates optional pagination query parameters
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "Invalid query parameters!")
		}

		errors := make(map[string]string)

		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit != nil && (*reqData.Limit < 1 || *reqData.Limit > 100) {
			errors["limit"] = "Limit must be between 1 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}
