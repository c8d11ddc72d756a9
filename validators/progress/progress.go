package progressValidator

import (
	"strconv"
	"strings"

	progressController "lingala/controllers/progress"
	"lingala/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// RecordProgress validates a position tick body before it reaches the handler
func RecordProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(progressController.ProgressRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "Invalid request body!")
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "LessonID":
					errors["lesson_id"] = "Lesson ID is required!"
				case "CurrentTime":
					errors["current_time"] = "Current time must not be negative!"
				case "Duration":
					errors["duration"] = "Duration must not be negative!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}

// LessonIDParam validates the :lesson_id path parameter
func LessonIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonIDStr := strings.TrimSpace(c.Params("lesson_id"))
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

// CourseIDParam validates the :course_id path parameter
func CourseIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("course_id"))
		if courseIDStr == "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "Course ID is required!")
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "Invalid Course ID!")
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
