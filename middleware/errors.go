package middleware

import "github.com/gofiber/fiber/v2"

// Machine-readable error codes returned alongside the human message.
const (
	CodeAuthRequired           = "AUTH_REQUIRED"
	CodeNotEnrolled            = "NOT_ENROLLED"
	CodeNotFound               = "NOT_FOUND"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeInvalidLessonStructure = "INVALID_LESSON_STRUCTURE"
	CodeUpstreamUnavailable    = "UPSTREAM_UNAVAILABLE"
	CodeConflict               = "CONFLICT"
	CodeForbidden              = "FORBIDDEN"
)

// ErrorResponse sends the standard envelope with a machine-readable code so
// clients can switch on something sturdier than the message string.
func ErrorResponse(c *fiber.Ctx, statusCode int, code, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  false,
		"message": message,
		"code":    code,
		"data":    nil,
	})
}
