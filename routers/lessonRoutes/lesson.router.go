package lessonRoutes

import (
	lessonControllers "lingala/controllers/lesson"
	"lingala/middleware"
	lessonValidators "lingala/validators/lesson"

	"github.com/gofiber/fiber/v2"
)

// SetupLessonRoutes sets up lesson viewing and playback routes. Identity is
// optional here: free-preview lessons are playable anonymously.
func SetupLessonRoutes(app *fiber.App) {
	lessonGroup := app.Group("/lessons")

	lessonGroup.Get("/:id", middleware.OptionalJWTMiddleware, lessonValidators.LessonID(), lessonControllers.GetLesson)
	lessonGroup.Post("/:id/access-token", middleware.OptionalJWTMiddleware, lessonValidators.LessonID(), lessonControllers.IssuePlaybackToken)
}
