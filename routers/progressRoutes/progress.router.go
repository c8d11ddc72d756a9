package progressRoutes

import (
	progressControllers "lingala/controllers/progress"
	"lingala/middleware"
	progressValidators "lingala/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// SetupProgressRoutes sets up the playback progress routes
func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress")

	progressGroup.Post("/", middleware.JWTMiddleware, progressValidators.RecordProgress(), progressControllers.RecordProgress)
	progressGroup.Get("/:lesson_id", middleware.JWTMiddleware, progressValidators.LessonIDParam(), progressControllers.GetProgress)
}
