package courseRoutes

import (
	controllers "lingala/controllers/course"
	progressControllers "lingala/controllers/progress"
	"lingala/middleware"
	validators "lingala/validators/course"
	progressValidators "lingala/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog (public; identity optional for access-aware lesson gating)
	courseGroup.Get("/list", validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.OptionalJWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)

	// Per-course progress dashboard
	courseGroup.Get("/:course_id/progress", middleware.JWTMiddleware, progressValidators.CourseIDParam(), progressControllers.GetCourseProgress)

	// User enrollments
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetEnrollments)
}
