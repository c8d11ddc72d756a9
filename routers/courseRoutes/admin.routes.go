package courseRoutes

import (
	controllers "lingala/controllers/course"
	"lingala/middleware"
	validators "lingala/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up the back-office course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	// Courses
	adminGroup.Get("/courses", controllers.AdminGetAllCourses)
	adminGroup.Post("/course", validators.CourseBody(), controllers.AdminCreateCourse)
	adminGroup.Put("/course/:id", validators.CourseID(), validators.CourseBody(), controllers.AdminUpdateCourse)
	adminGroup.Patch("/course/:id/publish", validators.CourseID(), controllers.AdminPublishCourse)
	adminGroup.Delete("/course/:id", validators.CourseID(), controllers.AdminDeleteCourse)

	// Modules
	adminGroup.Get("/course/:id/modules", validators.CourseID(), controllers.AdminListModules)
	adminGroup.Post("/course/:id/module", validators.CourseID(), validators.ModuleBody(), controllers.AdminCreateModule)
	adminGroup.Put("/module/:module_id", validators.ModuleID(), validators.ModuleBody(), controllers.AdminUpdateModule)
	adminGroup.Delete("/module/:module_id", validators.ModuleID(), controllers.AdminDeleteModule)

	// Lessons
	adminGroup.Post("/module/:module_id/lesson", validators.ModuleID(), validators.LessonBody(), controllers.AdminCreateLesson)
	adminGroup.Put("/lesson/:lesson_id", validators.LessonID(), validators.LessonBody(), controllers.AdminUpdateLesson)
	adminGroup.Patch("/lesson/:lesson_id/publish", validators.LessonID(), controllers.AdminPublishLesson)
	adminGroup.Delete("/lesson/:lesson_id", validators.LessonID(), controllers.AdminDeleteLesson)
	adminGroup.Post("/lesson/:lesson_id/video", validators.LessonID(), controllers.AdminAttachVideo)
}
