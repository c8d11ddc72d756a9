package courseController

import (
	"strings"
	"time"

	"lingala/database"
	"lingala/middleware"
	"lingala/models"
	courseModels "lingala/models/course"
	"lingala/utils"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse records a one-time course purchase for the caller. The
// Stripe webhook is the normal path; this endpoint covers free courses and
// manual self-enrollment during beta.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeAuthRequired, "Unauthorized!")
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeAuthRequired, "User not found!")
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found or not published!")
	}

	if course.PriceCents > 0 {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, middleware.CodeForbidden, "This course requires purchase!")
	}

	enrollment := courseModels.Enrollment{
		UserID:     userID,
		CourseID:   uint(courseID),
		EnrolledAt: time.Now(),
		Source:     "PURCHASE",
	}

	// The unique (user_id, course_id) index rejects double enrollment.
	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		if isUniqueViolation(err) {
			return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "User already enrolled in this course!")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to enroll in course!")
	}

	go utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// GetEnrollments lists the caller's enrollments with course details
func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeAuthRequired, "Unauthorized!")
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Preload("Course").Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to fetch enrollments!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}

// isUniqueViolation matches duplicate-key errors from postgres (SQLSTATE
// 23505) and sqlite (UNIQUE constraint failed) without driver imports.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint failed")
}
