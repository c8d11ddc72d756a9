package progressController

import (
	"math"
	"time"

	"lingala/database"
	"lingala/middleware"
	courseModels "lingala/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CourseStats summarizes one user's completion across a course.
type CourseStats struct {
	Completed  int64 `json:"completed"`
	Total      int64 `json:"total"`
	Percentage int   `json:"percentage"`
}

// CourseProgressStats counts a user's completed lessons against the course's
// published lesson set. Pure read-side computation, recomputed per call.
func CourseProgressStats(db *gorm.DB, userID, courseID uint) (CourseStats, error) {
	var stats CourseStats

	err := db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Count(&stats.Total).Error
	if err != nil {
		return stats, err
	}

	err = db.Model(&courseModels.LessonProgress{}).
		Joins("JOIN lessons ON user_progress.lesson_id = lessons.id").
		Where("user_progress.user_id = ? AND user_progress.is_completed = ?", userID, true).
		Where("lessons.course_id = ? AND lessons.is_deleted = ? AND lessons.is_published = ?", courseID, false, true).
		Count(&stats.Completed).Error
	if err != nil {
		return stats, err
	}

	if stats.Total > 0 {
		stats.Percentage = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}

	return stats, nil
}

// GetCourseProgress returns the caller's summary stats for a course plus a
// module-by-module breakdown for the dashboard
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeAuthRequired, "Unauthorized!")
	}

	courseID := uint(c.Locals("courseID").(int))
	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	stats, err := CourseProgressStats(db, userID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to compute course progress!")
	}

	// Module-wise breakdown
	var modules []courseModels.Module
	db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&modules)

	type ModuleProgress struct {
		ModuleID         uint   `json:"module_id"`
		ModuleTitle      string `json:"module_title"`
		TotalLessons     int64  `json:"total_lessons"`
		CompletedLessons int64  `json:"completed_lessons"`
	}

	moduleProgress := make([]ModuleProgress, len(modules))
	for i, mod := range modules {
		var totalLessons int64
		var completedLessons int64

		db.Model(&courseModels.Lesson{}).
			Where("module_id = ? AND is_deleted = ? AND is_published = ?", mod.ID, false, true).
			Count(&totalLessons)
		db.Model(&courseModels.LessonProgress{}).
			Joins("JOIN lessons ON user_progress.lesson_id = lessons.id").
			Where("user_progress.user_id = ? AND user_progress.is_completed = ? AND lessons.module_id = ?", userID, true, mod.ID).
			Count(&completedLessons)

		moduleProgress[i] = ModuleProgress{
			ModuleID:         mod.ID,
			ModuleTitle:      mod.Title,
			TotalLessons:     totalLessons,
			CompletedLessons: completedLessons,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"stats":           stats,
		"module_progress": moduleProgress,
	})
}

// updateEnrollmentCompletion stamps the enrollment's CompletedAt once every
// published lesson of the course is completed. Best effort; progress saves
// must not fail because of it.
func updateEnrollmentCompletion(userID, courseID uint) {
	db := database.Database.Db

	stats, err := CourseProgressStats(db, userID, courseID)
	if err != nil || stats.Total == 0 || stats.Completed < stats.Total {
		return
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return
	}
	if enrollment.CompletedAt != nil {
		return
	}

	now := time.Now()
	enrollment.CompletedAt = &now
	db.Save(&enrollment)
}
