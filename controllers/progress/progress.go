package progressController

import (
	"errors"
	"time"

	"lingala/database"
	"lingala/middleware"
	courseModels "lingala/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrLessonNotFound = errors.New("lesson not found")

// SaveProgress upserts the caller's playback position for a lesson as a
// single atomic statement keyed on the (user_id, lesson_id) unique index, so
// concurrent player ticks for the same lesson can never produce a second row.
// Completion is sticky: once a row is completed, later lower-percentage
// updates keep it completed and keep the original CompletedAt. Repeating a
// call with the same position and duration leaves the stored state unchanged.
func SaveProgress(db *gorm.DB, userID, lessonID uint, currentTime, duration float64, explicitCompleted bool) (*courseModels.LessonProgress, error) {
	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", lessonID, false, true).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	percentage := float64(0)
	if duration > 0 {
		percentage = currentTime / duration * 100
		if percentage > 100 {
			percentage = 100
		}
	}

	completed := explicitCompleted || percentage >= courseModels.CompletionThresholdPercent

	row := courseModels.LessonProgress{
		UserID:             userID,
		LessonID:           lessonID,
		CourseID:           lesson.CourseID,
		CurrentTime:        currentTime,
		Duration:           duration,
		ProgressPercentage: percentage,
		WatchTimeSeconds:   int(currentTime),
		IsCompleted:        completed,
	}
	if completed {
		now := time.Now()
		row.CompletedAt = &now
	}

	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"current_time":        row.CurrentTime,
			"duration":            row.Duration,
			"progress_percentage": row.ProgressPercentage,
			// Furthest position reached, never rewound
			"watch_time_seconds": gorm.Expr("CASE WHEN excluded.watch_time_seconds > user_progress.watch_time_seconds THEN excluded.watch_time_seconds ELSE user_progress.watch_time_seconds END"),
			// Completion never reverts
			"is_completed": gorm.Expr("user_progress.is_completed OR excluded.is_completed"),
			"completed_at": gorm.Expr("COALESCE(user_progress.completed_at, excluded.completed_at)"),
			"updated_at":   time.Now(),
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	// The conflict branch computes values in the database; read back the
	// persisted row rather than trusting the in-memory struct.
	var saved courseModels.LessonProgress
	if err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&saved).Error; err != nil {
		return nil, err
	}

	return &saved, nil
}

// RecordProgress handles the player's periodic position ticks
func RecordProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeAuthRequired, "Unauthorized!")
	}

	reqData, ok := c.Locals("validatedProgress").(*ProgressRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "Invalid request data!")
	}

	saved, err := SaveProgress(database.Database.Db, userID, reqData.LessonID, reqData.CurrentTime, reqData.Duration, reqData.Completed)
	if err != nil {
		if errors.Is(err, ErrLessonNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Lesson not found!")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to save progress!")
	}

	// Stamp the enrollment once every lesson of the course is completed.
	if saved.IsCompleted {
		updateEnrollmentCompletion(userID, saved.CourseID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress saved successfully!", saved)
}

// GetProgress returns the caller's stored progress for one lesson, or zeroed
// defaults when nothing has been recorded yet
func GetProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeAuthRequired, "Unauthorized!")
	}

	lessonID := uint(c.Locals("lessonID").(int))

	var progress courseModels.LessonProgress
	err := database.Database.Db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to fetch progress!")
		}
		progress = courseModels.LessonProgress{UserID: userID, LessonID: lessonID}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", progress)
}
