package courseController

import (
	"log"

	"lingala/database"
	"lingala/middleware"
	courseModels "lingala/models/course"
	"lingala/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateLesson creates a lesson within a module
func AdminCreateLesson(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleID").(int)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Module not found!")
	}

	reqData, ok := c.Locals("validatedLesson").(*struct {
		Title           string `json:"title"`
		Content         string `json:"content"`
		DurationMinutes int    `json:"duration_minutes"`
		FreePreview     bool   `json:"free_preview"`
		OrderIndex      int    `json:"order_index"`
	})
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "Invalid request data!")
	}

	orderIndex := reqData.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.Lesson{}).Where("module_id = ? AND is_deleted = ?", moduleID, false).Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	lesson := courseModels.Lesson{
		ModuleID:        uint(moduleID),
		CourseID:        module.CourseID,
		Title:           reqData.Title,
		Content:         reqData.Content,
		DurationMinutes: reqData.DurationMinutes,
		FreePreview:     reqData.FreePreview,
		OrderIndex:      orderIndex,
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to create lesson!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// AdminUpdateLesson updates lesson fields
func AdminUpdateLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Lesson not found!")
	}

	reqData, ok := c.Locals("validatedLesson").(*struct {
		Title           string `json:"title"`
		Content         string `json:"content"`
		DurationMinutes int    `json:"duration_minutes"`
		FreePreview     bool   `json:"free_preview"`
		OrderIndex      int    `json:"order_index"`
	})
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "Invalid request data!")
	}

	lesson.Title = reqData.Title
	lesson.Content = reqData.Content
	lesson.DurationMinutes = reqData.DurationMinutes
	lesson.FreePreview = reqData.FreePreview
	if reqData.OrderIndex > 0 {
		lesson.OrderIndex = reqData.OrderIndex
	}

	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to update lesson!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

// AdminPublishLesson toggles a lesson's published flag
func AdminPublishLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Lesson not found!")
	}

	reqData := new(struct {
		IsPublished bool `json:"is_published"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "Invalid request body!")
	}

	lesson.IsPublished = reqData.IsPublished
	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to update lesson!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson publish state updated!", lesson)
}

// AdminDeleteLesson soft-deletes a lesson
func AdminDeleteLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Lesson not found!")
	}

	lesson.IsDeleted = true
	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to delete lesson!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}

// AdminAttachVideo registers an uploaded source video for a lesson and
// starts a transcoding job for it. The lesson stays in PROCESSING until the
// transcode scheduler observes the job finishing.
func AdminAttachVideo(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Lesson not found!")
	}

	reqData := new(struct {
		SourceURL string `json:"source_url"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.SourceURL == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "source_url is required!")
	}

	jobID, err := utils.StartTranscodeJob(reqData.SourceURL)
	if err != nil {
		log.Printf("Error starting transcode job for lesson %d: %v", lesson.ID, err)
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, middleware.CodeUpstreamUnavailable, "Failed to start transcoding!")
	}

	lesson.TranscodeJobID = jobID
	lesson.VideoStatus = courseModels.VideoProcessing
	lesson.VideoURL = ""

	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to update lesson!")
	}

	return middleware.JsonResponse(c, fiber.StatusAccepted, true, "Transcoding started!", lesson)
}
